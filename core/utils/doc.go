// Package utils provides common utility functions for sublime-migrate.
// It includes helpers for converting loosely typed JSON values, splitting
// comma-separated flag values and shortening text for messages.
package utils

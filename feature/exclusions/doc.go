// Package exclusions migrates global exclusions between instances.
//
// Exclusions are create-only: one whose name already exists in the
// destination is skipped and never overwritten.
package exclusions

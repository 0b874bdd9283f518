// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports a development setup
// (debug level) and a production setup (every other level). All output goes
// to stderr; stdout is reserved for command results.
//
// # Run Awareness
//
// Every migration run is tagged with a run id. The WithRunID helper attaches
// it to the logger so all entries of one run can be correlated with the
// archived result and the history record of that run.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: console (colored levels) or json
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	l := logger.WithRunID(log, runID)
//	l.Error("command failed", zap.Error(err))
package logger

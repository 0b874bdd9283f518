// Package output renders command results.
//
// Every command produces a CommandResult which a Formatter writes as a styled
// terminal report (table), JSON, YAML or Markdown. Formatters also own the
// confirmation prompt and progress display, so non-interactive formats never
// block on stdin.
package output

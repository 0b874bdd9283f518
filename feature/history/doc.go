// Package history records migration runs in a SQL database.
//
// Every command that writes (or previews writes) stores one migration_runs
// row and one migration_run_items row per record it touched. Recording is
// optional: it is enabled through the database configuration section and a
// recording failure never fails the command itself.
package history

// Package migrate runs the plan/confirm/apply cycle shared by every resource
// migration.
//
// # Architecture
//
// A resource package implements Migrator:
//
//  1. Plan fetches source and destination collections, filters the source and
//     partitions it into New, Update and Skipped items. It returns an opaque
//     plan consumed by Apply and a Preview shown to the user.
//
//  2. Apply performs the writes against the destination. Every item is an
//     independent leaf: a failure is recorded in the Result and the remaining
//     items are still applied. There is no rollback; re-running a migration
//     is the recovery mechanism because matching is recomputed from live data.
//
// Run sequences the two phases. A dry run stops after Plan, an interactive run
// shows the preview and asks for confirmation, and writes only happen once the
// run is confirmed (via --yes or the prompt).
//
// # Early outcomes
//
// Plan may end a run before Apply by returning a *Halt, for example when the
// filters leave nothing to migrate. A Halt carries its own message and success
// flag and is rendered as-is instead of as an error.
//
// # Usage Example
//
//	m := actions.NewMigrator(env, actions.Options{IncludeTypes: "webhook"})
//	result := migrate.Run(ctx, m, migrate.Options{DryRun: true, Formatter: f, Log: l})
//	_ = f.Result(result)
package migrate

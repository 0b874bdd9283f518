// Package orchestrator runs every resource migration in dependency order.
//
// Independent records (actions, lists, exclusions, feeds) go first, then
// rules, then the links that need both sides to exist (actions on rules,
// rule exclusions). A failing step is recorded and the next one still runs.
package orchestrator

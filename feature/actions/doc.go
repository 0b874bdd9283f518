// Package actions migrates actions between instances.
//
// Actions are matched by name. A match becomes an update that is only written
// when the configuration differs. Built-in action types are never migrated.
package actions

// Package lists migrates string lists and user group lists.
//
// Lists are matched by name alone. String lists carry their entries, which
// only the detail endpoint returns; user group lists reference an identity
// provider group that is resolved by name on the destination.
package lists

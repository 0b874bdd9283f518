// Package compare reports how the configuration of two instances differs.
//
// Records are paired with the same identity the migrators use (names, and
// the body hash for rules), so a clean comparison means a migration would
// have nothing to create.
package compare

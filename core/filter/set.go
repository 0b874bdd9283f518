package filter

import "sublime-migrate/core/utils"

// Set is a string set.
type Set map[string]struct{}

// NewSet builds a Set from values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// ParseSet builds a Set from a comma-separated flag value.
func ParseSet(csv string) Set {
	return NewSet(utils.SplitCSV(csv)...)
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// IgnoredActionTypes are platform built-in action types that are never migrated.
var IgnoredActionTypes = NewSet("quarantine_message", "auto_review", "move_to_spam", "delete_message")

// DefaultExcludedAuthors marks records created by the platform itself.
var DefaultExcludedAuthors = NewSet("Sublime Security", "System")

package inventory

import (
	"fmt"

	"sublime-migrate/core/output"
)

// Listed builds the result of a listing of n records of resource.
func Listed(resource string, n int, data any, notes string) *output.CommandResult {
	return output.Succeeded(fmt.Sprintf("Successfully retrieved %d %s", n, resource), data, notes)
}

// RulesListed builds the result of a rule listing, noting the filters of q.
func RulesListed(t RuleTable, q RuleQuery) *output.CommandResult {
	notes := fmt.Sprintf("Total: %d rules", len(t.Rules))
	if f := q.Describe(); f != "" {
		notes += " (filtered by " + f + ")"
	}
	return Listed("rules", len(t.Rules), t, notes)
}

// Found builds the result of a single record lookup.
func Found(kind string, rec any) *output.CommandResult {
	return output.Succeeded(fmt.Sprintf("Successfully retrieved %s: %s", kind, Name(rec)), Detail(rec), "")
}

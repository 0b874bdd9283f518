// Package ruleexclusions copies rule-scoped exclusions from source rules to
// their exact counterparts in the destination.
//
// Rule exclusions are stored as expressions. Only the recognized shapes
// (recipient email, sender email, sender domain) can be re-created through
// the add-exclusion endpoint; anything else is skipped.
package ruleexclusions

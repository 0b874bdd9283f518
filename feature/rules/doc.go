// Package rules migrates user-created rules between instances.
//
// A rule is the same rule on both sides when name and source_md5 match; such
// rules are updated. A rule whose name exists with a different body is skipped
// and never written. Feed rules are excluded at fetch time.
package rules

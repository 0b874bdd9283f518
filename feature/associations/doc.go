// Package associations copies the actions attached to rules from one
// instance to another.
//
// Both the rules and the actions must already exist in the destination.
// Rules are resolved by name and source_md5, actions by name and type. Since
// rule records only carry action names and ids, the source action types are
// looked up before matching.
package associations

// Package model defines the typed records exchanged with the Sublime Security API.
//
// Every wire object is decoded at the transport boundary into one of the records in
// this package (Action, Rule, List, Feed, Exclusion, UserGroup, Me). Matching code
// works on named fields instead of string-keyed maps, so identity keys such as
// RuleKey (name + source_md5) and ActionKey (name + type) are plain comparable
// structs usable as map keys.
//
// # Decoding by kind
//
// Decoders maps a Kind to the function that decodes a single object of that kind.
// It is used where the resource kind is only known at run time, e.g. the generic
// "get <kind> <id>" path:
//
//	rec, err := model.Decode(model.KindRule, raw)
package model

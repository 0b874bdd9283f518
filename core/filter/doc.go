// Package filter narrows record slices by id, type, creator and attribute.
//
// Every filter is pure: it preserves input order, never mutates its input and
// treats empty criteria as "keep everything".
package filter

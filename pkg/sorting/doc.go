// Package sorting turns sort-related query parameters into an ordering for a
// collection and into toggle links for column headers.
//
// A Spec declares which fields may be sorted and under which public alias they
// travel in the query string. A Helper is built per request from a snapshot of
// the query parameters; it never mutates the caller's url.Values and all of its
// operations take the field name explicitly, so presentation layers can consult
// it without generated per-field accessors.
package sorting

package search

import (
	"fmt"
	"strings"
)

// Lookup names a string comparison applied by a Condition.
type Lookup string

const (
	LookupExact       Lookup = "exact"
	LookupIExact      Lookup = "iexact"
	LookupContains    Lookup = "contains"
	LookupIContains   Lookup = "icontains"
	LookupStartsWith  Lookup = "startswith"
	LookupIStartsWith Lookup = "istartswith"
	LookupEndsWith    Lookup = "endswith"
	LookupIEndsWith   Lookup = "iendswith"
	LookupSearch      Lookup = "search"
	LookupRegex       Lookup = "regex"
	LookupIRegex      Lookup = "iregex"

	// Range lookups compare ordered values such as dates and numbers.
	LookupGT  Lookup = "gt"
	LookupGTE Lookup = "gte"
	LookupLT  Lookup = "lt"
	LookupLTE Lookup = "lte"
	// LookupIsNull matches when the field presence differs from Value (bool).
	LookupIsNull Lookup = "isnull"
)

// stringLookups are the lookups accepted for search fields.
var stringLookups = map[Lookup]struct{}{
	LookupIExact:      {},
	LookupContains:    {},
	LookupIContains:   {},
	LookupStartsWith:  {},
	LookupIStartsWith: {},
	LookupEndsWith:    {},
	LookupIEndsWith:   {},
	LookupSearch:      {},
	LookupRegex:       {},
	LookupIRegex:      {},
}

// ValidStringLookup reports whether l may be used on a search field.
func ValidStringLookup(l Lookup) bool {
	_, ok := stringLookups[l.normalise()]
	return ok
}

func (l Lookup) normalise() Lookup {
	trimmed := Lookup(strings.ToLower(strings.TrimSpace(string(l))))
	if trimmed == "" {
		return LookupIContains
	}
	return trimmed
}

// FieldLookup pairs a search field with the lookup used for each word.
type FieldLookup struct {
	Field  string `json:"field" yaml:"field"`
	Lookup Lookup `json:"lookup,omitempty" yaml:"lookup,omitempty"`
}

// ParseFieldLookup accepts "field" or "field:lookup".
func ParseFieldLookup(raw string) (FieldLookup, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FieldLookup{}, fmt.Errorf("search: empty field")
	}
	field, lookup, found := strings.Cut(raw, ":")
	field = strings.TrimSpace(field)
	if field == "" {
		return FieldLookup{}, fmt.Errorf("search: empty field in %q", raw)
	}
	if !found {
		return FieldLookup{Field: field, Lookup: LookupIContains}, nil
	}
	return FieldLookup{Field: field, Lookup: Lookup(strings.TrimSpace(lookup)).normalise()}, nil
}

// ParseFieldLookups parses a list of "field[:lookup]" entries.
func ParseFieldLookups(raw []string) ([]FieldLookup, error) {
	out := make([]FieldLookup, 0, len(raw))
	for _, entry := range raw {
		fl, err := ParseFieldLookup(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, fl)
	}
	return out, nil
}

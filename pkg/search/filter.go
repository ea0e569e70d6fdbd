package search

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Getter exposes record values by field name.
type Getter interface {
	Get(field string) (any, bool)
}

// Filter is a node in a filter tree.
type Filter interface {
	Match(record Getter) bool
}

// Condition compares one field against a value using a lookup.
type Condition struct {
	Field  string
	Lookup Lookup
	Value  any
}

// And matches when every child matches. An empty And matches everything.
type And []Filter

// Or matches when any child matches. An empty Or matches nothing.
type Or []Filter

// Match implements Filter.
func (a And) Match(record Getter) bool {
	for _, child := range a {
		if child != nil && !child.Match(record) {
			return false
		}
	}
	return true
}

// Match implements Filter.
func (o Or) Match(record Getter) bool {
	for _, child := range o {
		if child != nil && child.Match(record) {
			return true
		}
	}
	return false
}

// Match implements Filter.
func (c Condition) Match(record Getter) bool {
	if record == nil {
		return false
	}
	lookup := c.Lookup.normalise()
	raw, ok := record.Get(c.Field)
	if ok {
		if t, isTime := asTime(raw); isTime && t.IsZero() {
			raw = nil
		}
	}
	if lookup == LookupIsNull {
		wantNull, _ := c.Value.(bool)
		return (!ok || raw == nil) == wantNull
	}
	if !ok || raw == nil {
		return false
	}

	switch lookup {
	case LookupGT, LookupGTE, LookupLT, LookupLTE:
		cmp, ok := Compare(raw, c.Value)
		if !ok {
			return false
		}
		switch lookup {
		case LookupGT:
			return cmp > 0
		case LookupGTE:
			return cmp >= 0
		case LookupLT:
			return cmp < 0
		default:
			return cmp <= 0
		}
	}

	if want, ok := c.Value.(time.Time); ok {
		got, ok := asTime(raw)
		if !ok {
			return false
		}
		return sameDay(got, want)
	}

	got := toString(raw)
	want := toString(c.Value)

	switch lookup {
	case LookupExact:
		return got == want
	case LookupIExact:
		return strings.EqualFold(got, want)
	case LookupContains:
		return strings.Contains(got, want)
	case LookupIContains, LookupSearch:
		return strings.Contains(strings.ToLower(got), strings.ToLower(want))
	case LookupStartsWith:
		return strings.HasPrefix(got, want)
	case LookupIStartsWith:
		return strings.HasPrefix(strings.ToLower(got), strings.ToLower(want))
	case LookupEndsWith:
		return strings.HasSuffix(got, want)
	case LookupIEndsWith:
		return strings.HasSuffix(strings.ToLower(got), strings.ToLower(want))
	case LookupRegex:
		return matchRegexp(want, got, false)
	case LookupIRegex:
		return matchRegexp(want, got, true)
	default:
		return false
	}
}

// Combine joins non-nil filters with And. It returns nil when nothing is left
// and the filter itself when only one remains.
func Combine(filters ...Filter) Filter {
	out := make(And, 0, len(filters))
	for _, f := range filters {
		if f == nil {
			continue
		}
		if nested, ok := f.(And); ok && len(nested) == 0 {
			continue
		}
		out = append(out, f)
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}

func matchRegexp(pattern, value string, fold bool) bool {
	if fold {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	default:
		return time.Time{}, false
	}
}

// Compare orders a against b. Times compare as instants, numbers as
// float64 and everything else as strings.
func Compare(a, b any) (int, bool) {
	if bt, ok := asTime(b); ok {
		at, ok := asTime(a)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}
	if bf, ok := asFloat(b); ok {
		af, ok := asFloat(a)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	return strings.Compare(toString(a), toString(b)), true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

package search

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const DefaultParam = "q"

var (
	// ErrInvalidLookup is returned when a search field uses a lookup that is
	// not a string lookup and lookup checking is enabled.
	ErrInvalidLookup = errors.New("search: invalid string lookup")
	// ErrImproperlyConfigured reports an unusable search configuration.
	ErrImproperlyConfigured = errors.New("search: improperly configured")
)

// DefaultDateFormats mirror the day.month.year layouts accepted by default.
var DefaultDateFormats = []string{"02.01.06", "02.01.2006"}

// Config describes how a free-text query is matched against a collection.
//
// Each word of the query must match at least one search field (or date field,
// when the word parses as a date); all words must match.
type Config struct {
	Fields      []FieldLookup `json:"fields,omitempty" yaml:"fields,omitempty"`
	DateFields  []string      `json:"dateFields,omitempty" yaml:"dateFields,omitempty"`
	DateFormats []string      `json:"dateFormats,omitempty" yaml:"dateFormats,omitempty"`
	Param       string        `json:"param,omitempty" yaml:"param,omitempty"`

	// NoSplit keeps the query as a single term instead of splitting on
	// whitespace.
	NoSplit bool `json:"noSplit,omitempty" yaml:"noSplit,omitempty"`
	// Disabled stops FromQuery from reading the query parameter; callers can
	// still call Build with their own query.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	// SkipLookupCheck allows lookups outside the known string lookups.
	SkipLookupCheck bool `json:"skipLookupCheck,omitempty" yaml:"skipLookupCheck,omitempty"`
	// Location is used when parsing dates; defaults to UTC.
	Location *time.Location `json:"-" yaml:"-"`
}

// Enabled reports whether the configuration has anything to search.
func (c Config) Enabled() bool {
	return len(c.Fields) > 0 || len(c.DateFields) > 0
}

// ParamName returns the query key carrying the search text.
func (c Config) ParamName() string {
	if p := strings.TrimSpace(c.Param); p != "" {
		return p
	}
	return DefaultParam
}

// Validate checks field names and lookups.
func (c Config) Validate() error {
	_, err := c.fieldLookups()
	return err
}

// Words splits query into search terms.
func (c Config) Words(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if c.NoSplit {
		return []string{query}
	}
	return strings.Fields(query)
}

// TryDate parses word with the configured layouts, returning the first match.
func (c Config) TryDate(word string) (time.Time, bool) {
	formats := c.DateFormats
	if len(formats) == 0 {
		formats = DefaultDateFormats
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range formats {
		parsed, err := time.ParseInLocation(layout, word, loc)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Query extracts the search text from values. It returns an empty string when
// the configuration is disabled.
func (c Config) Query(values url.Values) string {
	if c.Disabled || values == nil {
		return ""
	}
	return strings.TrimSpace(values.Get(c.ParamName()))
}

// FromQuery builds a filter from the search parameter in values.
func (c Config) FromQuery(values url.Values) (Filter, error) {
	return c.Build(c.Query(values))
}

// Build turns query into a filter tree. An empty query yields a nil filter.
func (c Config) Build(query string) (Filter, error) {
	pairs, err := c.fieldLookups()
	if err != nil {
		return nil, err
	}
	words := c.Words(query)
	if len(words) == 0 {
		return nil, nil
	}
	if len(pairs) == 0 && len(c.DateFields) == 0 {
		return nil, fmt.Errorf("%w: no search fields", ErrImproperlyConfigured)
	}

	all := make(And, 0, len(words))
	for _, word := range words {
		matches := make(Or, 0, len(pairs)+len(c.DateFields))
		for _, pair := range pairs {
			matches = append(matches, Condition{Field: pair.Field, Lookup: pair.Lookup, Value: word})
		}
		if len(c.DateFields) > 0 {
			if date, ok := c.TryDate(word); ok {
				for _, field := range c.DateFields {
					matches = append(matches, Condition{Field: field, Lookup: LookupExact, Value: date})
				}
			}
		}
		all = append(all, matches)
	}
	return all, nil
}

func (c Config) fieldLookups() ([]FieldLookup, error) {
	out := make([]FieldLookup, 0, len(c.Fields))
	for _, fl := range c.Fields {
		field := strings.TrimSpace(fl.Field)
		if field == "" {
			return nil, fmt.Errorf("%w: empty search field", ErrImproperlyConfigured)
		}
		lookup := fl.Lookup.normalise()
		if !c.SkipLookupCheck && !ValidStringLookup(lookup) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidLookup, lookup)
		}
		out = append(out, FieldLookup{Field: field, Lookup: lookup})
	}
	for _, field := range c.DateFields {
		if strings.TrimSpace(field) == "" {
			return nil, fmt.Errorf("%w: empty date field", ErrImproperlyConfigured)
		}
	}
	return out, nil
}

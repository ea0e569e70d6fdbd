package search

import (
	"net/url"
	"strings"
)

// FilterField exposes a column as an exact-match query parameter.
type FilterField struct {
	Column string `json:"column" yaml:"column"`
	Param  string `json:"param" yaml:"param"`
	// LabelColumn optionally names the column holding a display value for
	// the filter options.
	LabelColumn string `json:"labelColumn,omitempty" yaml:"labelColumn,omitempty"`
}

// ParamName defaults to the column name.
func (f FilterField) ParamName() string {
	if p := strings.TrimSpace(f.Param); p != "" {
		return p
	}
	return strings.TrimSpace(f.Column)
}

// FilterFields is the list of filterable columns of a view.
type FilterFields []FilterField

// Applied returns the non-empty filter values present in values keyed by
// parameter name.
func (f FilterFields) Applied(values url.Values) map[string]string {
	applied := make(map[string]string)
	for _, field := range f {
		if v := strings.TrimSpace(values.Get(field.ParamName())); v != "" {
			applied[field.ParamName()] = v
		}
	}
	return applied
}

// Filter builds an exact-match filter for every applied parameter. It
// returns nil when none is applied.
func (f FilterFields) Filter(values url.Values) Filter {
	var conditions And
	for _, field := range f {
		v := strings.TrimSpace(values.Get(field.ParamName()))
		if v == "" {
			continue
		}
		conditions = append(conditions, Condition{Field: field.Column, Lookup: LookupExact, Value: v})
	}
	if len(conditions) == 0 {
		return nil
	}
	return conditions
}

package viewconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-listviews/pkg/calendar"
	"github.com/goliatone/go-listviews/pkg/formset"
	"github.com/goliatone/go-listviews/pkg/paginate"
	"github.com/goliatone/go-listviews/pkg/search"
	"github.com/goliatone/go-listviews/pkg/sorting"
)

// ErrInvalidView reports a view definition that cannot be served.
var ErrInvalidView = errors.New("viewconfig: invalid view")

// Column is a displayed column. Label may carry inline SVG icon markup,
// which is sanitised on load.
type Column struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// View describes one view. Calendar, FormSet and Inlines are set only for
// views of those kinds.
type View struct {
	Name     string `json:"-" yaml:"-"`
	Source   string `json:"-" yaml:"-"`
	Table    string `json:"table" yaml:"table"`
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	Columns []Column            `json:"columns,omitempty" yaml:"columns,omitempty"`
	Sort    sorting.Config      `json:"sort,omitempty" yaml:"sort,omitempty"`
	Search  search.Config       `json:"search,omitempty" yaml:"search,omitempty"`
	Filters search.FilterFields `json:"filters,omitempty" yaml:"filters,omitempty"`
	Limits  paginate.Limits     `json:"limits,omitempty" yaml:"limits,omitempty"`

	Calendar *calendar.Config     `json:"calendar,omitempty" yaml:"calendar,omitempty"`
	FormSet  *formset.Config      `json:"formset,omitempty" yaml:"formset,omitempty"`
	Inlines  *formset.InlineGroup `json:"inlines,omitempty" yaml:"inlines,omitempty"`

	SuccessURL     string `json:"successUrl,omitempty" yaml:"successUrl,omitempty"`
	SuccessMessage string `json:"successMessage,omitempty" yaml:"successMessage,omitempty"`
}

// Kind names the view flavour.
func (v View) Kind() string {
	switch {
	case v.Calendar != nil:
		return "calendar"
	case v.Inlines != nil:
		return "inlines"
	case v.FormSet != nil:
		return "formset"
	default:
		return "list"
	}
}

// Validate checks every nested configuration.
func (v View) Validate() error {
	if strings.TrimSpace(v.Table) == "" && v.Inlines == nil {
		return fmt.Errorf("%w: %q has no table", ErrInvalidView, v.Name)
	}
	if err := v.Sort.Validate(); err != nil {
		return fmt.Errorf("%w: %q sort: %w", ErrInvalidView, v.Name, err)
	}
	if err := v.Search.Validate(); err != nil {
		return fmt.Errorf("%w: %q search: %w", ErrInvalidView, v.Name, err)
	}
	if err := v.Limits.Validate(); err != nil {
		return fmt.Errorf("%w: %q limits: %w", ErrInvalidView, v.Name, err)
	}
	if v.Calendar != nil {
		if v.Limits.Enabled() {
			return fmt.Errorf("%w: %q is a calendar view and cannot be paginated", ErrInvalidView, v.Name)
		}
		if err := v.Calendar.Validate(); err != nil {
			return fmt.Errorf("%w: %q calendar: %w", ErrInvalidView, v.Name, err)
		}
	}
	if v.FormSet != nil {
		if err := v.FormSet.Validate(); err != nil {
			return fmt.Errorf("%w: %q formset: %w", ErrInvalidView, v.Name, err)
		}
	}
	if v.Inlines != nil {
		if err := v.Inlines.Validate(); err != nil {
			return fmt.Errorf("%w: %q inlines: %w", ErrInvalidView, v.Name, err)
		}
	}
	seen := make(map[string]struct{}, len(v.Columns))
	for _, c := range v.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: %q has a column without a name", ErrInvalidView, v.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: %q declares column %q twice", ErrInvalidView, v.Name, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// ColumnLabel returns the label for a column, defaulting to its name.
func (v View) ColumnLabel(name string) string {
	for _, c := range v.Columns {
		if c.Name == name && c.Label != "" {
			return c.Label
		}
	}
	return name
}

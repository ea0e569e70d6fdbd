package paginate

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultParam carries the requested page size.
	DefaultParam = "limit"
	// All selects the whole collection as a single page.
	All = "all"
)

// ErrImproperlyConfigured reports an unusable limit configuration.
var ErrImproperlyConfigured = errors.New("paginate: improperly configured")

// Limit is one selectable page size. Label defaults to Value.
type Limit struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// DisplayLabel returns Label, or Value when no label is set.
func (l Limit) DisplayLabel() string {
	if l.Label != "" {
		return l.Label
	}
	return l.Value
}

// Limits configures page-size selection. With no Valid entries any positive
// size (or All) is accepted.
type Limits struct {
	Default int     `json:"default" yaml:"default"`
	Valid   []Limit `json:"valid,omitempty" yaml:"valid,omitempty"`
	Param   string  `json:"param,omitempty" yaml:"param,omitempty"`
}

// LimitsFromValues builds Valid entries from bare values such as 10, 20, "all".
func LimitsFromValues(def int, values ...any) (Limits, error) {
	limits := Limits{Default: def}
	for _, v := range values {
		switch val := v.(type) {
		case int:
			limits.Valid = append(limits.Valid, Limit{Value: strconv.Itoa(val)})
		case string:
			limits.Valid = append(limits.Valid, Limit{Value: val})
		case Limit:
			limits.Valid = append(limits.Valid, val)
		default:
			return Limits{}, fmt.Errorf("%w: unsupported limit %v (%T)", ErrImproperlyConfigured, v, v)
		}
	}
	return limits, limits.Validate()
}

// Enabled reports whether pagination applies.
func (l Limits) Enabled() bool {
	return l.Default > 0
}

// ParamName returns the query key carrying the page size.
func (l Limits) ParamName() string {
	if p := strings.TrimSpace(l.Param); p != "" {
		return p
	}
	return DefaultParam
}

// Validate checks the default and every valid entry.
func (l Limits) Validate() error {
	if l.Default < 0 {
		return fmt.Errorf("%w: negative default limit %d", ErrImproperlyConfigured, l.Default)
	}
	seen := make(map[string]struct{}, len(l.Valid))
	for _, limit := range l.Valid {
		value := normalise(limit.Value)
		if value != All {
			if n, err := strconv.Atoi(value); err != nil || n <= 0 {
				return fmt.Errorf("%w: invalid limit %q", ErrImproperlyConfigured, limit.Value)
			}
		}
		if _, dup := seen[value]; dup {
			return fmt.Errorf("%w: duplicate limit %q", ErrImproperlyConfigured, limit.Value)
		}
		seen[value] = struct{}{}
	}
	return nil
}

// Allowed reports whether value may be selected.
func (l Limits) Allowed(value string) bool {
	value = normalise(value)
	if value == "" {
		return false
	}
	if value != All {
		if n, err := strconv.Atoi(value); err != nil || n <= 0 {
			return false
		}
	}
	if len(l.Valid) == 0 {
		return true
	}
	for _, limit := range l.Valid {
		if normalise(limit.Value) == value {
			return true
		}
	}
	return false
}

// Selected returns the effective limit value: the requested one when allowed,
// otherwise the default rendered as a string.
func (l Limits) Selected(values url.Values) string {
	if values != nil {
		if raw := values.Get(l.ParamName()); l.Allowed(raw) {
			return normalise(raw)
		}
	}
	return strconv.Itoa(l.Default)
}

// Resolve returns the page size for the request. All resolves to total, so
// the whole collection fits on one page.
func (l Limits) Resolve(values url.Values, total int) int {
	selected := l.Selected(values)
	if selected == All {
		if total <= 0 {
			return l.Default
		}
		return total
	}
	n, err := strconv.Atoi(selected)
	if err != nil {
		return l.Default
	}
	return n
}

// Choices returns the valid limits with labels filled in.
func (l Limits) Choices() []Limit {
	out := make([]Limit, 0, len(l.Valid))
	for _, limit := range l.Valid {
		out = append(out, Limit{Value: normalise(limit.Value), Label: limit.DisplayLabel()})
	}
	return out
}

func normalise(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, All) {
		return All
	}
	return value
}

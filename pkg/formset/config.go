package formset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-listviews/pkg/store"
)

const (
	TotalFormsKey   = "TOTAL_FORMS"
	InitialFormsKey = "INITIAL_FORMS"
	MinNumFormsKey  = "MIN_NUM_FORMS"
	MaxNumFormsKey  = "MAX_NUM_FORMS"

	DeleteField = "DELETE"
	OrderField  = "ORDER"

	// NonFieldErrors keys messages that belong to a whole form.
	NonFieldErrors = "__all__"

	DefaultPrefix = "form"
	DefaultExtra  = 2
	DefaultMaxNum = 1000
)

var (
	// ErrManagementForm is returned when the management form is missing or
	// has been tampered with.
	ErrManagementForm = errors.New("formset: management form data is missing or has been tampered with")
	// ErrImproperlyConfigured reports an unusable formset configuration.
	ErrImproperlyConfigured = errors.New("formset: improperly configured")
)

// Config declares the shape of a formset.
type Config struct {
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	// Extra is the number of blank forms rendered after the initial ones.
	Extra  int `json:"extra" yaml:"extra"`
	MaxNum int `json:"maxNum,omitempty" yaml:"maxNum,omitempty"`
	MinNum int `json:"minNum,omitempty" yaml:"minNum,omitempty"`

	ValidateMax bool `json:"validateMax,omitempty" yaml:"validateMax,omitempty"`
	ValidateMin bool `json:"validateMin,omitempty" yaml:"validateMin,omitempty"`
	CanDelete   bool `json:"canDelete,omitempty" yaml:"canDelete,omitempty"`
	CanOrder    bool `json:"canOrder,omitempty" yaml:"canOrder,omitempty"`

	Fields   []string `json:"fields" yaml:"fields"`
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`
	// PK names the primary key carried by initial records.
	PK string `json:"pk,omitempty" yaml:"pk,omitempty"`
}

// DefaultConfig returns a configuration with two extra forms.
func DefaultConfig(prefix string, fields ...string) Config {
	return Config{Prefix: prefix, Extra: DefaultExtra, MaxNum: DefaultMaxNum, Fields: fields}
}

// Validate checks counts and field names.
func (c Config) Validate() error {
	if c.Extra < 0 || c.MinNum < 0 || c.MaxNum < 0 {
		return fmt.Errorf("%w: negative form count", ErrImproperlyConfigured)
	}
	if c.MaxNum > 0 && c.MinNum > c.MaxNum {
		return fmt.Errorf("%w: min %d exceeds max %d", ErrImproperlyConfigured, c.MinNum, c.MaxNum)
	}
	if len(c.Fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrImproperlyConfigured)
	}
	seen := make(map[string]struct{}, len(c.Fields))
	for _, f := range c.Fields {
		f = strings.TrimSpace(f)
		if f == "" || strings.Contains(f, "-") {
			return fmt.Errorf("%w: invalid field name %q", ErrImproperlyConfigured, f)
		}
		if f == DeleteField || f == OrderField {
			return fmt.Errorf("%w: reserved field name %q", ErrImproperlyConfigured, f)
		}
		if _, dup := seen[f]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrImproperlyConfigured, f)
		}
		seen[f] = struct{}{}
	}
	for _, f := range c.Required {
		if _, ok := seen[f]; !ok {
			return fmt.Errorf("%w: required field %q is not a form field", ErrImproperlyConfigured, f)
		}
	}
	return nil
}

func (c Config) prefix() string {
	if p := strings.TrimSpace(c.Prefix); p != "" {
		return p
	}
	return DefaultPrefix
}

func (c Config) maxNum() int {
	if c.MaxNum > 0 {
		return c.MaxNum
	}
	return DefaultMaxNum
}

// absoluteMax caps the number of forms accepted from a submission.
func (c Config) absoluteMax() int {
	return c.maxNum() + DefaultMaxNum
}

func (c Config) pk() string {
	if c.PK != "" {
		return c.PK
	}
	return store.DefaultPK
}

func (c Config) required(field string) bool {
	for _, f := range c.Required {
		if f == field {
			return true
		}
	}
	return false
}

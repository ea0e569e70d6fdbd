package sorting

import (
	"fmt"
	"strings"
)

const (
	DefaultFieldParam     = "o"
	DefaultDirectionParam = "ot"
)

// Field declares one sortable entry. Name identifies the field for callers,
// Alias is the value exposed in the query string, and Columns lists the
// underlying sortable columns. When Columns is empty the field sorts by Name.
type Field struct {
	Name    string   `json:"name" yaml:"name"`
	Alias   string   `json:"alias" yaml:"alias"`
	Columns []string `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// SortColumns returns the columns the field orders by.
func (f Field) SortColumns() []string {
	if len(f.Columns) == 0 {
		return []string{f.Name}
	}
	return append([]string(nil), f.Columns...)
}

// Spec is the ordered list of sortable fields.
type Spec []Field

// SpecFromNames builds a spec where every field is exposed under its own name.
func SpecFromNames(names ...string) Spec {
	spec := make(Spec, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		spec = append(spec, Field{Name: name, Alias: name})
	}
	return spec
}

// Normalize returns a copy with names, aliases and columns trimmed, so the
// values a helper matches against are the values Validate checked.
func (s Spec) Normalize() Spec {
	if s == nil {
		return nil
	}
	out := make(Spec, len(s))
	for i, field := range s {
		out[i] = Field{Name: strings.TrimSpace(field.Name), Alias: strings.TrimSpace(field.Alias)}
		for _, column := range field.Columns {
			out[i].Columns = append(out[i].Columns, strings.TrimSpace(column))
		}
	}
	return out
}

// Validate checks names and aliases. Duplicate aliases are rejected because the
// reverse lookup from query value to field would be ambiguous. A name may
// repeat under different aliases; every alias activates it and links use the
// last alias declared for the name.
func (s Spec) Validate() error {
	aliases := make(map[string]struct{}, len(s))
	for i, field := range s {
		name := strings.TrimSpace(field.Name)
		alias := strings.TrimSpace(field.Alias)
		if name == "" {
			return fmt.Errorf("%w: entry %d has an empty field name", ErrImproperlyConfigured, i)
		}
		if alias == "" {
			return fmt.Errorf("%w: field %q has an empty alias", ErrImproperlyConfigured, name)
		}
		if _, exists := aliases[alias]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateAlias, alias)
		}
		for _, column := range field.Columns {
			if strings.TrimSpace(column) == "" {
				return fmt.Errorf("%w: field %q has an empty column", ErrImproperlyConfigured, name)
			}
		}
		aliases[alias] = struct{}{}
	}
	return nil
}

// Config is the view-level sort configuration. Fields and Aliases are two
// mutually exclusive ways of declaring the spec.
type Config struct {
	Fields           []string  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Aliases          []Field   `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	FieldParam       string    `json:"fieldParam,omitempty" yaml:"fieldParam,omitempty"`
	DirectionParam   string    `json:"directionParam,omitempty" yaml:"directionParam,omitempty"`
	DefaultField     string    `json:"defaultField,omitempty" yaml:"defaultField,omitempty"`
	DefaultDirection Direction `json:"defaultDirection,omitempty" yaml:"defaultDirection,omitempty"`
}

// Spec resolves the configured spec, failing fast when both declaration
// styles are present.
func (c Config) Spec() (Spec, error) {
	if len(c.Fields) > 0 && len(c.Aliases) > 0 {
		return nil, fmt.Errorf("%w: provide sort fields or sort aliases, not both", ErrImproperlyConfigured)
	}
	var spec Spec
	if len(c.Fields) > 0 {
		spec = SpecFromNames(c.Fields...)
	} else {
		spec = Spec(c.Aliases).Normalize()
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Validate checks the configuration without building a helper.
func (c Config) Validate() error {
	spec, err := c.Spec()
	if err != nil {
		return err
	}
	if c.DefaultDirection != "" && !c.DefaultDirection.Valid() {
		return fmt.Errorf("%w: default direction %q", ErrImproperlyConfigured, c.DefaultDirection)
	}
	if c.DefaultField == "" {
		return nil
	}
	for _, field := range spec {
		if field.Name == strings.TrimSpace(c.DefaultField) {
			return nil
		}
	}
	return fmt.Errorf("%w: default %q", ErrUnknownField, c.DefaultField)
}

// Options converts the parameter names and defaults into helper options.
func (c Config) Options() []Option {
	opts := []Option{
		WithFieldParam(c.FieldParam),
		WithDirectionParam(c.DirectionParam),
	}
	if c.DefaultField != "" {
		opts = append(opts, WithDefault(c.DefaultField, c.DefaultDirection))
	}
	return opts
}

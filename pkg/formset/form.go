package formset

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-listviews/pkg/store"
)

// Form is one form of a formset, or a standalone form when Index is -1.
type Form struct {
	Prefix string   `json:"prefix"`
	Index  int      `json:"index"`
	Fields []string `json:"fields"`

	// Data holds the submitted values of a bound form.
	Data    map[string]string `json:"data,omitempty"`
	Initial store.Record      `json:"initial,omitempty"`
	// Cleaned holds typed values set by validators; they override Data when
	// the form is saved.
	Cleaned store.Record        `json:"-"`
	Errors  map[string][]string `json:"errors,omitempty"`

	Bound    bool `json:"bound"`
	Extra    bool `json:"extra"`
	Deleted  bool `json:"deleted"`
	Order    int  `json:"order,omitempty"`
	HasOrder bool `json:"hasOrder,omitempty"`

	// bindErrors are found while reading the submission and survive
	// revalidation.
	bindErrors map[string][]string
}

// NewForm returns an unbound form showing initial.
func NewForm(prefix string, fields []string, initial store.Record) *Form {
	return &Form{Prefix: prefix, Index: -1, Fields: fields, Initial: initial.Clone()}
}

// BindForm reads a standalone form from values.
func BindForm(prefix string, fields []string, values url.Values, initial store.Record) *Form {
	f := NewForm(prefix, fields, initial)
	f.bind(values)
	return f
}

func newFormsetForm(prefix string, index int, fields []string, initial store.Record, extra bool) *Form {
	return &Form{
		Prefix:  fmt.Sprintf("%s-%d", prefix, index),
		Index:   index,
		Fields:  fields,
		Initial: initial.Clone(),
		Extra:   extra,
	}
}

// Key returns the input name for field.
func (f *Form) Key(field string) string {
	if f.Prefix == "" {
		return field
	}
	return f.Prefix + "-" + field
}

func (f *Form) bind(values url.Values) {
	f.Bound = true
	f.Data = make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		if vals, ok := values[f.Key(field)]; ok && len(vals) > 0 {
			f.Data[field] = vals[0]
		}
	}
}

// Value returns the submitted value of a bound form, or the initial value.
func (f *Form) Value(field string) string {
	if f.Bound {
		if v, ok := f.Data[field]; ok {
			return v
		}
		return ""
	}
	return initialString(f.Initial, field)
}

// Changed reports whether any submitted value differs from the initial one.
func (f *Form) Changed() bool {
	if !f.Bound {
		return false
	}
	for _, field := range f.Fields {
		if strings.TrimSpace(f.Data[field]) != initialString(f.Initial, field) {
			return true
		}
	}
	return false
}

// AddError records message against field. An empty field records a
// non-field error.
func (f *Form) AddError(field, message string) {
	if field == "" {
		field = NonFieldErrors
	}
	if f.Errors == nil {
		f.Errors = make(map[string][]string)
	}
	f.Errors[field] = append(f.Errors[field], message)
}

func (f *Form) addBindError(field, message string) {
	if f.bindErrors == nil {
		f.bindErrors = make(map[string][]string)
	}
	f.bindErrors[field] = append(f.bindErrors[field], message)
	f.AddError(field, message)
}

// resetErrors drops messages from earlier validation passes.
func (f *Form) resetErrors() {
	f.Errors = nil
	for field, messages := range f.bindErrors {
		for _, m := range messages {
			f.AddError(field, m)
		}
	}
}

// Valid reports whether the form has no errors.
func (f *Form) Valid() bool {
	return len(f.Errors) == 0
}

// ErrorFields returns the names of fields with errors in a stable order.
func (f *Form) ErrorFields() []string {
	out := make([]string, 0, len(f.Errors))
	for k := range f.Errors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Record returns the initial record updated with the submitted and cleaned
// values.
func (f *Form) Record() store.Record {
	rec := f.Initial.Clone()
	if rec == nil {
		rec = store.Record{}
	}
	for _, field := range f.Fields {
		if v, ok := f.Data[field]; ok {
			rec[field] = v
		}
	}
	for k, v := range f.Cleaned {
		rec[k] = v
	}
	return rec
}

// SetCleaned stores a typed value for field.
func (f *Form) SetCleaned(field string, value any) {
	if f.Cleaned == nil {
		f.Cleaned = make(store.Record)
	}
	f.Cleaned[field] = value
}

func (f *Form) checkRequired(cfg Config) {
	for _, field := range cfg.Required {
		if strings.TrimSpace(f.Data[field]) == "" {
			f.AddError(field, "This field is required.")
		}
	}
}

func (f *Form) readControls(values url.Values, cfg Config) {
	if cfg.CanDelete {
		f.Deleted = truthy(values.Get(f.Key(DeleteField)))
	}
	if cfg.CanOrder {
		raw := strings.TrimSpace(values.Get(f.Key(OrderField)))
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			f.addBindError(OrderField, "Enter a whole number.")
			return
		}
		f.Order = n
		f.HasOrder = true
	}
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}

func initialString(rec store.Record, field string) string {
	if rec == nil {
		return ""
	}
	v, ok := rec[field]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

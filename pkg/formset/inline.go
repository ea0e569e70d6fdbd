package formset

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-listviews/pkg/search"
	"github.com/goliatone/go-listviews/pkg/store"
)

// Backend is the storage an inline group reads children from and commits to.
type Backend interface {
	store.Store
	store.Saver
	store.TxManager
}

// Inline declares a child formset whose records point at the parent through
// FKField. TypeField and TypeValue describe a generic relation where children
// of several parent kinds share one table.
type Inline struct {
	Name      string   `json:"name" yaml:"name"`
	Table     string   `json:"table" yaml:"table"`
	FKField   string   `json:"fkField" yaml:"fkField"`
	TypeField string   `json:"typeField,omitempty" yaml:"typeField,omitempty"`
	TypeValue string   `json:"typeValue,omitempty" yaml:"typeValue,omitempty"`
	Ordering  []string `json:"ordering,omitempty" yaml:"ordering,omitempty"`
	Config    Config   `json:"config" yaml:"config"`

	Validator Validator `json:"-" yaml:"-"`
}

// NewInline returns an inline with two extra forms and deletion enabled.
func NewInline(name, table, fkField string, fields ...string) Inline {
	cfg := DefaultConfig(name, fields...)
	cfg.CanDelete = true
	return Inline{Name: name, Table: table, FKField: fkField, Config: cfg}
}

func (in Inline) config() Config {
	cfg := in.Config
	if strings.TrimSpace(cfg.Prefix) == "" {
		cfg.Prefix = in.Name
		if cfg.Prefix == "" {
			cfg.Prefix = in.Table
		}
	}
	return cfg
}

func (in Inline) validate() error {
	if strings.TrimSpace(in.Table) == "" || strings.TrimSpace(in.FKField) == "" {
		return fmt.Errorf("%w: inline %q needs a table and a foreign key field", ErrImproperlyConfigured, in.Name)
	}
	if (in.TypeField == "") != (in.TypeValue == "") {
		return fmt.Errorf("%w: inline %q needs both type field and type value", ErrImproperlyConfigured, in.Name)
	}
	return in.config().Validate()
}

// Filter selects the children of the parent with key parentPK.
func (in Inline) Filter(parentPK any) search.Filter {
	filter := search.And{search.Condition{Field: in.FKField, Lookup: search.LookupExact, Value: parentPK}}
	if in.TypeField != "" {
		filter = append(filter, search.Condition{Field: in.TypeField, Lookup: search.LookupExact, Value: in.TypeValue})
	}
	return filter
}

func (in Inline) defaults(parentPK any) store.Record {
	rec := store.Record{in.FKField: parentPK}
	if in.TypeField != "" {
		rec[in.TypeField] = in.TypeValue
	}
	return rec
}

func (in Inline) children(ctx context.Context, st store.Store, parent store.Record, pk string) ([]store.Record, error) {
	key, ok := parent[pk]
	if !ok || key == nil || key == "" {
		return nil, nil
	}
	ordering := in.Ordering
	if len(ordering) == 0 {
		ordering = []string{in.config().pk()}
	}
	rows, err := st.List(ctx, store.Query{Table: in.Table, Filter: in.Filter(key), Ordering: ordering})
	if err != nil {
		return nil, fmt.Errorf("formset: load %s: %w", in.Table, err)
	}
	return rows, nil
}

// InlineGroup edits a parent record together with its inline formsets.
type InlineGroup struct {
	Table    string   `json:"table" yaml:"table"`
	PK       string   `json:"pk,omitempty" yaml:"pk,omitempty"`
	Fields   []string `json:"fields" yaml:"fields"`
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`
	Inlines  []Inline `json:"inlines" yaml:"inlines"`
	// Names exposes the inline formsets under these context names, in order.
	Names []string `json:"names,omitempty" yaml:"names,omitempty"`

	Validator Validator `json:"-" yaml:"-"`
}

// Result is the outcome of constructing or processing a group.
type Result struct {
	Form    *Form
	Inlines []*FormSet
	Named   map[string]*FormSet
	// Object is the saved parent after a successful Process.
	Object store.Record
	Valid  bool
}

// Validate checks the group and every inline.
func (g InlineGroup) Validate() error {
	if strings.TrimSpace(g.Table) == "" || len(g.Fields) == 0 {
		return fmt.Errorf("%w: inline group needs a table and fields", ErrImproperlyConfigured)
	}
	prefixes := make(map[string]struct{}, len(g.Inlines))
	for _, in := range g.Inlines {
		if err := in.validate(); err != nil {
			return err
		}
		p := in.config().prefix()
		if _, dup := prefixes[p]; dup {
			return fmt.Errorf("%w: duplicate inline prefix %q", ErrImproperlyConfigured, p)
		}
		prefixes[p] = struct{}{}
	}
	return nil
}

func (g InlineGroup) pk() string {
	if g.PK != "" {
		return g.PK
	}
	return store.DefaultPK
}

// Construct returns unbound forms for parent, which is nil when creating.
func (g InlineGroup) Construct(ctx context.Context, st store.Store, parent store.Record) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	res := &Result{Form: NewForm("", g.Fields, parent)}
	for _, in := range g.Inlines {
		rows, err := in.children(ctx, st, parent, g.pk())
		if err != nil {
			return nil, err
		}
		fs, err := New(in.config(), rows, WithValidator(in.Validator))
		if err != nil {
			return nil, err
		}
		res.Inlines = append(res.Inlines, fs)
	}
	res.Named = Named(g.Names, res.Inlines)
	return res, nil
}

// Process binds the submission, validates the parent and every inline, and
// when all are valid saves the parent then the children in one transaction.
// Invalid submissions return a Result for re-rendering with Valid false.
func (g InlineGroup) Process(ctx context.Context, values url.Values, parent store.Record, b Backend) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	res := &Result{Form: BindForm("", g.Fields, values, parent)}
	formValid := ValidateForm(ctx, res.Form, g.Required, g.Validator)

	for _, in := range g.Inlines {
		rows, err := in.children(ctx, b, parent, g.pk())
		if err != nil {
			return nil, err
		}
		fs, err := Bind(in.config(), values, rows, WithValidator(in.Validator))
		if err != nil {
			return nil, err
		}
		res.Inlines = append(res.Inlines, fs)
	}
	res.Named = Named(g.Names, res.Inlines)

	inlinesValid := AllValid(ctx, res.Inlines...)
	if !formValid || !inlinesValid {
		return res, nil
	}

	err := b.TxFn(ctx, func(ctx context.Context) error {
		saved, err := b.Save(ctx, g.Table, res.Form.Record())
		if err != nil {
			return fmt.Errorf("formset: save %s: %w", g.Table, err)
		}
		key := saved[g.pk()]
		for i, in := range g.Inlines {
			if _, err := res.Inlines[i].Save(ctx, b, in.Table, in.defaults(key)); err != nil {
				return err
			}
		}
		res.Object = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Valid = true
	return res, nil
}

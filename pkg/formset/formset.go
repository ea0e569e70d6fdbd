package formset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-listviews/pkg/store"
)

// Option configures a FormSet.
type Option func(*FormSet)

// WithValidator sets the per-form validator.
func WithValidator(v Validator) Option {
	return func(fs *FormSet) {
		fs.validator = v
	}
}

// WithClean sets a formset-wide check run after every form is valid.
func WithClean(fn func(ctx context.Context, fs *FormSet) error) Option {
	return func(fs *FormSet) {
		fs.clean = fn
	}
}

// Management mirrors the hidden management inputs.
type Management struct {
	Total   int `json:"total"`
	Initial int `json:"initial"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// FormSet is a list of forms sharing a prefix.
type FormSet struct {
	Config     Config     `json:"config"`
	Forms      []*Form    `json:"forms"`
	Management Management `json:"management"`
	// Errors holds formset-level messages such as count violations.
	Errors []string `json:"errors,omitempty"`
	Bound  bool     `json:"bound"`

	validator Validator
	clean     func(ctx context.Context, fs *FormSet) error
	validated bool
	valid     bool
}

// New returns an unbound formset with one form per initial record plus the
// configured extra forms, capped at the maximum.
func New(cfg Config, initial []store.Record, opts ...Option) (*FormSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fs := &FormSet{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(fs)
		}
	}

	initialCount := len(initial)
	total := initialCount
	if cfg.MinNum > total {
		total = cfg.MinNum
	}
	total += cfg.Extra
	switch limit := cfg.maxNum(); {
	case initialCount > limit:
		total = initialCount
	case total > limit:
		total = limit
	}

	prefix := cfg.prefix()
	for i := 0; i < total; i++ {
		var rec store.Record
		if i < initialCount {
			rec = initial[i]
		}
		fs.Forms = append(fs.Forms, newFormsetForm(prefix, i, cfg.Fields, rec, i >= initialCount))
	}
	fs.Management = Management{Total: total, Initial: initialCount, Min: cfg.MinNum, Max: cfg.maxNum()}
	return fs, nil
}

// Bind reads a submitted formset. Each form below INITIAL_FORMS must carry
// the primary key of the record it edits as "<prefix>-<index>-<pk>"; forms
// are matched to initial by that key, so rows added or removed since the
// formset was rendered do not shift edits onto other records. A missing,
// unknown or repeated key is reported as ErrManagementForm.
func Bind(cfg Config, values url.Values, initial []store.Record, opts ...Option) (*FormSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prefix := cfg.prefix()

	total, err := managementInt(values, prefix, TotalFormsKey)
	if err != nil {
		return nil, err
	}
	initialCount, err := managementInt(values, prefix, InitialFormsKey)
	if err != nil {
		return nil, err
	}
	if initialCount > total {
		return nil, fmt.Errorf("%w: %d initial forms out of %d", ErrManagementForm, initialCount, total)
	}
	if total > cfg.absoluteMax() {
		total = cfg.absoluteMax()
	}

	fs := &FormSet{Config: cfg, Bound: true}
	for _, opt := range opts {
		if opt != nil {
			opt(fs)
		}
	}
	records := newPKIndex(initial, cfg.pk())
	for i := 0; i < total; i++ {
		var rec store.Record
		if i < initialCount {
			name := fmt.Sprintf("%s-%d-%s", prefix, i, cfg.pk())
			if rec, err = records.claim(values.Get(name)); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrManagementForm, name, err)
			}
		}
		form := newFormsetForm(prefix, i, cfg.Fields, rec, i >= initialCount)
		form.bind(values)
		form.readControls(values, cfg)
		fs.Forms = append(fs.Forms, form)
	}
	fs.Management = Management{Total: total, Initial: initialCount, Min: cfg.MinNum, Max: cfg.maxNum()}
	return fs, nil
}

// pkIndex resolves submitted keys to initial records, each at most once.
type pkIndex struct {
	byKey   map[string]store.Record
	claimed map[string]struct{}
}

func newPKIndex(initial []store.Record, pk string) *pkIndex {
	idx := &pkIndex{
		byKey:   make(map[string]store.Record, len(initial)),
		claimed: make(map[string]struct{}, len(initial)),
	}
	for _, rec := range initial {
		if key := initialString(rec, pk); key != "" {
			idx.byKey[key] = rec
		}
	}
	return idx
}

func (idx *pkIndex) claim(raw string) (store.Record, error) {
	key := strings.TrimSpace(raw)
	if key == "" {
		return nil, errors.New("primary key missing")
	}
	rec, ok := idx.byKey[key]
	if !ok {
		return nil, fmt.Errorf("unknown primary key %q", key)
	}
	if _, dup := idx.claimed[key]; dup {
		return nil, fmt.Errorf("primary key %q submitted twice", key)
	}
	idx.claimed[key] = struct{}{}
	return rec, nil
}

func managementInt(values url.Values, prefix, key string) (int, error) {
	name := prefix + "-" + key
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, fmt.Errorf("%w: %s missing", ErrManagementForm, name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrManagementForm, name, raw)
	}
	return n, nil
}

// Prefix returns the effective prefix.
func (fs *FormSet) Prefix() string {
	return fs.Config.prefix()
}

// ManagementData returns the hidden management inputs keyed by input name.
func (fs *FormSet) ManagementData() map[string]string {
	prefix := fs.Prefix()
	return map[string]string{
		prefix + "-" + TotalFormsKey:   strconv.Itoa(fs.Management.Total),
		prefix + "-" + InitialFormsKey: strconv.Itoa(fs.Management.Initial),
		prefix + "-" + MinNumFormsKey:  strconv.Itoa(fs.Management.Min),
		prefix + "-" + MaxNumFormsKey:  strconv.Itoa(fs.Management.Max),
	}
}

// PKData returns the hidden primary key input of every initial form keyed
// by input name. Bind matches forms to records through these inputs. A key
// listed among the form fields is rendered with the form and left out here.
func (fs *FormSet) PKData() map[string]string {
	pk := fs.Config.pk()
	for _, field := range fs.Config.Fields {
		if field == pk {
			return nil
		}
	}
	out := make(map[string]string, fs.Management.Initial)
	for _, f := range fs.Forms {
		if f.Extra {
			continue
		}
		if key := initialString(f.Initial, pk); key != "" {
			out[f.Key(pk)] = key
		}
	}
	return out
}

// EmptyForm returns a template form whose index placeholder is replaced
// client-side when rows are added.
func (fs *FormSet) EmptyForm() *Form {
	f := newFormsetForm(fs.Prefix(), 0, fs.Config.Fields, nil, true)
	f.Prefix = fs.Prefix() + "-__prefix__"
	return f
}

// Valid reports the outcome of the last validation. An unvalidated or
// unbound formset is not valid.
func (fs *FormSet) Valid() bool {
	return fs.validated && fs.valid
}

// skipped reports whether form takes no part in validation and saving.
func (fs *FormSet) skipped(f *Form) bool {
	if fs.Config.CanDelete && f.Deleted {
		return true
	}
	return f.Extra && !f.Changed()
}

// Active returns the forms that will be saved, ordered by ORDER when the
// formset can be ordered. Forms without an order follow the ordered ones.
func (fs *FormSet) Active() []*Form {
	out := make([]*Form, 0, len(fs.Forms))
	for _, f := range fs.Forms {
		if fs.Bound && fs.skipped(f) {
			continue
		}
		out = append(out, f)
	}
	if fs.Config.CanOrder {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.HasOrder != b.HasOrder {
				return a.HasOrder
			}
			return a.Order < b.Order
		})
	}
	return out
}

// DeletedForms returns initial forms marked for deletion.
func (fs *FormSet) DeletedForms() []*Form {
	if !fs.Config.CanDelete {
		return nil
	}
	var out []*Form
	for _, f := range fs.Forms {
		if f.Deleted && !f.Extra {
			out = append(out, f)
		}
	}
	return out
}

// Named pairs formsets with context names. Extra formsets without a name
// are dropped.
func Named(names []string, sets []*FormSet) map[string]*FormSet {
	out := make(map[string]*FormSet, len(names))
	for i, name := range names {
		if i >= len(sets) {
			break
		}
		out[name] = sets[i]
	}
	return out
}

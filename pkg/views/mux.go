package views

import (
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-listviews/pkg/formset"
	"github.com/goliatone/go-listviews/pkg/store"
	"github.com/goliatone/go-listviews/pkg/viewconfig"
)

// Backend is the storage behind a Mux: listing, loading and saving records
// transactionally. Stores that also implement store.Distincter populate
// filter choices, and store.LabelDistincter labels them.
type Backend interface {
	formset.Backend
	store.Getter
}

// Entry describes a mounted view in the index response.
type Entry struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// Mux builds one handler per view in a set and routes requests to them.
type Mux struct {
	base
	names    []string
	kinds    map[string]string
	handlers map[string]http.Handler
}

// NewMux constructs every view in set against backend. Options apply to
// every view.
func NewMux(set *viewconfig.Set, backend Backend, opts ...Option) (*Mux, error) {
	if set == nil || set.Empty() {
		return nil, fmt.Errorf("%w: no views to serve", viewconfig.ErrInvalidView)
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: no store", viewconfig.ErrInvalidView)
	}
	m := &Mux{
		base:     base{name: "index", cfg: newConfig(opts)},
		kinds:    make(map[string]string),
		handlers: make(map[string]http.Handler),
	}
	for _, name := range set.Names() {
		v, _ := set.View(name)
		h, err := m.build(v, backend, opts)
		if err != nil {
			return nil, err
		}
		m.names = append(m.names, name)
		m.kinds[name] = v.Kind()
		m.handlers[name] = m.cfg.metrics.Instrument(name, h)
		m.cfg.logger.Debug("view ready", "view", name, "kind", v.Kind(), "table", v.Table)
	}
	return m, nil
}

func (m *Mux) build(v viewconfig.View, backend Backend, opts []Option) (http.Handler, error) {
	switch v.Kind() {
	case "calendar":
		return NewCalendarView(v, backend, opts...)
	case "formset":
		return NewFormSetView(v, backend, m.cfg.validators[v.Name], opts...)
	case "inlines":
		iv, err := NewInlinesView(v, backend, opts...)
		if err != nil {
			return nil, err
		}
		inlines := make(map[string]formset.Validator)
		for key, fn := range m.cfg.validators {
			if view, inline, ok := strings.Cut(key, "/"); ok && view == v.Name {
				inlines[inline] = fn
			}
		}
		return iv.WithValidators(m.cfg.validators[v.Name], inlines), nil
	default:
		return NewListView(v, backend, opts...)
	}
}

// Handler returns the instrumented handler for a view.
func (m *Mux) Handler(name string) (http.Handler, bool) {
	h, ok := m.handlers[name]
	return h, ok
}

// Names lists the mounted views in sorted order.
func (m *Mux) Names() []string {
	out := append([]string(nil), m.names...)
	sort.Strings(out)
	return out
}

// RegisterRoutes mounts every view under prefix on mux. Inlines views also
// answer on MountPath(prefix, name)+"{pk}/" for updates. The prefix itself
// serves an index of the mounted views.
func (m *Mux) RegisterRoutes(mux *http.ServeMux, prefix string) {
	root := MountPath(prefix, "")
	mux.Handle(root+"{$}", m.index(prefix))
	for _, name := range m.Names() {
		mount := MountPath(prefix, name)
		mux.Handle(mount+"{$}", m.handlers[name])
		if m.kinds[name] == "inlines" {
			mux.Handle(mount+"{"+PKPathValue+"}/{$}", m.handlers[name])
		}
	}
}

// ServeMux returns a new ServeMux serving the views under prefix.
func (m *Mux) ServeMux(prefix string) *http.ServeMux {
	mux := http.NewServeMux()
	m.RegisterRoutes(mux, prefix)
	return mux
}

func (m *Mux) index(prefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			m.fail(w, r, methodNotAllowed(http.MethodGet, http.MethodHead))
			return
		}
		entries := make([]Entry, 0, len(m.names))
		for _, name := range m.Names() {
			entries = append(entries, Entry{Name: name, Kind: m.kinds[name], Path: MountPath(prefix, name)})
		}
		opts, err := m.renderOptions(r, "")
		if err != nil {
			m.fail(w, r, err)
			return
		}
		m.respond(r.Context(), w, r, http.StatusOK, entries, opts)
	})
}

// MountPath is the URL path a view is served on, always with a trailing
// slash.
func MountPath(prefix, name string) string {
	p := path.Join("/", strings.Trim(prefix, "/"), name)
	if p == "/" {
		return p
	}
	return p + "/"
}

package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-listviews/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	templates []fs.FS
	extension string
	funcs     map[string]any
	globals   map[string]any
}

// WithFS adds a template filesystem. Filesystems are searched in the order
// they were added, so overrides go first.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = append(cfg.templates, files)
		}
	}
}

// WithExtension overrides the ".tpl" extension appended to template names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.extension = ext
	}
}

// WithTemplateFunc exposes funcs to every template. pongo2 filter functions
// are registered as filters, other functions become globals.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		for name, fn := range funcs {
			if name = strings.TrimSpace(name); name != "" {
				cfg.funcs[name] = fn
			}
		}
	}
}

// WithGlobalData seeds values visible to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		for key, value := range data {
			if key = strings.TrimSpace(key); key != "" {
				cfg.globals[key] = value
			}
		}
	}
}

// WithGoTemplateOptions accepts option lists written for go-template
// engines so callers can share them. They have no effect on pongo2.
func WithGoTemplateOptions(_ ...gotemplatepkg.Option) Option {
	return func(*config) {}
}

// Engine implements template.TemplateRenderer over a pongo2 template set.
// Compiled templates are cached by path.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	compiled  map[string]*pongo2.Template
	extension string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine. At least one filesystem is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
		funcs:     map[string]any{},
		globals:   map[string]any{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if len(cfg.templates) == 0 {
		return nil, errors.New("gotemplate: at least one template filesystem is required")
	}

	loaders := make([]pongo2.TemplateLoader, 0, len(cfg.templates))
	for _, files := range cfg.templates {
		loaders = append(loaders, pongo2.NewFSLoader(files))
	}
	e := &Engine{
		set:       pongo2.NewSet("listviews", loaders...),
		compiled:  make(map[string]*pongo2.Template),
		extension: cfg.extension,
	}
	e.set.Globals = pongo2.Context{}
	registerFilters()

	if err := e.GlobalContext(cfg.globals); err != nil {
		return nil, fmt.Errorf("gotemplate: global data: %w", err)
	}
	for name, fn := range cfg.funcs {
		if err := e.addFunc(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: func %q: %w", name, err)
		}
	}
	return e, nil
}

// Render treats name as inline source when it contains template tags and as
// a template path otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate renders the template at name, appending the extension when
// it is missing.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	if !strings.HasSuffix(name, e.extension) {
		name += e.extension
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, name, data, out)
}

// RenderString compiles and renders source without caching it.
func (e *Engine) RenderString(source string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.set.FromString(source)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse inline template: %w", err)
	}
	return e.execute(tmpl, "inline", data, out)
}

// RegisterFilter registers fn as a pongo2 filter. Filters are process-wide,
// so an existing name is an error.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values visible to every template.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}
	ctx, err := toContext(data)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.set.Globals.Update(ctx)
	e.mu.Unlock()
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, label string, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %q: %w", label, err)
	}

	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.compiled[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.compiled[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", path, err)
	}
	e.compiled[path] = tmpl
	return tmpl, nil
}

func (e *Engine) addFunc(name string, fn any) error {
	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(name) {
			return nil
		}
		return pongo2.RegisterFilter(name, filter)
	}
	if !isFunc(fn) {
		return fmt.Errorf("not a function: %T", fn)
	}
	e.mu.Lock()
	e.set.Globals[name] = fn
	e.mu.Unlock()
	return nil
}

func isFunc(v any) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Func
}

// toContext normalises data into plain maps, slices and scalars so pongo2
// sees json field names. Functions pass through untouched.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	v, err := plain(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("template data must be an object, got %T", data)
	}
	return pongo2.Context(m), nil
}

func plain(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case pongo2.Context:
		return plainMap(v)
	case map[string]any:
		return plainMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			p, err := plain(item)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	}
	if isFunc(value) {
		return value, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func plainMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		if key = strings.TrimSpace(key); key == "" {
			continue
		}
		p, err := plain(value)
		if err != nil {
			return nil, err
		}
		out[key] = p
	}
	return out, nil
}

var builtinFilters = map[string]pongo2.FilterFunction{
	"direction_arrow": filterDirectionArrow,
	"key":             filterKey,
	"trim":            filterTrim,
}

func registerFilters() {
	for name, fn := range builtinFilters {
		if !pongo2.FilterExists(name) {
			_ = pongo2.RegisterFilter(name, fn)
		}
	}
}

// filterKey looks up a map entry by a computed key, e.g. row|key:col.name.
// Missing keys and non-map inputs render as nothing.
func filterKey(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	m, ok := in.Interface().(map[string]any)
	if !ok {
		return pongo2.AsValue(""), nil
	}
	v, ok := m[param.String()]
	if !ok || v == nil {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(v), nil
}

// filterDirectionArrow renders "asc" and "desc" as arrows.
func filterDirectionArrow(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	switch strings.ToLower(strings.TrimSpace(in.String())) {
	case "asc":
		return pongo2.AsValue("↑"), nil
	case "desc":
		return pongo2.AsValue("↓"), nil
	}
	return pongo2.AsValue(""), nil
}

func filterTrim(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

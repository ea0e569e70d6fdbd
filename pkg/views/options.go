package views

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-listviews/pkg/formset"
	"github.com/goliatone/go-listviews/pkg/render"
)

// Option configures views and the Mux.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	registry   *render.Registry
	renderer   string
	translator render.Translator
	onMissing  render.MissingTranslationHandler
	locale     func(*http.Request) string
	selector   theme.ThemeSelector
	themeName  string
	variant    string
	fallbacks  map[string]string
	metrics    *Metrics
	csrf       func(*http.Request) render.HiddenField
	now        func() time.Time
	validators map[string]formset.Validator
}

func newConfig(opts []Option) *config {
	cfg := &config{
		renderer:  render.TemplateName,
		fallbacks: render.DefaultPartials(),
		locale:    acceptLanguage,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.registry == nil {
		cfg.registry, _ = render.NewRegistry(render.NewJSON(""))
	}
	return cfg
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRegistry supplies the renderers. Without it only JSON is available.
func WithRegistry(registry *render.Registry) Option {
	return func(c *config) {
		c.registry = registry
	}
}

// WithRenderer names the renderer used for views that declare a template.
// Views without a template, and requests asking for JSON, use the JSON
// renderer.
func WithRenderer(name string) Option {
	return func(c *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			c.renderer = trimmed
		}
	}
}

// WithTranslator sets the translator used for labels and template helpers.
func WithTranslator(t render.Translator, onMissing render.MissingTranslationHandler) Option {
	return func(c *config) {
		c.translator = t
		c.onMissing = onMissing
	}
}

// WithLocale overrides how the request locale is chosen. The default reads
// the first Accept-Language tag.
func WithLocale(fn func(*http.Request) string) Option {
	return func(c *config) {
		if fn != nil {
			c.locale = fn
		}
	}
}

// WithThemeSelector resolves partials through a go-theme selector.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(c *config) {
		c.selector = selector
		c.themeName = name
		c.variant = variant
	}
}

// WithThemeFallbacks replaces the partial fallbacks used when a theme does
// not override a partial.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(c *config) {
		if len(fallbacks) > 0 {
			c.fallbacks = fallbacks
		}
	}
}

// WithMetrics records request counts and durations.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithCSRF adds a hidden token input to every form view.
func WithCSRF(fn func(*http.Request) render.HiddenField) Option {
	return func(c *config) {
		c.csrf = fn
	}
}

// WithClock overrides time.Now, used for "today" in calendar views.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithValidator attaches v to the formset or inline parent form of view.
// Use "view/inline" to target one inline formset. Only the Mux reads it.
func WithValidator(view string, v formset.Validator) Option {
	return func(c *config) {
		if c.validators == nil {
			c.validators = make(map[string]formset.Validator)
		}
		c.validators[view] = v
	}
}

func acceptLanguage(r *http.Request) string {
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	tag, _, _ := strings.Cut(header, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.TrimSpace(tag)
}

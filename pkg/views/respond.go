package views

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-listviews/pkg/render"
)

// base carries what every view needs to turn a context into a response.
type base struct {
	name     string
	template string
	cfg      *config
}

// FormatParam forces a renderer by name, e.g. "?format=json".
const FormatParam = "format"

func (b *base) renderOptions(r *http.Request, partial string) (render.RenderOptions, error) {
	opts := render.RenderOptions{
		Template:   b.template,
		Locale:     b.cfg.locale(r),
		Translator: b.cfg.translator,
		OnMissing:  b.cfg.onMissing,
	}
	if opts.Template == "" {
		opts.Template = partial
	}
	th, err := render.ResolveTheme(b.cfg.selector, b.cfg.themeName, b.cfg.variant, b.cfg.fallbacks)
	if err != nil {
		return render.RenderOptions{}, err
	}
	opts.Theme = th
	if b.cfg.csrf != nil {
		opts.Hidden = append(opts.Hidden, b.cfg.csrf(r))
	}
	return opts, nil
}

// renderer honours ?format= and the Accept header. Views without a
// template answer with JSON unless a format is forced.
func (b *base) renderer(r *http.Request) (render.Renderer, error) {
	format := r.URL.Query().Get(FormatParam)
	if b.template == "" && strings.TrimSpace(format) == "" {
		return b.cfg.registry.Get(render.JSONName)
	}
	return b.cfg.registry.Negotiate(format, r.Header.Get("Accept"), b.cfg.renderer)
}

func (b *base) respond(ctx context.Context, w http.ResponseWriter, r *http.Request, status int, data any, opts render.RenderOptions) {
	renderer, err := b.renderer(r)
	if err != nil {
		b.fail(w, r, NewStatusError(http.StatusNotAcceptable, err))
		return
	}
	body, err := renderer.Render(ctx, data, opts)
	if err != nil {
		b.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil {
		b.cfg.logger.Warn("write response", "view", b.name, "error", err)
	}
}

// fail logs err and writes a plain status response. Server errors are
// logged at error level with the cause; client errors at debug.
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)
	attrs := []any{"view", b.name, "method", r.Method, "path", r.URL.Path, "status", code, "error", err}
	if code >= http.StatusInternalServerError {
		b.cfg.logger.Error("view failed", attrs...)
	} else {
		b.cfg.logger.Debug("view rejected request", attrs...)
	}
	if code == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", strings.Join(allowedMethods(err), ", "))
	}
	http.Error(w, http.StatusText(code), code)
}

type methodError struct {
	allowed []string
}

func (e *methodError) Error() string { return ErrMethodNotAllowed.Error() }
func (e *methodError) Unwrap() error { return ErrMethodNotAllowed }

func methodNotAllowed(allowed ...string) error {
	return &methodError{allowed: allowed}
}

func allowedMethods(err error) []string {
	var me *methodError
	if errors.As(err, &me) {
		return me.allowed
	}
	return []string{http.MethodGet}
}

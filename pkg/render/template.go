package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-listviews/pkg/render/template"
)

// TemplateName is the registry name of the template renderer.
const TemplateName = "html"

// StylesheetAsset is the theme asset key exposed to templates as
// "stylesheet".
const StylesheetAsset = "stylesheet"

// ErrTemplateRequired is returned when no template name is supplied.
var ErrTemplateRequired = errors.New("render: template name is required")

// TemplateRenderer renders view contexts through a template engine. The
// context is exposed as "view"; "theme", "locale" and "hidden" are added,
// together with the i18n helpers bound to the request locale.
type TemplateRenderer struct {
	engine template.TemplateRenderer
}

// NewTemplate wraps engine.
func NewTemplate(engine template.TemplateRenderer) (*TemplateRenderer, error) {
	if engine == nil {
		return nil, errors.New("render: template engine is required")
	}
	return &TemplateRenderer{engine: engine}, nil
}

func (r *TemplateRenderer) Name() string        { return TemplateName }
func (r *TemplateRenderer) ContentType() string { return "text/html; charset=utf-8" }

// Render resolves opts.Template through the theme partials and renders it.
func (r *TemplateRenderer) Render(ctx context.Context, data any, opts RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.TrimSpace(opts.Template)
	if key == "" {
		return nil, ErrTemplateRequired
	}
	name := PartialName(opts.Theme, key)

	payload := map[string]any{
		"view":   data,
		"locale": opts.Locale,
		"hidden": opts.Hidden,
	}
	if opts.Theme != nil {
		payload["theme"] = map[string]any{
			"name":     opts.Theme.Theme,
			"variant":  opts.Theme.Variant,
			"partials": opts.Theme.Partials,
			"tokens":   opts.Theme.Tokens,
			"css_vars": opts.Theme.CSSVars,
		}
		if opts.Theme.AssetURL != nil {
			payload["asset_url"] = opts.Theme.AssetURL
			payload["stylesheet"] = opts.Theme.AssetURL(StylesheetAsset)
		}
	}
	for fn, impl := range TemplateI18nFuncs(opts.Translator, TemplateI18nConfig{OnMissing: opts.OnMissing}) {
		payload[fn] = impl
	}

	out, err := r.engine.RenderTemplate(name, payload)
	if err != nil {
		return nil, fmt.Errorf("render: template %q: %w", name, err)
	}
	return []byte(out), nil
}

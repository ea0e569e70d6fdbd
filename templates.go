package listviews

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-listviews/pkg/render"
	"github.com/goliatone/go-listviews/pkg/render/template/gotemplate"
)

//go:embed templates/listviews/*.tpl
var embeddedTemplates embed.FS

// EmbeddedTemplates exposes the built-in view templates, rooted so that
// names match render.DefaultPartials ("listviews/list" and so on).
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// NewTemplateEngine builds a pongo2 engine over the embedded templates.
// Passing overrides adds a second loader searched first, so applications
// can replace single templates.
func NewTemplateEngine(overrides fs.FS, options ...gotemplate.Option) (*gotemplate.Engine, error) {
	opts := make([]gotemplate.Option, 0, len(options)+2)
	if overrides != nil {
		opts = append(opts, gotemplate.WithFS(overrides))
	}
	opts = append(opts, gotemplate.WithFS(EmbeddedTemplates()))
	opts = append(opts, options...)
	return gotemplate.New(opts...)
}

// NewRegistry returns a registry holding the JSON renderer and an HTML
// renderer over the embedded templates.
func NewRegistry(overrides fs.FS, options ...gotemplate.Option) (*render.Registry, error) {
	engine, err := NewTemplateEngine(overrides, options...)
	if err != nil {
		return nil, err
	}
	html, err := render.NewTemplate(engine)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(render.NewJSON("  "), html)
}

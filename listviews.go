package listviews

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"github.com/goliatone/go-listviews/pkg/render"
	"github.com/goliatone/go-listviews/pkg/sorting"
	"github.com/goliatone/go-listviews/pkg/viewconfig"
	"github.com/goliatone/go-listviews/pkg/views"
)

// View is a single view definition; alias exported via the root package for
// convenience.
type View = viewconfig.View

// Views is a validated set of view definitions.
type Views = viewconfig.Set

// RenderOptions describes per-request rendering inputs.
type RenderOptions = render.RenderOptions

// SortHelper resolves the active ordering of a request and builds header
// links.
type SortHelper = sorting.Helper

// NewSortHelper exposes sorting.NewHelper from the top-level module.
func NewSortHelper(query url.Values, spec sorting.Spec, options ...sorting.Option) (*SortHelper, error) {
	return sorting.NewHelper(query, spec, options...)
}

// LoadViews reads every JSON or YAML view document in fsys.
func LoadViews(fsys fs.FS) (*Views, error) {
	return viewconfig.LoadFS(fsys)
}

// LoadOpenAPIView derives a list view from a component schema of the
// OpenAPI document at path.
func LoadOpenAPIView(ctx context.Context, path, schemaName, table string) (View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return View{}, fmt.Errorf("listviews: read %s: %w", path, err)
	}
	return viewconfig.FromOpenAPI(ctx, data, schemaName, table)
}

// New builds a Mux serving every view in set from backend. Unless the
// options supply a registry, HTML is rendered with the embedded templates.
func New(set *Views, backend views.Backend, options ...views.Option) (*views.Mux, error) {
	registry, err := NewRegistry(nil)
	if err != nil {
		return nil, err
	}
	opts := append([]views.Option{views.WithRegistry(registry)}, options...)
	return views.NewMux(set, backend, opts...)
}

package render

import (
	"context"
)

// Renderer turns a view context into a response body (JSON, HTML, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, data any, options RenderOptions) ([]byte, error)
}

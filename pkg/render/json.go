package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// JSONName is the registry name of the JSON renderer.
const JSONName = "json"

// JSONRenderer encodes the view context as JSON.
type JSONRenderer struct {
	Indent string
}

// NewJSON returns a JSON renderer. A non-empty indent pretty-prints output.
func NewJSON(indent string) *JSONRenderer {
	return &JSONRenderer{Indent: indent}
}

func (r *JSONRenderer) Name() string        { return JSONName }
func (r *JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }

// Render encodes data. HTML characters are left unescaped.
func (r *JSONRenderer) Render(ctx context.Context, data any, _ RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.Indent != "" {
		enc.SetIndent("", r.Indent)
	}
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("render: encode json: %w", err)
	}
	return buf.Bytes(), nil
}

package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-listviews/pkg/render/template/gotemplate"
	"github.com/goliatone/go-listviews/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	golden := filepath.Join("testdata", "hello.golden")
	if testsupport.WriteMaybeGolden(t, golden, []byte(result)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if result != want || written != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q (written %q)", want, result, written)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_DirectionArrow(t *testing.T) {
	engine := newEngine(t)

	type sort struct {
		Field string `json:"field"`
		Dir   string `json:"dir"`
	}
	result, err := engine.RenderTemplate("sorter", map[string]any{
		"sorts": []sort{{"name", "asc"}, {"price", "desc"}, {"brand", ""}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "name↑;price↓;brand;"; result != want {
		t.Fatalf("unexpected output %q, want %q", result, want)
	}
}

func TestGoTemplateEngine_KeyFilter(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render(`{% for c in cols %}{{ row|key:c }},{% endfor %}`, map[string]any{
		"cols": []any{"name", "missing", "price"},
		"row":  map[string]any{"name": "Anvil", "price": "120"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Anvil,,120,"; result != want {
		t.Fatalf("unexpected output %q, want %q", result, want)
	}
}

func TestGoTemplateEngine_RenderString(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render("[{{ label|trim }}]", map[string]any{"label": "  Price  "})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "[Price]" {
		t.Fatalf("unexpected output %q", result)
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestGoTemplateEngine_RequiresFS(t *testing.T) {
	if _, err := gotemplate.New(gotemplate.WithGoTemplateOptions()); err == nil {
		t.Fatal("expected an error without template filesystems")
	}
}

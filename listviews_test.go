package listviews_test

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	listviews "github.com/goliatone/go-listviews"
	"github.com/goliatone/go-listviews/pkg/render"
	"github.com/goliatone/go-listviews/pkg/testsupport"
	"github.com/goliatone/go-listviews/pkg/views"
)

const productsYAML = `
views:
  products:
    table: products
    template: views.list
    columns:
      - name: name
        label: Name
      - name: brand
      - name: price
    sort:
      fields: [name, price]
      defaultField: name
    filters:
      - column: brand
    limits:
      default: 10
`

func TestAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(listviews.AssetsFS(), "listviews.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".lv-sort") {
		t.Fatalf("expected stylesheet to style sort links")
	}
}

func TestEmbeddedTemplatesMatchDefaultPartials(t *testing.T) {
	for key, name := range render.DefaultPartials() {
		if _, err := fs.Stat(listviews.EmbeddedTemplates(), name+".tpl"); err != nil {
			t.Errorf("partial %s: template %s missing: %v", key, name, err)
		}
	}
}

func TestNewServesHTML(t *testing.T) {
	set, err := listviews.LoadViews(fstest.MapFS{"products.yaml": {Data: []byte(productsYAML)}})
	if err != nil {
		t.Fatalf("load views: %v", err)
	}
	m, err := listviews.New(set, testsupport.SeedStore(t))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	srv := httptest.NewServer(m.ServeMux(""))
	defer srv.Close()

	res, err := srv.Client().Get(srv.URL + "/products/?o=price&ot=desc")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", res.StatusCode, body)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	html := string(body)
	for _, want := range []string{"Rocket skates", "lv-sort-desc", "↓", `name="brand"`} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output:\n%s", want, html)
		}
	}
	if strings.Index(html, "Rocket skates") > strings.Index(html, "Bird seed") {
		t.Errorf("expected rows ordered by price descending")
	}
}

func TestNewServesJSONOnRequest(t *testing.T) {
	set, err := listviews.LoadViews(fstest.MapFS{"products.yaml": {Data: []byte(productsYAML)}})
	if err != nil {
		t.Fatalf("load views: %v", err)
	}
	m, err := listviews.New(set, testsupport.SeedStore(t), views.WithLocale(func(*http.Request) string { return "en" }))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/products/?format=json", nil).WithContext(context.Background())
	rec := httptest.NewRecorder()
	m.ServeMux("").ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}
}

package viewconfig_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-listviews/pkg/search"
	"github.com/goliatone/go-listviews/pkg/sorting"
	"github.com/goliatone/go-listviews/pkg/viewconfig"
)

const productsYAML = `
views:
  products:
    table: products
    template: products_list
    columns:
      - name: name
        label: '<svg viewBox="0 0 8 8" onload="alert(1)"><path d="M0 0h8"/></svg> Name'
      - name: price
    sort:
      aliases:
        - {name: name, alias: by_name}
        - {name: price, alias: by_price, columns: [price, name]}
      defaultField: name
    search:
      fields:
        - {field: name}
        - {field: sku, lookup: istartswith}
    filters:
      - {column: brand}
    limits:
      default: 20
      valid: [{value: "10"}, {value: "20"}, {value: all, label: everything}]
`

const eventsJSON = `{
  "views": {
    "events": {
      "table": "events",
      "calendar": {"firstOfWeek": 6, "dateField": "starts", "endDateField": "ends", "monthFormat": "01"}
    }
  }
}`

func TestLoadFS(t *testing.T) {
	set, err := viewconfig.LoadFS(fstest.MapFS{
		"views/products.yaml": {Data: []byte(productsYAML)},
		"views/events.json":   {Data: []byte(eventsJSON)},
		"views/README.md":     {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"events", "products"}, set.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	products, ok := set.View("products")
	if !ok {
		t.Fatalf("products view missing")
	}
	if products.Kind() != "list" || products.Source != "views/products.yaml" {
		t.Fatalf("unexpected view %q from %q", products.Kind(), products.Source)
	}
	wantAliases := []sorting.Field{
		{Name: "name", Alias: "by_name"},
		{Name: "price", Alias: "by_price", Columns: []string{"price", "name"}},
	}
	if diff := cmp.Diff(wantAliases, products.Sort.Aliases); diff != "" {
		t.Fatalf("aliases mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]search.FieldLookup{{Field: "name"}, {Field: "sku", Lookup: search.LookupIStartsWith}}, products.Search.Fields); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
	if products.Limits.Default != 20 || len(products.Limits.Valid) != 3 {
		t.Fatalf("unexpected limits %+v", products.Limits)
	}
	label := products.ColumnLabel("name")
	if strings.Contains(label, "onload") || !strings.Contains(label, "<path") {
		t.Fatalf("expected sanitised svg label, got %q", label)
	}
	if products.ColumnLabel("price") != "price" {
		t.Fatalf("expected label fallback to column name")
	}

	events, _ := set.View("events")
	if events.Kind() != "calendar" || events.Calendar.FirstOfWeek != 6 || events.Calendar.EndDateField != "ends" {
		t.Fatalf("unexpected calendar view %+v", events.Calendar)
	}
}

func TestLoadFS_Rejects(t *testing.T) {
	cases := map[string]string{
		"duplicate": productsYAML + "\n",
		"both sort styles": `
views:
  bad:
    table: t
    sort:
      fields: [a]
      aliases: [{name: b, alias: b}]
`,
		"paginated calendar": `
views:
  bad:
    table: t
    limits: {default: 10}
    calendar: {dateField: starts}
`,
		"duplicate alias": `
views:
  bad:
    table: t
    sort:
      aliases: [{name: a, alias: x}, {name: b, alias: x}]
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			files := fstest.MapFS{"a.yaml": {Data: []byte(doc)}}
			if name == "duplicate" {
				files["b.yaml"] = &fstest.MapFile{Data: []byte(productsYAML)}
			}
			if _, err := viewconfig.LoadFS(files); !errors.Is(err, viewconfig.ErrInvalidView) {
				t.Fatalf("expected invalid view, got %v", err)
			}
		})
	}
}

const petstore = `
openapi: 3.0.3
info: {title: shop, version: "1"}
paths: {}
components:
  schemas:
    Product:
      type: object
      properties:
        name:
          type: string
          title: Name
          x-sortable: true
          x-sort-alias: by_name
          x-searchable: true
          x-order: 1
        sku:
          type: string
          x-searchable: istartswith
          x-order: 2
        released:
          type: string
          format: date
          x-searchable: true
          x-sortable: true
        brand:
          type: string
          x-filterable: true
`

func TestFromOpenAPI(t *testing.T) {
	view, err := viewconfig.FromOpenAPI(context.Background(), []byte(petstore), "Product", "products")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}

	var columns []string
	for _, c := range view.Columns {
		columns = append(columns, c.Name)
	}
	if diff := cmp.Diff([]string{"brand", "released", "name", "sku"}, columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if view.ColumnLabel("name") != "Name" {
		t.Fatalf("expected title label, got %q", view.ColumnLabel("name"))
	}

	wantSort := []sorting.Field{{Name: "released", Alias: "released"}, {Name: "name", Alias: "by_name"}}
	if diff := cmp.Diff(wantSort, view.Sort.Aliases); diff != "" {
		t.Fatalf("sort mismatch (-want +got):\n%s", diff)
	}
	wantSearch := []search.FieldLookup{
		{Field: "name", Lookup: search.LookupIContains},
		{Field: "sku", Lookup: search.LookupIStartsWith},
	}
	if diff := cmp.Diff(wantSearch, view.Search.Fields); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"released"}, view.Search.DateFields); diff != "" {
		t.Fatalf("date fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(search.FilterFields{{Column: "brand", Param: "brand"}}, view.Filters); diff != "" {
		t.Fatalf("filters mismatch (-want +got):\n%s", diff)
	}

	if _, err := viewconfig.FromOpenAPI(context.Background(), []byte(petstore), "Missing", "x"); !errors.Is(err, viewconfig.ErrSchemaNotFound) {
		t.Fatalf("expected schema not found, got %v", err)
	}
}

func TestPlainLabel(t *testing.T) {
	if got := viewconfig.PlainLabel(`<strong>Price</strong> &amp; tax`); got != "Price & tax" {
		t.Fatalf("unexpected plain label %q", got)
	}
}

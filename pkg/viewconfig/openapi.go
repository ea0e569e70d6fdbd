package viewconfig

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-listviews/pkg/search"
	"github.com/goliatone/go-listviews/pkg/sorting"
)

const (
	sortableExtension   = "x-sortable"
	sortAliasExtension  = "x-sort-alias"
	searchableExtension = "x-searchable"
	filterExtension     = "x-filterable"
	labelExtension      = "x-label"
	orderExtension      = "x-order"
)

// ErrSchemaNotFound is returned when the named component schema is absent.
var ErrSchemaNotFound = errors.New("viewconfig: schema not found")

// FromOpenAPI derives a list view from a component schema. Properties
// marked x-sortable become sort fields, aliased by x-sort-alias when set.
// x-searchable marks search fields; its value may name a lookup, and date
// formatted properties become date search fields. x-filterable properties
// become exact-match filters. Columns follow x-order, then property name.
func FromOpenAPI(ctx context.Context, data []byte, schemaName, table string) (View, error) {
	if err := ctx.Err(); err != nil {
		return View{}, err
	}
	if !hasComponents(data) {
		return View{}, fmt.Errorf("%w: %s (document has no components)", ErrSchemaNotFound, schemaName)
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return View{}, fmt.Errorf("viewconfig: load openapi document: %w", err)
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return View{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, schemaName)
	}

	names := make([]string, 0, len(ref.Value.Properties))
	for name := range ref.Value.Properties {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := propertyOrder(ref.Value.Properties[names[i]]), propertyOrder(ref.Value.Properties[names[j]])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})

	view := View{Name: schemaName, Source: "openapi:" + schemaName, Table: table}
	for _, name := range names {
		prop := ref.Value.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		ext := prop.Value.Extensions

		label := stringExtension(ext, labelExtension)
		if label == "" {
			label = prop.Value.Title
		}
		view.Columns = append(view.Columns, Column{Name: name, Label: SanitizeLabel(label)})

		if boolExtension(ext, sortableExtension) {
			alias := stringExtension(ext, sortAliasExtension)
			if alias == "" {
				alias = name
			}
			view.Sort.Aliases = append(view.Sort.Aliases, sorting.Field{Name: name, Alias: alias})
		}

		if raw, ok := ext[searchableExtension]; ok && raw != false {
			if isDateFormat(prop.Value.Format) {
				view.Search.DateFields = append(view.Search.DateFields, name)
			} else {
				lookup := search.LookupIContains
				if s, ok := raw.(string); ok && s != "" {
					lookup = search.Lookup(strings.ToLower(s))
				}
				view.Search.Fields = append(view.Search.Fields, search.FieldLookup{Field: name, Lookup: lookup})
			}
		}

		if boolExtension(ext, filterExtension) {
			view.Filters = append(view.Filters, search.FilterField{Column: name, Param: name})
		}
	}

	if err := view.Validate(); err != nil {
		return View{}, err
	}
	return view, nil
}

func hasComponents(data []byte) bool {
	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return false
	}
	components, ok := probe["components"].(map[string]any)
	return ok && len(components) > 0
}

func isDateFormat(format string) bool {
	return format == "date" || format == "date-time"
}

func propertyOrder(ref *openapi3.SchemaRef) float64 {
	if ref == nil || ref.Value == nil {
		return 0
	}
	switch v := ref.Value.Extensions[orderExtension].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func boolExtension(ext map[string]any, key string) bool {
	v, _ := ext[key].(bool)
	return v
}

func stringExtension(ext map[string]any, key string) string {
	v, _ := ext[key].(string)
	return strings.TrimSpace(v)
}

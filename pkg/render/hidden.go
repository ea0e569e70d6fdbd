package render

import (
	"net/url"
	"sort"

	"github.com/goliatone/go-listviews/pkg/formset"
)

// HiddenField is a hidden input emitted by form templates.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CSRFToken returns the hidden input carrying token under name, e.g. "_csrf".
func CSRFToken(name, token string) HiddenField {
	return HiddenField{Name: name, Value: token}
}

// ManagementFields returns the management and primary key inputs of every
// formset in formset order, sorted by name within each.
func ManagementFields(sets ...*formset.FormSet) []HiddenField {
	var out []HiddenField
	for _, fs := range sets {
		if fs == nil {
			continue
		}
		data := fs.ManagementData()
		for name, value := range fs.PKData() {
			data[name] = value
		}
		names := make([]string, 0, len(data))
		for name := range data {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, HiddenField{Name: name, Value: data[name]})
		}
	}
	return out
}

// QueryFields turns the current query string into hidden inputs so a GET
// form (search box, filter select) keeps ordering, limits and the other
// filters when submitted. Parameters named in drop are left out. Output is
// sorted by name; repeated values keep their order.
func QueryFields(values url.Values, drop ...string) []HiddenField {
	skip := make(map[string]struct{}, len(drop))
	for _, name := range drop {
		skip[name] = struct{}{}
	}
	names := make([]string, 0, len(values))
	for name := range values {
		if _, ok := skip[name]; !ok && name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var out []HiddenField
	for _, name := range names {
		for _, v := range values[name] {
			out = append(out, HiddenField{Name: name, Value: v})
		}
	}
	return out
}

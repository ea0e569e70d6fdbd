package sorting_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-listviews/pkg/sorting"
)

func mustHelper(t *testing.T, query url.Values, spec sorting.Spec, opts ...sorting.Option) *sorting.Helper {
	t.Helper()
	h, err := sorting.NewHelper(query, spec, opts...)
	if err != nil {
		t.Fatalf("new helper: %v", err)
	}
	return h
}

func TestHelper_NoParamsHasNoActiveField(t *testing.T) {
	h := mustHelper(t, url.Values{}, sorting.SpecFromNames("name", "sku"))

	if _, _, ok := h.Active(); ok {
		t.Fatalf("expected no active field")
	}
	if got := h.Ordering(); got != nil {
		t.Fatalf("expected nil ordering, got %#v", got)
	}
	link, err := h.Link("name")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if link != "?o=name&ot=asc" {
		t.Fatalf("unexpected link %q", link)
	}
}

func TestHelper_ActiveFieldToggles(t *testing.T) {
	h := mustHelper(t, url.Values{"o": {"name"}, "ot": {"asc"}}, sorting.SpecFromNames("name", "sku"))

	ok, err := h.IsActiveDirection("name", sorting.Ascending)
	if err != nil || !ok {
		t.Fatalf("expected name active ascending, got %v (%v)", ok, err)
	}
	link, err := h.Link("name")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if link != "?o=name&ot=desc" {
		t.Fatalf("unexpected toggle link %q", link)
	}
	other, err := h.Link("sku")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if other != "?o=sku&ot=asc" {
		t.Fatalf("unexpected link for inactive field %q", other)
	}
}

func TestHelper_AliasesResolveToFieldNames(t *testing.T) {
	spec := sorting.Spec{
		{Name: "id", Alias: "by_id"},
		{Name: "name", Alias: "by_name"},
	}
	h := mustHelper(t, url.Values{"o": {"by_name"}}, spec)

	field, direction, ok := h.Active()
	if !ok || field.Name != "name" {
		t.Fatalf("expected active field name, got %#v (ok=%v)", field, ok)
	}
	if direction != sorting.Ascending {
		t.Fatalf("expected ascending without direction param, got %q", direction)
	}
	link, err := h.Link("name")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	parsed, err := url.ParseQuery(link[1:])
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if parsed.Get("o") != "by_name" {
		t.Fatalf("expected alias in link, got %q", link)
	}
}

func TestHelper_IsActiveReturnsDirection(t *testing.T) {
	h := mustHelper(t, url.Values{"o": {"sku"}, "ot": {"desc"}}, sorting.SpecFromNames("name", "sku"))

	got, err := h.IsActive("sku")
	if err != nil {
		t.Fatalf("is active: %v", err)
	}
	if got != sorting.Descending {
		t.Fatalf("expected desc, got %q", got)
	}
	got, err = h.IsActive("name")
	if err != nil {
		t.Fatalf("is active: %v", err)
	}
	if got != "" {
		t.Fatalf("expected inactive field to report empty direction, got %q", got)
	}
	if ok, _ := h.IsActiveDirection("sku", sorting.Ascending); ok {
		t.Fatalf("expected sku not active ascending")
	}
}

func TestHelper_LinksPreserveOtherParams(t *testing.T) {
	query := url.Values{
		"page": {"3"},
		"q":    {"blue shirt"},
		"tag":  {"a", "b"},
		"o":    {"name"},
	}
	h := mustHelper(t, query, sorting.SpecFromNames("name", "sku"))

	for _, field := range []string{"name", "sku"} {
		link, err := h.Link(field)
		if err != nil {
			t.Fatalf("link %s: %v", field, err)
		}
		parsed, err := url.ParseQuery(link[1:])
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		for _, key := range []string{"page", "q", "tag"} {
			if diff := cmp.Diff(query[key], parsed[key]); diff != "" {
				t.Fatalf("param %q changed (-want +got):\n%s", key, diff)
			}
		}
	}

	if diff := cmp.Diff([]string{"name"}, query["o"]); diff != "" {
		t.Fatalf("caller query mutated (-want +got):\n%s", diff)
	}
}

func TestHelper_ClickingTogglesOncePerClick(t *testing.T) {
	spec := sorting.SpecFromNames("name", "sku")
	query := url.Values{"page": {"2"}}

	want := []sorting.Direction{sorting.Ascending, sorting.Descending, sorting.Ascending}
	for i, expected := range want {
		h := mustHelper(t, query, spec)
		link, err := h.Link("name")
		if err != nil {
			t.Fatalf("click %d: %v", i, err)
		}
		next, err := url.ParseQuery(link[1:])
		if err != nil {
			t.Fatalf("click %d parse: %v", i, err)
		}
		following := mustHelper(t, next, spec)
		got, err := following.IsActive("name")
		if err != nil {
			t.Fatalf("click %d: %v", i, err)
		}
		if got != expected {
			t.Fatalf("click %d: expected %q, got %q", i, expected, got)
		}
		query = next
	}
}

func TestHelper_DefaultsApplyOnlyWithoutParams(t *testing.T) {
	spec := sorting.SpecFromNames("name", "created")
	opts := []sorting.Option{sorting.WithDefault("created", sorting.Descending)}

	h := mustHelper(t, url.Values{"page": {"1"}}, spec, opts...)
	if diff := cmp.Diff([]string{"-created"}, h.Ordering()); diff != "" {
		t.Fatalf("default ordering mismatch (-want +got):\n%s", diff)
	}

	h = mustHelper(t, url.Values{"o": {"name"}}, spec, opts...)
	if diff := cmp.Diff([]string{"name"}, h.Ordering()); diff != "" {
		t.Fatalf("explicit ordering mismatch (-want +got):\n%s", diff)
	}

	if _, err := sorting.NewHelper(nil, spec, sorting.WithDefault("missing", "")); !errors.Is(err, sorting.ErrUnknownField) {
		t.Fatalf("expected unknown default to fail, got %v", err)
	}
}

func TestHelper_MultiColumnOrdering(t *testing.T) {
	spec := sorting.Spec{
		{Name: "full_name", Alias: "name", Columns: []string{"last_name", "first_name"}},
	}
	h := mustHelper(t, url.Values{"o": {"name"}, "ot": {"desc"}}, spec)

	if diff := cmp.Diff([]string{"-last_name", "-first_name"}, h.Ordering()); diff != "" {
		t.Fatalf("ordering mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(h.Ordering(), h.Ordering()); diff != "" {
		t.Fatalf("ordering not stable:\n%s", diff)
	}
}

func TestHelper_UnknownFieldFails(t *testing.T) {
	h := mustHelper(t, nil, sorting.SpecFromNames("name"))

	if _, err := h.IsActive("price"); !errors.Is(err, sorting.ErrUnknownField) {
		t.Fatalf("expected unknown field from IsActive, got %v", err)
	}
	if _, err := h.Link("price"); !errors.Is(err, sorting.ErrUnknownField) {
		t.Fatalf("expected unknown field from Link, got %v", err)
	}
	if _, err := h.LinkDirection("price", sorting.Descending); !errors.Is(err, sorting.ErrUnknownField) {
		t.Fatalf("expected unknown field from LinkDirection, got %v", err)
	}
}

func TestHelper_UnknownAliasInQueryIsIgnored(t *testing.T) {
	h := mustHelper(t, url.Values{"o": {"nope"}, "ot": {"desc"}}, sorting.SpecFromNames("name"))
	if got := h.Ordering(); got != nil {
		t.Fatalf("expected nil ordering, got %#v", got)
	}
}

func TestHelper_CustomParamNames(t *testing.T) {
	h := mustHelper(t,
		url.Values{"sort": {"sku"}, "dir": {"DESC"}},
		sorting.SpecFromNames("name", "sku"),
		sorting.WithFieldParam("sort"),
		sorting.WithDirectionParam("dir"),
	)
	if diff := cmp.Diff([]string{"-sku"}, h.Ordering()); diff != "" {
		t.Fatalf("ordering mismatch (-want +got):\n%s", diff)
	}
	link, err := h.LinkDirection("name", sorting.Descending)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if link != "?dir=desc&sort=name" {
		t.Fatalf("unexpected link %q", link)
	}
}

func TestHelper_Headers(t *testing.T) {
	spec := sorting.Spec{
		{Name: "id", Alias: "by_id"},
		{Name: "name", Alias: "by_name"},
	}
	h := mustHelper(t, url.Values{"o": {"by_id"}, "ot": {"asc"}}, spec)

	want := []sorting.Header{
		{
			Name:     "id",
			Alias:    "by_id",
			Active:   sorting.Ascending,
			Link:     "?o=by_id&ot=desc",
			AscLink:  "?o=by_id&ot=asc",
			DescLink: "?o=by_id&ot=desc",
		},
		{
			Name:     "name",
			Alias:    "by_name",
			Link:     "?o=by_name&ot=asc",
			AscLink:  "?o=by_name&ot=asc",
			DescLink: "?o=by_name&ot=desc",
		},
	}
	if diff := cmp.Diff(want, h.Headers()); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestHelper_RepeatedNameActivatesThroughEveryAlias(t *testing.T) {
	spec := sorting.Spec{
		{Name: "name", Alias: "by_name"},
		{Name: "name", Alias: "n"},
		{Name: "sku", Alias: "sku"},
	}

	for _, alias := range []string{"by_name", "n"} {
		h := mustHelper(t, url.Values{"o": {alias}, "ot": {"desc"}}, spec)
		field, direction, ok := h.Active()
		if !ok || field.Name != "name" || direction != sorting.Descending {
			t.Fatalf("o=%s: active = %#v %q (ok=%v)", alias, field, direction, ok)
		}
		if diff := cmp.Diff([]string{"-name"}, h.Ordering()); diff != "" {
			t.Fatalf("o=%s: ordering mismatch (-want +got):\n%s", alias, diff)
		}
		got, err := h.IsActive("name")
		if err != nil || got != sorting.Descending {
			t.Fatalf("o=%s: is active = %q (%v)", alias, got, err)
		}
		link, err := h.Link("name")
		if err != nil {
			t.Fatalf("link: %v", err)
		}
		if link != "?o=n&ot=asc" {
			t.Fatalf("o=%s: expected toggle through the last alias, got %q", alias, link)
		}
	}

	h := mustHelper(t, url.Values{}, spec)
	var names []string
	for _, hd := range h.Headers() {
		names = append(names, hd.Name+"="+hd.Alias)
	}
	if diff := cmp.Diff([]string{"name=n", "sku=sku"}, names); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestHelper_PaddedAliasIsTrimmed(t *testing.T) {
	spec := sorting.Spec{{Name: "name ", Alias: " by_name"}}
	h := mustHelper(t, url.Values{"o": {"by_name"}}, spec)

	if diff := cmp.Diff([]string{"name"}, h.Ordering()); diff != "" {
		t.Fatalf("ordering mismatch (-want +got):\n%s", diff)
	}
	link, err := h.Link("name")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if link != "?o=by_name&ot=desc" {
		t.Fatalf("unexpected link %q", link)
	}
}

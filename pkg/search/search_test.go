package search_test

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-listviews/pkg/search"
)

type record map[string]any

func (r record) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

func TestConfig_WordsMustAllMatchSomeField(t *testing.T) {
	cfg := search.Config{Fields: []search.FieldLookup{{Field: "title"}, {Field: "author"}}}

	filter, err := cfg.Build("foo bar")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !filter.Match(record{"title": "Foo things", "author": "Bar Baz"}) {
		t.Fatalf("expected words spread across fields to match")
	}
	if filter.Match(record{"title": "Foo things", "author": "Nobody"}) {
		t.Fatalf("expected missing word to fail the match")
	}
}

func TestConfig_NoSplitKeepsPhrase(t *testing.T) {
	cfg := search.Config{Fields: []search.FieldLookup{{Field: "title"}}, NoSplit: true}

	filter, err := cfg.Build("  blue shirt ")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := search.And{search.Or{search.Condition{Field: "title", Lookup: search.LookupIContains, Value: "blue shirt"}}}
	if diff := cmp.Diff(want, filter); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_DateWordsSearchDateFields(t *testing.T) {
	cfg := search.Config{
		Fields:     []search.FieldLookup{{Field: "title"}},
		DateFields: []string{"published"},
	}
	filter, err := cfg.Build("01.02.2024")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	published := time.Date(2024, time.February, 1, 15, 30, 0, 0, time.UTC)
	if !filter.Match(record{"title": "unrelated", "published": published}) {
		t.Fatalf("expected date field to match")
	}
	if filter.Match(record{"title": "unrelated", "published": published.AddDate(0, 0, 1)}) {
		t.Fatalf("expected other day not to match")
	}
}

func TestConfig_TryDateShortYear(t *testing.T) {
	cfg := search.Config{}
	got, ok := cfg.TryDate("05.03.21")
	if !ok {
		t.Fatalf("expected short year layout to parse")
	}
	if got.Year() != 2021 || got.Month() != time.March || got.Day() != 5 {
		t.Fatalf("unexpected date %v", got)
	}
	if _, ok := cfg.TryDate("yesterday"); ok {
		t.Fatalf("expected non-date word to fail")
	}
}

func TestConfig_InvalidLookup(t *testing.T) {
	cfg := search.Config{Fields: []search.FieldLookup{{Field: "title", Lookup: "gt"}}}
	if _, err := cfg.Build("x"); !errors.Is(err, search.ErrInvalidLookup) {
		t.Fatalf("expected invalid lookup, got %v", err)
	}
	cfg.SkipLookupCheck = true
	if _, err := cfg.Build("x"); err != nil {
		t.Fatalf("expected unchecked lookup to build, got %v", err)
	}
}

func TestConfig_FromQueryHonoursDisabledAndParam(t *testing.T) {
	cfg := search.Config{Fields: []search.FieldLookup{{Field: "title"}}, Param: "search"}
	values := url.Values{"search": {"x"}, "q": {"y"}}

	filter, err := cfg.FromQuery(values)
	if err != nil || filter == nil {
		t.Fatalf("expected filter, got %v (%v)", filter, err)
	}
	cfg.Disabled = true
	filter, err = cfg.FromQuery(values)
	if err != nil || filter != nil {
		t.Fatalf("expected nil filter when disabled, got %v (%v)", filter, err)
	}
}

func TestCondition_Lookups(t *testing.T) {
	rec := record{"name": "Grace Hopper"}
	cases := []struct {
		lookup search.Lookup
		value  string
		want   bool
	}{
		{search.LookupExact, "Grace Hopper", true},
		{search.LookupExact, "grace hopper", false},
		{search.LookupIExact, "grace hopper", true},
		{search.LookupContains, "Hop", true},
		{search.LookupContains, "hop", false},
		{search.LookupIContains, "hop", true},
		{search.LookupStartsWith, "Grace", true},
		{search.LookupIStartsWith, "grace", true},
		{search.LookupEndsWith, "per", true},
		{search.LookupIEndsWith, "PER", true},
		{search.LookupRegex, "^G.*r$", true},
		{search.LookupIRegex, "^g.*R$", true},
		{search.LookupRegex, "(", false},
	}
	for _, tc := range cases {
		got := search.Condition{Field: "name", Lookup: tc.lookup, Value: tc.value}.Match(rec)
		if got != tc.want {
			t.Fatalf("%s %q: expected %v, got %v", tc.lookup, tc.value, tc.want, got)
		}
	}
	if (search.Condition{Field: "missing", Value: "x"}).Match(rec) {
		t.Fatalf("expected missing field not to match")
	}
}

func TestFilterFields(t *testing.T) {
	fields := search.FilterFields{{Column: "status"}, {Column: "owner_id", Param: "owner"}}
	values := url.Values{"status": {"open"}, "owner": {""}, "other": {"x"}}

	if diff := cmp.Diff(map[string]string{"status": "open"}, fields.Applied(values)); diff != "" {
		t.Fatalf("applied mismatch (-want +got):\n%s", diff)
	}
	filter := fields.Filter(values)
	want := search.And{search.Condition{Field: "status", Lookup: search.LookupExact, Value: "open"}}
	if diff := cmp.Diff(want, filter); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
	if fields.Filter(url.Values{}) != nil {
		t.Fatalf("expected nil filter without params")
	}
}

func TestParseFieldLookup(t *testing.T) {
	got, err := search.ParseFieldLookups([]string{"title", "sku:IExact"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []search.FieldLookup{
		{Field: "title", Lookup: search.LookupIContains},
		{Field: "sku", Lookup: search.LookupIExact},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lookups mismatch (-want +got):\n%s", diff)
	}
	if _, err := search.ParseFieldLookup(":exact"); err == nil {
		t.Fatalf("expected error for empty field")
	}
}

func TestCombine(t *testing.T) {
	a := search.Condition{Field: "a", Value: "1"}
	if search.Combine(nil, nil) != nil {
		t.Fatalf("expected nil")
	}
	if diff := cmp.Diff(search.Filter(a), search.Combine(nil, a)); diff != "" {
		t.Fatalf("single filter mismatch:\n%s", diff)
	}
}

func TestCondition_RangeAndNullLookups(t *testing.T) {
	at := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)
	rec := record{"start": at, "count": 5, "end": time.Time{}}

	cases := []struct {
		cond search.Condition
		want bool
	}{
		{search.Condition{Field: "start", Lookup: search.LookupGTE, Value: at}, true},
		{search.Condition{Field: "start", Lookup: search.LookupGT, Value: at}, false},
		{search.Condition{Field: "start", Lookup: search.LookupLT, Value: at.Add(time.Hour)}, true},
		{search.Condition{Field: "count", Lookup: search.LookupLTE, Value: 5}, true},
		{search.Condition{Field: "count", Lookup: search.LookupGT, Value: 7.5}, false},
		{search.Condition{Field: "end", Lookup: search.LookupIsNull, Value: true}, true},
		{search.Condition{Field: "missing", Lookup: search.LookupIsNull, Value: true}, true},
		{search.Condition{Field: "start", Lookup: search.LookupIsNull, Value: false}, true},
		{search.Condition{Field: "end", Lookup: search.LookupGTE, Value: at}, false},
	}
	for _, tc := range cases {
		if got := tc.cond.Match(rec); got != tc.want {
			t.Fatalf("%+v: expected %v, got %v", tc.cond, tc.want, got)
		}
	}
}

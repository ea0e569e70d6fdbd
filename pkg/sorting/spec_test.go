package sorting_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-listviews/pkg/sorting"
)

func TestConfig_FieldsAndAliasesAreExclusive(t *testing.T) {
	cfg := sorting.Config{
		Fields:  []string{"id"},
		Aliases: []sorting.Field{{Name: "id", Alias: "by_id"}},
	}
	if _, err := cfg.Spec(); !errors.Is(err, sorting.ErrImproperlyConfigured) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := cfg.NewHelper(url.Values{}); !errors.Is(err, sorting.ErrImproperlyConfigured) {
		t.Fatalf("expected configuration error from NewHelper, got %v", err)
	}
}

func TestSpec_DuplicateAliasRejected(t *testing.T) {
	spec := sorting.Spec{
		{Name: "id", Alias: "key"},
		{Name: "name", Alias: "key"},
	}
	if err := spec.Validate(); !errors.Is(err, sorting.ErrDuplicateAlias) {
		t.Fatalf("expected duplicate alias error, got %v", err)
	}
}

func TestSpec_SameNameDifferentAliasAllowed(t *testing.T) {
	spec := sorting.Spec{
		{Name: "name", Alias: "a"},
		{Name: "name", Alias: "b"},
	}
	if err := spec.Validate(); err != nil {
		t.Fatalf("expected repeated name with distinct aliases to validate, got %v", err)
	}
}

func TestConfig_SpecTrimsAliases(t *testing.T) {
	cfg := sorting.Config{Aliases: []sorting.Field{{Name: " name ", Alias: " by_name", Columns: []string{"name ", " id"}}}}
	spec, err := cfg.Spec()
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	want := sorting.Spec{{Name: "name", Alias: "by_name", Columns: []string{"name", "id"}}}
	if diff := cmp.Diff(want, spec); diff != "" {
		t.Fatalf("spec mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_FlatFieldsUseNamesAsAliases(t *testing.T) {
	cfg := sorting.Config{Fields: []string{"id", "name"}}
	spec, err := cfg.Spec()
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	want := sorting.Spec{{Name: "id", Alias: "id"}, {Name: "name", Alias: "name"}}
	if diff := cmp.Diff(want, spec); diff != "" {
		t.Fatalf("spec mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := sorting.Config{Fields: []string{"id"}, DefaultField: "name"}
	if err := cfg.Validate(); !errors.Is(err, sorting.ErrUnknownField) {
		t.Fatalf("expected unknown default field, got %v", err)
	}
	cfg = sorting.Config{Fields: []string{"id"}, DefaultDirection: "sideways"}
	if err := cfg.Validate(); !errors.Is(err, sorting.ErrImproperlyConfigured) {
		t.Fatalf("expected bad direction error, got %v", err)
	}
}

func TestOrderByClauses(t *testing.T) {
	got := sorting.OrderByClauses([]string{"name", "-created_at", " ", "-"})
	want := []string{"name", "created_at DESC"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("clauses mismatch (-want +got):\n%s", diff)
	}
	if sorting.OrderByClauses(nil) != nil {
		t.Fatalf("expected nil for empty ordering")
	}
}

func TestParseDirection(t *testing.T) {
	cases := []struct {
		raw   string
		want  sorting.Direction
		known bool
	}{
		{"asc", sorting.Ascending, true},
		{"DESC", sorting.Descending, true},
		{"", sorting.Ascending, false},
		{"up", sorting.Ascending, false},
	}
	for _, tc := range cases {
		got, known := sorting.ParseDirection(tc.raw)
		if got != tc.want || known != tc.known {
			t.Fatalf("ParseDirection(%q) = %q,%v want %q,%v", tc.raw, got, known, tc.want, tc.known)
		}
	}
}

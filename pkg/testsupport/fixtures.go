package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-listviews/pkg/store"
)

// Products returns a fixed product catalogue keyed by "id".
func Products() []store.Record {
	return []store.Record{
		{"id": "p1", "name": "Anvil", "brand": "acme", "price": 120.0, "released": date(2023, time.March, 1)},
		{"id": "p2", "name": "Rocket skates", "brand": "acme", "price": 450.0, "released": date(2024, time.January, 15)},
		{"id": "p3", "name": "Bird seed", "brand": "warner", "price": 4.5, "released": date(2022, time.June, 30)},
		{"id": "p4", "name": "Giant magnet", "brand": "acme", "price": 89.0, "released": time.Time{}},
		{"id": "p5", "name": "Tornado seeds", "brand": "warner", "price": 12.0, "released": date(2024, time.January, 2)},
	}
}

// Events returns calendar fixtures around March 2024. "e3" spans the month
// boundary and "e4" has no end.
func Events() []store.Record {
	return []store.Record{
		{"id": "e1", "title": "Standup", "starts": date(2024, time.March, 4), "ends": date(2024, time.March, 4)},
		{"id": "e2", "title": "Offsite", "starts": date(2024, time.March, 13), "ends": date(2024, time.March, 15)},
		{"id": "e3", "title": "Migration", "starts": date(2024, time.February, 27), "ends": date(2024, time.March, 2)},
		{"id": "e4", "title": "Launch", "starts": date(2024, time.March, 28), "ends": nil},
		{"id": "e5", "title": "Retro", "starts": date(2024, time.May, 2), "ends": date(2024, time.May, 2)},
	}
}

// SeedStore returns a memory store holding the products and events tables
// plus empty "orders" and "order_lines" tables.
func SeedStore(t *testing.T) *store.MemoryStore {
	t.Helper()

	st := store.NewMemoryStore(
		store.WithTable("products", Products()...),
		store.WithTable("events", Events()...),
		store.WithTable("orders"),
		store.WithTable("order_lines"),
	)
	return st
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file as a string.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set and
// reports whether it did (the test should then return early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

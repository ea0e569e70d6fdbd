// Package store defines the collection seam list views read from and write
// to, plus an in-memory implementation.
package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-listviews/pkg/search"
)

// DefaultPK names the primary key field used when none is configured.
const DefaultPK = "id"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrUnknownTable is returned for tables the store does not manage.
	ErrUnknownTable = errors.New("store: unknown table")
)

// Record is a row keyed by field name.
type Record map[string]any

// Get implements search.Getter.
func (r Record) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Query selects records from one table. Ordering entries are column names,
// prefixed with "-" for descending order. A zero Limit means no limit.
type Query struct {
	Table    string
	Filter   search.Filter
	Ordering []string
	Limit    int
	Offset   int
}

// Store lists and counts records.
type Store interface {
	List(ctx context.Context, q Query) ([]Record, error)
	Count(ctx context.Context, q Query) (int, error)
}

// Getter loads a single record by primary key.
type Getter interface {
	Get(ctx context.Context, table string, pk any) (Record, error)
}

// Saver persists records. Save inserts records without a primary key and
// updates the others, returning the stored record.
type Saver interface {
	Save(ctx context.Context, table string, rec Record) (Record, error)
	Delete(ctx context.Context, table string, pk any) error
}

// TxManager runs fn atomically. Stores carry the transaction on the context
// passed to fn.
type TxManager interface {
	TxFn(ctx context.Context, fn func(ctx context.Context) error) error
}

// Distincter returns the distinct values of a column, used for filter
// options.
type Distincter interface {
	Distinct(ctx context.Context, table, column string) ([]any, error)
}

// Choice is a filter option: a stored value and the text shown for it.
type Choice struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// LabelDistincter returns the distinct values of column, each labelled with
// the smallest non-empty labelColumn value of the rows holding it. Choices
// are ordered by value.
type LabelDistincter interface {
	DistinctLabels(ctx context.Context, table, column, labelColumn string) ([]Choice, error)
}

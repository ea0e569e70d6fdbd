package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-listviews/pkg/search"
	"github.com/goliatone/go-listviews/pkg/sorting"
)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithPK sets the primary key field.
func WithPK(field string) MemoryOption {
	return func(m *MemoryStore) {
		if strings.TrimSpace(field) != "" {
			m.pk = field
		}
	}
}

// WithKeyFunc overrides primary key generation for new records.
func WithKeyFunc(fn func() any) MemoryOption {
	return func(m *MemoryStore) {
		if fn != nil {
			m.newKey = fn
		}
	}
}

// WithTable seeds a table with records.
func WithTable(name string, records ...Record) MemoryOption {
	return func(m *MemoryStore) {
		rows := make([]Record, 0, len(records))
		for _, rec := range records {
			rows = append(rows, rec.Clone())
		}
		m.tables[name] = rows
	}
}

// MemoryStore keeps tables in memory. It implements Store, Getter, Saver,
// TxManager, Distincter and LabelDistincter. Transactions are serialised and roll back by
// restoring a snapshot.
type MemoryStore struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	tables map[string][]Record
	pk     string
	newKey func() any
}

// NewMemoryStore returns an empty store keyed by "id" with uuid keys.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		tables: make(map[string][]Record),
		pk:     DefaultPK,
		newKey: func() any { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// CreateTable registers an empty table when it does not exist.
func (m *MemoryStore) CreateTable(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[name]; !ok {
		m.tables[name] = []Record{}
	}
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context, q Query) ([]Record, error) {
	rows, err := m.matching(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(q.Ordering) > 0 {
		sortRecords(rows, q.Ordering)
	}
	if q.Offset > 0 {
		if q.Offset >= len(rows) {
			return []Record{}, nil
		}
		rows = rows[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}
	return rows, nil
}

// Count implements Store.
func (m *MemoryStore) Count(ctx context.Context, q Query) (int, error) {
	rows, err := m.matching(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Get implements Getter.
func (m *MemoryStore) Get(ctx context.Context, table string, pk any) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	idx := m.index(rows, pk)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s %v", ErrNotFound, table, pk)
	}
	return rows[idx].Clone(), nil
}

// Save implements Saver. Tables are created on first save.
func (m *MemoryStore) Save(ctx context.Context, table string, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := rec.Clone()
	if stored == nil {
		stored = Record{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	pk, ok := stored[m.pk]
	if !ok || pk == nil || pk == "" {
		stored[m.pk] = m.newKey()
		m.tables[table] = append(m.tables[table], stored)
		return stored.Clone(), nil
	}
	rows := m.tables[table]
	if idx := m.index(rows, pk); idx >= 0 {
		rows[idx] = stored
	} else {
		m.tables[table] = append(rows, stored)
	}
	return stored.Clone(), nil
}

// Delete implements Saver.
func (m *MemoryStore) Delete(ctx context.Context, table string, pk any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	idx := m.index(rows, pk)
	if idx < 0 {
		return fmt.Errorf("%w: %s %v", ErrNotFound, table, pk)
	}
	m.tables[table] = append(rows[:idx:idx], rows[idx+1:]...)
	return nil
}

// Distinct implements Distincter. Values are returned in ascending order and
// nil values are skipped.
func (m *MemoryStore) Distinct(ctx context.Context, table, column string) ([]any, error) {
	rows, err := m.matching(ctx, Query{Table: table})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []any
	for _, rec := range rows {
		v, ok := rec[column]
		if !ok || v == nil {
			continue
		}
		key := fmt.Sprintf("%T:%v", v, v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		c, _ := search.Compare(out[i], out[j])
		return c < 0
	})
	return out, nil
}

// DistinctLabels implements LabelDistincter. A value whose rows carry no
// label is labelled with the value itself.
func (m *MemoryStore) DistinctLabels(ctx context.Context, table, column, labelColumn string) ([]Choice, error) {
	values, err := m.Distinct(ctx, table, column)
	if err != nil {
		return nil, err
	}
	rows, err := m.matching(ctx, Query{Table: table})
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string, len(values))
	for _, rec := range rows {
		v, ok := rec[column]
		if !ok || v == nil {
			continue
		}
		l, ok := rec[labelColumn]
		if !ok || l == nil {
			continue
		}
		label := strings.TrimSpace(fmt.Sprint(l))
		if label == "" {
			continue
		}
		key := fmt.Sprintf("%T:%v", v, v)
		if cur, seen := labels[key]; !seen || label < cur {
			labels[key] = label
		}
	}

	out := make([]Choice, 0, len(values))
	for _, v := range values {
		label, ok := labels[fmt.Sprintf("%T:%v", v, v)]
		if !ok {
			label = fmt.Sprint(v)
		}
		out = append(out, Choice{Value: v, Label: label})
	}
	return out, nil
}

// TxFn implements TxManager. When fn fails every table is restored to its
// state before the call.
func (m *MemoryStore) TxFn(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snapshot := m.snapshot()
	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.tables = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *MemoryStore) snapshot() map[string][]Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]Record, len(m.tables))
	for name, rows := range m.tables {
		copied := make([]Record, len(rows))
		for i, rec := range rows {
			copied[i] = rec.Clone()
		}
		out[name] = copied
	}
	return out
}

func (m *MemoryStore) matching(ctx context.Context, q Query) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.tables[q.Table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, q.Table)
	}
	out := make([]Record, 0, len(rows))
	for _, rec := range rows {
		if q.Filter != nil && !q.Filter.Match(rec) {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (m *MemoryStore) index(rows []Record, pk any) int {
	want := fmt.Sprint(pk)
	for i, rec := range rows {
		if v, ok := rec[m.pk]; ok && fmt.Sprint(v) == want {
			return i
		}
	}
	return -1
}

func sortRecords(rows []Record, ordering []string) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, entry := range ordering {
			column, dir := sorting.SplitOrdering(entry)
			a, aok := rows[i][column]
			b, bok := rows[j][column]
			c := compareNullable(a, aok, b, bok)
			if c == 0 {
				continue
			}
			if dir == sorting.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareNullable sorts missing and nil values first.
func compareNullable(a any, aok bool, b any, bok bool) int {
	aNull := !aok || a == nil
	bNull := !bok || b == nil
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -1
	case bNull:
		return 1
	}
	c, _ := search.Compare(a, b)
	return c
}

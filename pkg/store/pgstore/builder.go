// Package pgstore implements the store interfaces on Postgres with squirrel
// and pgx.
package pgstore

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/goliatone/go-listviews/pkg/search"
	"github.com/goliatone/go-listviews/pkg/sorting"
	"github.com/goliatone/go-listviews/pkg/store"
)

var (
	// ErrUnknownColumn is returned for columns outside the table definition.
	ErrUnknownColumn = errors.New("pgstore: unknown column")
	// ErrUnsupportedFilter is returned for filter nodes the builder cannot
	// translate.
	ErrUnsupportedFilter = errors.New("pgstore: unsupported filter")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Table describes a table the store may query. When Columns is empty any
// plain identifier is accepted.
type Table struct {
	Name    string
	PK      string
	Columns []string
}

// Builder turns store queries into SQL for one table.
type Builder struct {
	table   Table
	allowed map[string]struct{}
	qb      squirrel.StatementBuilderType
}

// NewBuilder returns a builder using dollar placeholders.
func NewBuilder(table Table) (*Builder, error) {
	if !identifier.MatchString(table.Name) {
		return nil, fmt.Errorf("pgstore: invalid table name %q", table.Name)
	}
	if table.PK == "" {
		table.PK = store.DefaultPK
	}
	b := &Builder{
		table: table,
		qb:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if len(table.Columns) > 0 {
		b.allowed = make(map[string]struct{}, len(table.Columns)+1)
		for _, col := range table.Columns {
			if !identifier.MatchString(col) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
			}
			b.allowed[col] = struct{}{}
		}
		b.allowed[table.PK] = struct{}{}
	}
	if err := b.column(table.PK); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Builder) column(name string) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if b.allowed != nil {
		if _, ok := b.allowed[name]; !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, b.table.Name, name)
		}
	}
	return nil
}

func (b *Builder) columns() []string {
	if len(b.table.Columns) == 0 {
		return []string{"*"}
	}
	return b.table.Columns
}

// Select builds the list query.
func (b *Builder) Select(q store.Query) (squirrel.SelectBuilder, error) {
	qb := b.qb.Select(b.columns()...).From(b.table.Name)
	qb, err := b.where(qb, q.Filter)
	if err != nil {
		return qb, err
	}
	for _, entry := range q.Ordering {
		column, _ := sorting.SplitOrdering(entry)
		if err := b.column(column); err != nil {
			return qb, err
		}
	}
	if clauses := sorting.OrderByClauses(q.Ordering); len(clauses) > 0 {
		qb = qb.OrderBy(clauses...)
	}
	if q.Limit > 0 {
		qb = qb.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		qb = qb.Offset(uint64(q.Offset))
	}
	return qb, nil
}

// Count builds the count query for the filter of q.
func (b *Builder) Count(q store.Query) (squirrel.SelectBuilder, error) {
	return b.where(b.qb.Select("count(*)").From(b.table.Name), q.Filter)
}

// Get builds a single-record lookup by primary key.
func (b *Builder) Get(pk any) squirrel.SelectBuilder {
	return b.qb.Select(b.columns()...).From(b.table.Name).Where(squirrel.Eq{b.table.PK: pk}).Limit(1)
}

// Distinct builds a query for the non-null distinct values of column.
func (b *Builder) Distinct(column string) (squirrel.SelectBuilder, error) {
	if err := b.column(column); err != nil {
		return squirrel.SelectBuilder{}, err
	}
	return b.qb.Select(column).Distinct().From(b.table.Name).
		Where(squirrel.NotEq{column: nil}).
		OrderBy(column), nil
}

// DistinctLabels builds a query for the non-null distinct values of column
// paired with the smallest non-blank labelColumn value of each.
func (b *Builder) DistinctLabels(column, labelColumn string) (squirrel.SelectBuilder, error) {
	for _, col := range []string{column, labelColumn} {
		if err := b.column(col); err != nil {
			return squirrel.SelectBuilder{}, err
		}
	}
	label := fmt.Sprintf("min(NULLIF(btrim(%s::text), ''))", labelColumn)
	return b.qb.Select(column, label).From(b.table.Name).
		Where(squirrel.NotEq{column: nil}).
		GroupBy(column).
		OrderBy(column), nil
}

// Upsert inserts rec, or updates it on primary key conflict when rec carries
// a key. The statement returns the stored row.
func (b *Builder) Upsert(rec store.Record) (squirrel.InsertBuilder, error) {
	values := make(map[string]any, len(rec))
	for col, v := range rec {
		if err := b.column(col); err != nil {
			return squirrel.InsertBuilder{}, err
		}
		values[col] = v
	}
	pk, hasPK := values[b.table.PK]
	if !hasPK || pk == nil || pk == "" {
		delete(values, b.table.PK)
		hasPK = false
	}
	if len(values) == 0 {
		return squirrel.InsertBuilder{}, fmt.Errorf("pgstore: nothing to save in %s", b.table.Name)
	}

	ins := b.qb.Insert(b.table.Name).SetMap(values)
	returning := "RETURNING " + strings.Join(b.columns(), ", ")
	if !hasPK {
		return ins.Suffix(returning), nil
	}

	updates := make([]string, 0, len(values))
	for col := range values {
		if col == b.table.PK {
			continue
		}
		updates = append(updates, col+" = EXCLUDED."+col)
	}
	sort.Strings(updates)
	if len(updates) == 0 {
		return ins.Suffix("ON CONFLICT (" + b.table.PK + ") DO NOTHING " + returning), nil
	}
	return ins.Suffix("ON CONFLICT (" + b.table.PK + ") DO UPDATE SET " + strings.Join(updates, ", ") + " " + returning), nil
}

// Delete builds a delete by primary key.
func (b *Builder) Delete(pk any) squirrel.DeleteBuilder {
	return b.qb.Delete(b.table.Name).Where(squirrel.Eq{b.table.PK: pk})
}

func (b *Builder) where(qb squirrel.SelectBuilder, filter search.Filter) (squirrel.SelectBuilder, error) {
	if filter == nil {
		return qb, nil
	}
	cond, err := b.Condition(filter)
	if err != nil {
		return qb, err
	}
	return qb.Where(cond), nil
}

// Condition translates a filter tree into a squirrel expression.
func (b *Builder) Condition(filter search.Filter) (squirrel.Sqlizer, error) {
	switch f := filter.(type) {
	case search.And:
		out := make(squirrel.And, 0, len(f))
		for _, child := range f {
			if child == nil {
				continue
			}
			cond, err := b.Condition(child)
			if err != nil {
				return nil, err
			}
			out = append(out, cond)
		}
		return out, nil
	case search.Or:
		out := make(squirrel.Or, 0, len(f))
		for _, child := range f {
			if child == nil {
				continue
			}
			cond, err := b.Condition(child)
			if err != nil {
				return nil, err
			}
			out = append(out, cond)
		}
		return out, nil
	case search.Condition:
		return b.condition(f)
	case *search.Condition:
		if f == nil {
			return nil, fmt.Errorf("%w: nil condition", ErrUnsupportedFilter)
		}
		return b.condition(*f)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedFilter, filter)
	}
}

func (b *Builder) condition(c search.Condition) (squirrel.Sqlizer, error) {
	col := c.Field
	if err := b.column(col); err != nil {
		return nil, err
	}
	lookup := search.Lookup(strings.ToLower(string(c.Lookup)))
	if lookup == "" {
		lookup = search.LookupIContains
	}

	switch lookup {
	case search.LookupIsNull:
		if isNull, _ := c.Value.(bool); isNull {
			return squirrel.Eq{col: nil}, nil
		}
		return squirrel.NotEq{col: nil}, nil
	case search.LookupGT:
		return squirrel.Gt{col: c.Value}, nil
	case search.LookupGTE:
		return squirrel.GtOrEq{col: c.Value}, nil
	case search.LookupLT:
		return squirrel.Lt{col: c.Value}, nil
	case search.LookupLTE:
		return squirrel.LtOrEq{col: c.Value}, nil
	}

	if t, ok := c.Value.(time.Time); ok {
		return squirrel.Expr(col+"::date = ?::date", t), nil
	}
	value := fmt.Sprint(c.Value)

	switch lookup {
	case search.LookupExact:
		return squirrel.Eq{col: c.Value}, nil
	case search.LookupIExact:
		return squirrel.Expr("lower("+col+") = lower(?)", value), nil
	case search.LookupContains:
		return squirrel.Like{col: "%" + escapeLike(value) + "%"}, nil
	case search.LookupIContains, search.LookupSearch:
		return squirrel.ILike{col: "%" + escapeLike(value) + "%"}, nil
	case search.LookupStartsWith:
		return squirrel.Like{col: escapeLike(value) + "%"}, nil
	case search.LookupIStartsWith:
		return squirrel.ILike{col: escapeLike(value) + "%"}, nil
	case search.LookupEndsWith:
		return squirrel.Like{col: "%" + escapeLike(value)}, nil
	case search.LookupIEndsWith:
		return squirrel.ILike{col: "%" + escapeLike(value)}, nil
	case search.LookupRegex:
		return squirrel.Expr(col+" ~ ?", value), nil
	case search.LookupIRegex:
		return squirrel.Expr(col+" ~* ?", value), nil
	default:
		return nil, fmt.Errorf("%w: lookup %s", ErrUnsupportedFilter, lookup)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

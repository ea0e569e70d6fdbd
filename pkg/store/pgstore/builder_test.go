package pgstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-listviews/pkg/search"
	"github.com/goliatone/go-listviews/pkg/store"
	"github.com/goliatone/go-listviews/pkg/store/pgstore"
)

func products(t *testing.T) *pgstore.Builder {
	t.Helper()
	b, err := pgstore.NewBuilder(pgstore.Table{Name: "products", Columns: []string{"id", "name", "sku", "price", "brand", "released"}})
	require.NoError(t, err)
	return b
}

func TestBuilder_SelectOrdersAndPages(t *testing.T) {
	b := products(t)
	qb, err := b.Select(store.Query{
		Table:    "products",
		Filter:   search.Condition{Field: "brand", Lookup: search.LookupExact, Value: "acme"},
		Ordering: []string{"-price", "name"},
		Limit:    10,
		Offset:   20,
	})
	require.NoError(t, err)

	sql, args, err := qb.ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "SELECT id, name, sku, price, brand, released FROM products WHERE brand = $1 ORDER BY price DESC, name")
	require.Contains(t, sql, "LIMIT")
	require.Contains(t, sql, "OFFSET")
	require.Equal(t, "acme", args[0])
}

func TestBuilder_SearchFilter(t *testing.T) {
	b := products(t)
	cfg := search.Config{Fields: []search.FieldLookup{{Field: "name"}, {Field: "sku", Lookup: search.LookupIStartsWith}}}
	filter, err := cfg.Build("50%_off")
	require.NoError(t, err)

	qb, err := b.Count(store.Query{Table: "products", Filter: filter})
	require.NoError(t, err)
	sql, args, err := qb.ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT count(*) FROM products WHERE ((name ILIKE $1 OR sku ILIKE $2))", sql)
	require.Equal(t, []any{`%50\%\_off%`, `50\%\_off%`}, args)
}

func TestBuilder_RangeAndNullLookups(t *testing.T) {
	b := products(t)
	since := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	cond, err := b.Condition(search.And{
		search.Condition{Field: "released", Lookup: search.LookupGTE, Value: since},
		search.Condition{Field: "price", Lookup: search.LookupIsNull, Value: true},
		search.Condition{Field: "brand", Lookup: search.LookupIsNull, Value: false},
	})
	require.NoError(t, err)

	sql, args, err := cond.ToSql()
	require.NoError(t, err)
	require.Equal(t, "(released >= ? AND price IS NULL AND brand IS NOT NULL)", sql)
	require.Equal(t, []any{since}, args)
}

func TestBuilder_DateAndRegexLookups(t *testing.T) {
	b := products(t)
	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	cond, err := b.Condition(search.Condition{Field: "released", Lookup: search.LookupExact, Value: day})
	require.NoError(t, err)
	sql, _, err := cond.ToSql()
	require.NoError(t, err)
	require.Equal(t, "released::date = ?::date", sql)

	cond, err = b.Condition(search.Condition{Field: "name", Lookup: search.LookupIRegex, Value: "^bo+t"})
	require.NoError(t, err)
	sql, args, err := cond.ToSql()
	require.NoError(t, err)
	require.Equal(t, "name ~* ?", sql)
	require.Equal(t, []any{"^bo+t"}, args)
}

func TestBuilder_RejectsUnknownColumns(t *testing.T) {
	b := products(t)

	_, err := b.Select(store.Query{Table: "products", Ordering: []string{"secret"}})
	require.ErrorIs(t, err, pgstore.ErrUnknownColumn)

	_, err = b.Condition(search.Condition{Field: "name; drop table products", Value: "x"})
	require.ErrorIs(t, err, pgstore.ErrUnknownColumn)

	_, err = b.Distinct("missing")
	require.ErrorIs(t, err, pgstore.ErrUnknownColumn)

	_, err = pgstore.NewBuilder(pgstore.Table{Name: "products;"})
	require.Error(t, err)
}

func TestBuilder_Upsert(t *testing.T) {
	b := products(t)

	ins, err := b.Upsert(store.Record{"id": 7, "name": "Cap", "price": 15})
	require.NoError(t, err)
	sql, args, err := ins.ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "INSERT INTO products")
	require.Contains(t, sql, "ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price RETURNING id, name, sku, price, brand, released")
	require.Equal(t, []any{7, "Cap", 15}, args)

	ins, err = b.Upsert(store.Record{"id": "", "name": "Cap"})
	require.NoError(t, err)
	sql, args, err = ins.ToSql()
	require.NoError(t, err)
	require.NotContains(t, sql, "ON CONFLICT")
	require.Contains(t, sql, "RETURNING id")
	require.Equal(t, []any{"Cap"}, args)

	_, err = b.Upsert(store.Record{"unknown": 1})
	require.ErrorIs(t, err, pgstore.ErrUnknownColumn)
}

func TestBuilder_DeleteAndDistinct(t *testing.T) {
	b := products(t)

	sql, args, err := b.Delete(7).ToSql()
	require.NoError(t, err)
	require.Equal(t, "DELETE FROM products WHERE id = $1", sql)
	require.Equal(t, []any{7}, args)

	qb, err := b.Distinct("brand")
	require.NoError(t, err)
	sql, _, err = qb.ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT DISTINCT brand FROM products WHERE brand IS NOT NULL ORDER BY brand", sql)
}

func TestBuilder_DistinctLabels(t *testing.T) {
	b := products(t)

	qb, err := b.DistinctLabels("sku", "name")
	require.NoError(t, err)
	sql, _, err := qb.ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT sku, min(NULLIF(btrim(name::text), '')) FROM products WHERE sku IS NOT NULL GROUP BY sku ORDER BY sku", sql)

	_, err = b.DistinctLabels("sku", "name; drop table products")
	require.ErrorIs(t, err, pgstore.ErrUnknownColumn)
}

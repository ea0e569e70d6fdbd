package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goliatone/go-listviews/pkg/store"
)

// Conn is the subset of pgx shared by pools and transactions.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txCtxKeyT int8

const txCtxKey = txCtxKeyT(1)

// Store implements store.Store, store.Getter, store.Saver, store.TxManager,
// store.Distincter and store.LabelDistincter on a pgx pool.
type Store struct {
	pool     *pgxpool.Pool
	builders map[string]*Builder
}

// New returns a store for the given tables.
func New(pool *pgxpool.Pool, tables ...Table) (*Store, error) {
	s := &Store{pool: pool, builders: make(map[string]*Builder, len(tables))}
	for _, t := range tables {
		b, err := NewBuilder(t)
		if err != nil {
			return nil, err
		}
		s.builders[t.Name] = b
	}
	return s, nil
}

func (s *Store) builder(table string) (*Builder, error) {
	b, ok := s.builders[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownTable, table)
	}
	return b, nil
}

// conn returns the transaction carried by ctx, or the pool.
func (s *Store) conn(ctx context.Context) Conn {
	if tx, ok := ctx.Value(txCtxKey).(pgx.Tx); ok && tx != nil {
		return tx
	}
	return s.pool
}

// List implements store.Store.
func (s *Store) List(ctx context.Context, q store.Query) ([]store.Record, error) {
	b, err := s.builder(q.Table)
	if err != nil {
		return nil, err
	}
	qb, err := b.Select(q)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("pgstore: build list query: %w", err)
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list %s: %w", q.Table, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("pgstore: scan %s: %w", q.Table, err)
	}
	out := make([]store.Record, len(maps))
	for i, m := range maps {
		out[i] = store.Record(m)
	}
	return out, nil
}

// Count implements store.Store.
func (s *Store) Count(ctx context.Context, q store.Query) (int, error) {
	b, err := s.builder(q.Table)
	if err != nil {
		return 0, err
	}
	qb, err := b.Count(q)
	if err != nil {
		return 0, err
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("pgstore: build count query: %w", err)
	}
	var total int64
	if err := s.conn(ctx).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("pgstore: count %s: %w", q.Table, err)
	}
	return int(total), nil
}

// Get implements store.Getter.
func (s *Store) Get(ctx context.Context, table string, pk any) (store.Record, error) {
	b, err := s.builder(table)
	if err != nil {
		return nil, err
	}
	query, args, err := b.Get(pk).ToSql()
	if err != nil {
		return nil, fmt.Errorf("pgstore: build get query: %w", err)
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: get %s: %w", table, err)
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %v", store.ErrNotFound, table, pk)
		}
		return nil, fmt.Errorf("pgstore: get %s: %w", table, err)
	}
	return store.Record(rec), nil
}

// Save implements store.Saver.
func (s *Store) Save(ctx context.Context, table string, rec store.Record) (store.Record, error) {
	b, err := s.builder(table)
	if err != nil {
		return nil, err
	}
	ins, err := b.Upsert(rec)
	if err != nil {
		return nil, err
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return nil, fmt.Errorf("pgstore: build save query: %w", err)
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: save %s: %w", table, err)
	}
	saved, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("pgstore: save %s: %w", table, err)
	}
	return store.Record(saved), nil
}

// Delete implements store.Saver.
func (s *Store) Delete(ctx context.Context, table string, pk any) error {
	b, err := s.builder(table)
	if err != nil {
		return err
	}
	query, args, err := b.Delete(pk).ToSql()
	if err != nil {
		return fmt.Errorf("pgstore: build delete query: %w", err)
	}
	tag, err := s.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("pgstore: delete %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %v", store.ErrNotFound, table, pk)
	}
	return nil
}

// Distinct implements store.Distincter.
func (s *Store) Distinct(ctx context.Context, table, column string) ([]any, error) {
	b, err := s.builder(table)
	if err != nil {
		return nil, err
	}
	qb, err := b.Distinct(column)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("pgstore: build distinct query: %w", err)
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: distinct %s.%s: %w", table, column, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[any])
	if err != nil {
		return nil, fmt.Errorf("pgstore: scan distinct %s.%s: %w", table, column, err)
	}
	return values, nil
}

// DistinctLabels implements store.LabelDistincter.
func (s *Store) DistinctLabels(ctx context.Context, table, column, labelColumn string) ([]store.Choice, error) {
	b, err := s.builder(table)
	if err != nil {
		return nil, err
	}
	qb, err := b.DistinctLabels(column, labelColumn)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("pgstore: build distinct labels query: %w", err)
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: distinct %s.%s: %w", table, column, err)
	}
	choices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Choice, error) {
		var (
			value any
			label *string
		)
		if err := row.Scan(&value, &label); err != nil {
			return store.Choice{}, err
		}
		c := store.Choice{Value: value, Label: fmt.Sprint(value)}
		if label != nil {
			c.Label = *label
		}
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("pgstore: scan distinct %s.%s: %w", table, column, err)
	}
	return choices, nil
}

// TxFn implements store.TxManager. Nested calls reuse the transaction already
// carried by ctx.
func (s *Store) TxFn(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txCtxKey).(pgx.Tx); ok && tx != nil {
		return fn(ctx)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgstore: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(context.WithValue(ctx, txCtxKey, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pgstore: commit transaction: %w", err)
	}
	return nil
}

// Config holds pool settings.
type Config struct {
	DSN             string        `mapstructure:"dsn"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// Connect opens and pings a pool.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgstore: parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("pgstore: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}
	return pool, nil
}

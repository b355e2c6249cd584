package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CollectionsTable holds one row per collection key
const CollectionsTable = "portal_collections"

// PostgresBackend stores collections as JSONB rows
type PostgresBackend struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewPostgresBackend creates a backend on an already migrated pool
func NewPostgresBackend(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get implements Backend
func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := b.sb.Select("value::text").
		From(CollectionsTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var value string
	if err := b.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set implements Backend
func (b *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := b.sb.Insert(CollectionsTable).
		Columns("key", "value", "updated_at").
		Values(key, squirrel.Expr("?::jsonb", string(value)), squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := b.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete implements Backend
func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	query, args, err := b.sb.Delete(CollectionsTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := b.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close implements Backend. The pool is owned by the caller.
func (b *PostgresBackend) Close() error {
	return nil
}

// Name implements Backend
func (b *PostgresBackend) Name() string {
	return "postgres"
}

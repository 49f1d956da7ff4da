package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gouravdhdb/storefront/internal/port"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgKV struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Postgres-backed store over the storefront_kv table.
func NewPostgres(pool *pgxpool.Pool) port.Store {
	return &kvStore{kv: &pgKV{pool: pool}}
}

// EnsureSchema creates the storefront_kv table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS storefront_kv (
  key text PRIMARY KEY,
  value jsonb NOT NULL
);`)
	return err
}

func (p *pgKV) get(ctx context.Context, key string) ([]byte, bool, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM storefront_kv WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return raw, true, nil
}

func (p *pgKV) put(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO storefront_kv(key, value) VALUES($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}

func (p *pgKV) del(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM storefront_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobboard/internal/config"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	key TEXT PRIMARY KEY,
	value BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresKV keeps snapshots in a shared database, for clients that run
// as several processes against one identity.
type PostgresKV struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*PostgresKV, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(cfg.DBHost),
		strings.TrimSpace(cfg.DBPort),
		strings.TrimSpace(cfg.DBUser),
		cfg.DBPassword,
		strings.TrimSpace(cfg.DBName),
		strings.TrimSpace(cfg.DBSSLMode),
	)

	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.ConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.PoolMaxConns > 0 {
		pcfg.MaxConns = cfg.PoolMaxConns
	}

	p, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := p.Ping(pingCtx); err != nil {
		p.Close()
		return nil, err
	}
	if _, err := p.Exec(ctx, postgresSchema); err != nil {
		p.Close()
		return nil, fmt.Errorf("create kv_store: %w", err)
	}
	return &PostgresKV{pool: p}, nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if p == nil || p.pool == nil {
		return nil, false, ErrClosed
	}
	var b []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	if p == nil || p.pool == nil {
		return ErrClosed
	}
	_, err := p.pool.Exec(ctx, `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value)
	return err
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	if p == nil || p.pool == nil {
		return ErrClosed
	}
	_, err := p.pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	return err
}

func (p *PostgresKV) Close() error {
	if p == nil || p.pool == nil {
		return nil
	}
	p.pool.Close()
	return nil
}

var _ KV = (*PostgresKV)(nil)

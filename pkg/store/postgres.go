package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore implements Store on PostgreSQL so cache entries
// survive process restarts.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ Store = (*PostgresStore)(nil)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv_entries (
		namespace  TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (namespace, key)
	)`

// NewPostgresStore connects to PostgreSQL and ensures the key-value
// schema exists.
func NewPostgresStore(ctx context.Context, connStr string, logger *zap.Logger) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := pool.Exec(ctx, createKVTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &PostgresStore{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close releases all database resources.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Get returns the value stored under (namespace, key).
func (s *PostgresStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	query := `SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`

	var value []byte
	err := s.pool.QueryRow(ctx, query, namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading kv entry: %w", err)
	}
	return value, nil
}

// Set stores value under (namespace, key), replacing any prior entry.
func (s *PostgresStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	if _, err := s.pool.Exec(ctx, query, namespace, key, value); err != nil {
		return fmt.Errorf("writing kv entry: %w", err)
	}
	return nil
}

// Clear removes every entry in a namespace.
func (s *PostgresStore) Clear(ctx context.Context, namespace string) error {
	query := `DELETE FROM kv_entries WHERE namespace = $1`

	tag, err := s.pool.Exec(ctx, query, namespace)
	if err != nil {
		return fmt.Errorf("clearing namespace: %w", err)
	}

	s.logger.Debug("Cleared namespace",
		zap.String("namespace", namespace),
		zap.Int64("removed", tag.RowsAffected()))
	return nil
}

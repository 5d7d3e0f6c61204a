package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamkit/roster/internal/apperrors"
)

// Postgres keeps the blob contract over a two-column key/value table, for
// deployments that already run a database instead of a local file.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dsn, verifies the connection and creates the
// collections table if it does not exist.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS collections (
			key  TEXT PRIMARY KEY,
			data BYTEA NOT NULL
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create collections table: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

// Get returns the stored blob for key, or (nil, nil) when absent.
func (s *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM collections WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &apperrors.StorageError{Op: "get", Key: key, Err: err}
	}
	return data, nil
}

// Set upserts the blob for key.
func (s *Postgres) Set(ctx context.Context, key string, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO collections (key, data) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data`, key, data)
	if err != nil {
		return &apperrors.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Package db provides PostgreSQL persistence for learning maps.
//
// Documents are validated against an embedded JSON Schema before they
// are written, so a schema violation is distinguishable from a generic
// storage failure.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrMalformedID indicates a lookup identifier that is not a valid UUID.
var ErrMalformedID = errors.New("malformed learning map id")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the learning_maps table if it does not exist.
// gen_random_uuid requires PostgreSQL 13+.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS learning_maps (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			topic text NOT NULL,
			level text NOT NULL,
			branches jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

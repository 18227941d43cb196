package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	mu   sync.Mutex
)

// Schema creates the snapshot table used by SnapshotCache.
const Schema = `
CREATE TABLE IF NOT EXISTS xbrl_snapshots (
	digest       TEXT PRIMARY KEY,
	id           TEXT NOT NULL,
	source       TEXT,
	fact_count   INTEGER,
	data         JSONB NOT NULL,
	extracted_at TIMESTAMPTZ NOT NULL
);`

// InitDB initializes the database connection pool using the DATABASE_URL environment variable.
// The pool is only kept once the schema statement succeeds, so a failed call leaves GetPool nil
// and may be retried.
func InitDB(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		return nil
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	p, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	// the pool connects lazily; this is the first real round trip
	if _, err := p.Exec(ctx, Schema); err != nil {
		p.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	pool = p
	return nil
}

// GetPool returns the database connection pool, or nil when InitDB has not succeeded
func GetPool() *pgxpool.Pool {
	mu.Lock()
	defer mu.Unlock()
	return pool
}

// Close closes the database connection pool
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		pool.Close()
		pool = nil
	}
}

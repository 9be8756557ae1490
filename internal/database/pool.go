// Package database provides PostgreSQL connection pooling
// using pgx, plus schema bootstrap for the portal's tables.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a new PostgreSQL connection pool with optimized settings
func NewPool(databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return pool, nil
}

// Migrate creates the portal's tables when they do not exist yet.
// Complaints are JSONB documents with the creation timestamp mirrored
// into a plain column for range predicates and ordering.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS complaints (
			id  UUID PRIMARY KEY,
			ts  BIGINT NOT NULL,
			doc JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS complaints_ts_idx ON complaints (ts DESC)`,
		`CREATE INDEX IF NOT EXISTS complaints_uid_idx ON complaints ((doc->>'uid'), ts DESC)`,
		`CREATE INDEX IF NOT EXISTS complaints_location_idx ON complaints ((doc->>'locationType'), ts DESC)`,
		`CREATE TABLE IF NOT EXISTS users (
			reg_no TEXT PRIMARY KEY,
			doc    JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS student_directory (
			reg_no TEXT PRIMARY KEY,
			name   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS complaint_events (
			id           UUID PRIMARY KEY,
			complaint_id UUID NOT NULL,
			event_type   TEXT NOT NULL,
			actor        TEXT NOT NULL,
			detail       TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS complaint_events_cid_idx ON complaint_events (complaint_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

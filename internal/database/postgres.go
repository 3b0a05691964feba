package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect creates a connection pool to the calendar database
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB config: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create DB pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return pool, nil
}

var bootstrapStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT,
		phone TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS schedule (
		id BIGSERIAL PRIMARY KEY,
		switch_date DATE UNIQUE NOT NULL,
		parent_after TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS day_comments (
		date DATE PRIMARY KEY,
		comment TEXT NOT NULL,
		author TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS proposal (
		id BIGSERIAL PRIMARY KEY,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_by TEXT NOT NULL,
		last_updated_by TEXT NOT NULL,
		jennifer_accepted BOOLEAN NOT NULL DEFAULT false,
		klas_accepted BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS proposal_entries (
		id BIGSERIAL PRIMARY KEY,
		proposal_id BIGINT NOT NULL REFERENCES proposal(id) ON DELETE CASCADE,
		switch_date DATE NOT NULL,
		parent_after TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS proposal_day_comments (
		id BIGSERIAL PRIMARY KEY,
		proposal_id BIGINT NOT NULL REFERENCES proposal(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		comment TEXT NOT NULL,
		author TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS proposal_comments (
		id BIGSERIAL PRIMARY KEY,
		author TEXT NOT NULL,
		comment TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS draft_proposals (
		id BIGSERIAL PRIMARY KEY,
		owner TEXT UNIQUE NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT false,
		is_sent BOOLEAN NOT NULL DEFAULT false,
		schedule_data TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`INSERT INTO draft_proposals (owner) VALUES ('Jennifer'), ('Klas')
		ON CONFLICT (owner) DO NOTHING`,
}

// Migrate applies the schema at startup. Every statement is idempotent so
// running it against an existing database is a no-op.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range bootstrapStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

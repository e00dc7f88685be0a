package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// migrations are applied in order, once each, tracked in schema_migrations.
// New schema changes append a statement; existing entries are immutable.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS agents (
        id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
        name                 TEXT NOT NULL,
        description          TEXT NOT NULL,
        detailed_description TEXT,
        version              TEXT NOT NULL DEFAULT '1.0.0',
        logo_url             TEXT,
        input_format         TEXT,
        output_format        TEXT,
        creator_id           TEXT,
        capabilities         TEXT[],
        categories           TEXT[],
        dependencies         TEXT[],
        performance_score    DOUBLE PRECISION,
        reliability_score    DOUBLE PRECISION,
        latency              INTEGER,
        documentation_url    TEXT,
        demo_url             TEXT,
        api_endpoint         TEXT,
        example_request      TEXT,
        example_response     TEXT,
        created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_agents_created_at ON agents (created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_agents_categories ON agents USING GIN (categories)`,
	`CREATE INDEX IF NOT EXISTS idx_agents_capabilities ON agents USING GIN (capabilities)`,
	`CREATE TABLE IF NOT EXISTS activities (
        id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
        user_id      TEXT NOT NULL,
        user_name    TEXT NOT NULL,
        action       TEXT NOT NULL,
        subject_id   TEXT NOT NULL,
        subject_name TEXT NOT NULL,
        created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS settings (
        key        TEXT PRIMARY KEY,
        value      JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
}

// Migrate applies any pending schema migrations on the given connection.
// Safe to run concurrently across processes: an advisory lock serializes
// migration runs.
func Migrate(ctx context.Context, conn *pgx.Conn) error {
	const lockKey int64 = 0x6f6e6561 // "onea"
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", lockKey); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", lockKey)
	}()

	if _, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
        version    INTEGER PRIMARY KEY,
        applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var current int
	if err := conn.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		if _, err := conn.Exec(ctx, migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := conn.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}

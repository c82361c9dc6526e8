package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables and indexes if they don't exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL,
				config JSONB NOT NULL,
				created_by TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMPTZ
			)
		`, tables.Sites),
		// names are unique among live sites only, so a deleted name can be reused
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_%ssites_name_live ON %s (name) WHERE deleted_at IS NULL`,
			tables.Prefix, tables.Sites),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%ssites_updated_at ON %s (updated_at DESC) WHERE deleted_at IS NULL`,
			tables.Prefix, tables.Sites),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropTables drops every table owned by this prefix.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) error {
	for _, table := range []string{tables.Sites} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
		logger.Info("dropped table", "table", table)
	}
	return nil
}

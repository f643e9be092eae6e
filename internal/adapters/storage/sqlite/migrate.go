package sqlite

import (
	"context"
	"fmt"
	"log/slog"
)

type migration struct {
	version int
	stmts   []string
}

// migrations run in order; PRAGMA user_version records the last applied.
var migrations = []migration{
	{
		version: 1,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS document (
				name TEXT PRIMARY KEY,
				body TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS backup_log (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				file TEXT NOT NULL,
				checksum TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_backup_log_created_at ON backup_log(created_at)`,
		},
	},
}

// LatestSchemaVersion returns the schema version Migrate brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// Migrate applies pending schema migrations.
// PRE: db is open
// POST: user_version equals LatestSchemaVersion
func Migrate(ctx context.Context, db SQLDB) error {
	var current int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		for _, stmt := range m.stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d: %w", m.version, err)
			}
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
		slog.Info("schema_migrated", "version", m.version)
	}
	return nil
}

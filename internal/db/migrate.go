package db

import (
	"database/sql"
	"fmt"
)

// migrations holds the full schema. Statements are idempotent so the list
// can re-run on every open.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		entry_id INTEGER NOT NULL,
		project_id INTEGER NOT NULL,
		workspace_id INTEGER NOT NULL,
		description TEXT NOT NULL,
		start TEXT NOT NULL,
		stop TEXT NOT NULL,
		submitted_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at
		ON submissions(submitted_at)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations are applied in order on every open. Statements must stay
// re-runnable; ALTER TABLE duplicates are tolerated below.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		input_path TEXT NOT NULL DEFAULT '',
		work_order_count INTEGER NOT NULL,
		work_center_count INTEGER NOT NULL,
		change_count INTEGER NOT NULL,
		explanation TEXT NOT NULL,
		output_json BLOB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS run_changes (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		work_order_id TEXT NOT NULL,
		work_order_number TEXT NOT NULL,
		work_center_id TEXT NOT NULL,
		old_start TEXT NOT NULL,
		old_end TEXT NOT NULL,
		new_start TEXT NOT NULL,
		new_end TEXT NOT NULL,
		start_delta_minutes INTEGER NOT NULL,
		end_delta_minutes INTEGER NOT NULL,
		reasons TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC)`,
}

// Migrate runs all schema migrations.
func Migrate(database *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := database.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

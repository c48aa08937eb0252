package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migration is a named schema change applied at most once.
type Migration struct {
	Name string
	Up   string
}

// Migrations is the schema of the commit cache.
var Migrations = []Migration{
	{
		Name: "create_commits_table",
		Up: `
			CREATE TABLE IF NOT EXISTS commits (
				repo TEXT NOT NULL,
				hash TEXT NOT NULL,
				seq INTEGER NOT NULL,
				tree_hash TEXT NOT NULL,
				date TEXT NOT NULL,
				message TEXT NOT NULL,
				additions INTEGER NOT NULL DEFAULT 0,
				deletions INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (repo, hash)
			);
		`,
	},
	{
		Name: "create_changes_table",
		Up: `
			CREATE TABLE IF NOT EXISTS changes (
				repo TEXT NOT NULL,
				hash TEXT NOT NULL,
				path TEXT NOT NULL,
				sha TEXT NOT NULL,
				status TEXT NOT NULL,
				additions INTEGER NOT NULL,
				deletions INTEGER NOT NULL,
				previous_path TEXT NOT NULL DEFAULT '',
				PRIMARY KEY (repo, hash, path)
			);
		`,
	},
	{
		Name: "create_diffed_table",
		Up: `
			CREATE TABLE IF NOT EXISTS diffed (
				repo TEXT NOT NULL,
				hash TEXT NOT NULL,
				tree_hash TEXT NOT NULL,
				date TEXT NOT NULL,
				message TEXT NOT NULL,
				additions INTEGER NOT NULL,
				deletions INTEGER NOT NULL,
				PRIMARY KEY (repo, hash)
			);
		`,
	},
}

// Migrate applies the migrations that have not run yet, in order.
func Migrate(db *sqlx.DB, migrations []Migration) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []string
	if err := db.Select(&applied, "SELECT name FROM migrations"); err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, name := range applied {
		done[name] = true
	}

	for _, m := range migrations {
		if done[m.Name] {
			continue
		}
		tx, err := db.Beginx()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", m.Name); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
	}
	return nil
}

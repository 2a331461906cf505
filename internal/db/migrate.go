package db

import (
	"database/sql"
	"fmt"
)

// All contains the ordered list of migrations to apply.
var All = []string{
	`CREATE TABLE features (
		id         INTEGER PRIMARY KEY,
		file_path  TEXT UNIQUE NOT NULL,
		name       TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE steps (
		id            INTEGER PRIMARY KEY,
		feature_id    INTEGER NOT NULL REFERENCES features(id) ON DELETE CASCADE,
		scenario      TEXT NOT NULL,
		scenario_line INTEGER NOT NULL,
		line          INTEGER NOT NULL,
		keyword       TEXT NOT NULL,
		kind          TEXT NOT NULL,
		text          TEXT NOT NULL,
		outcome       TEXT NOT NULL,
		reason        TEXT NOT NULL,
		handler       TEXT NOT NULL DEFAULT '',
		candidates    TEXT NOT NULL DEFAULT '',
		message       TEXT NOT NULL DEFAULT '',
		synced_at     DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE INDEX steps_outcome ON steps(outcome)`,
	`CREATE TABLE parse_errors (
		id         INTEGER PRIMARY KEY,
		feature_id INTEGER NOT NULL REFERENCES features(id) ON DELETE CASCADE,
		line       INTEGER NOT NULL,
		message    TEXT NOT NULL
	)`,
}

func Migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)
	if err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return fmt.Errorf("checking schema_version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("initializing schema version: %w", err)
		}
	}

	var current int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(All); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(All[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}

		if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("updating schema version to %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}

	return nil
}

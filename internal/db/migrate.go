package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is idempotent so the whole
// list runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS trips (
		id              TEXT PRIMARY KEY,
		language        TEXT NOT NULL DEFAULT 'english'
		                CHECK(language IN ('english','chinese')),
		from_location   TEXT,
		to_location     TEXT,
		traveling_with  TEXT,
		travel_when     TEXT,
		duration        TEXT,
		purpose         TEXT,
		transportation  TEXT,
		description     TEXT,
		confirmed       INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_created_at ON trips(created_at)`,

	`CREATE TABLE IF NOT EXISTS trip_turns (
		trip_id  TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		seq      INTEGER NOT NULL,
		role     TEXT NOT NULL CHECK(role IN ('user','assistant')),
		content  TEXT NOT NULL,
		PRIMARY KEY (trip_id, seq)
	)`,

	`CREATE TABLE IF NOT EXISTS itineraries (
		trip_id     TEXT PRIMARY KEY REFERENCES trips(id) ON DELETE CASCADE,
		model       TEXT NOT NULL DEFAULT '',
		raw         TEXT NOT NULL,
		markdown    TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`,
}

package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

// The dirs and bookmarks layout is the on-disk contract shared with earlier
// releases of the tool; new columns go in new migrations, never here.
var migrations = []migration{
	{
		Version:     1,
		Description: "dirs and bookmarks",
		SQL: `
CREATE TABLE IF NOT EXISTS dirs (
    path         TEXT PRIMARY KEY,
    last_access  INTEGER NOT NULL,
    visits_total INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bookmarks (
    name         TEXT PRIMARY KEY,
    path         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dirs_visits ON dirs(visits_total DESC);
CREATE INDEX IF NOT EXISTS idx_dirs_access ON dirs(last_access DESC);
`,
	},
	{
		// SQLite orders every INTEGER before every TEXT, so a text timestamp
		// left by an older release would sort as newer than any real visit.
		// Unparseable values become 0 and are evicted first.
		Version:     2,
		Description: "normalise text last_access to unix seconds",
		SQL: `
UPDATE dirs
SET last_access = COALESCE(CAST(strftime('%s', last_access) AS INTEGER), 0)
WHERE typeof(last_access) = 'text';
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		// OR IGNORE: a second process may have applied the same migration
		// between our check and this insert.
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}

package store

import "database/sql"

// Schema is the base cache schema. Column names and the uniqueness
// constraints are load-bearing: external consumers read these tables
// directly, so they must not change shape.
const Schema = `
-- Search result cache: one row per (query, url), replaced on conflict
CREATE TABLE IF NOT EXISTS search_results (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    query         TEXT NOT NULL,
    url           TEXT NOT NULL,
    title         TEXT NOT NULL DEFAULT '',
    snippet       TEXT NOT NULL DEFAULT '',
    timestamp     INTEGER NOT NULL,
    search_engine TEXT NOT NULL DEFAULT 'duckduckgo'
);
CREATE INDEX IF NOT EXISTS idx_search_results_lookup
    ON search_results(query, search_engine, timestamp DESC);

-- Extracted content cache: one row per url, replaced wholesale on conflict
CREATE TABLE IF NOT EXISTS extracted_content (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    url          TEXT NOT NULL UNIQUE,
    content      TEXT NOT NULL,
    content_type TEXT NOT NULL,
    title        TEXT NOT NULL DEFAULT '',
    timestamp    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extracted_content_time
    ON extracted_content(timestamp DESC);
`

// Migration001UniqueQueryURL enforces the (query, url) upsert key.
// Identity is deliberately not engine-scoped: a later write for the same
// (query, url) replaces the earlier one even across engines.
const Migration001UniqueQueryURL = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_search_results_query_url
    ON search_results(query, url);
`

// Qualifier columns added after the initial schema shipped. Each is applied
// only when pragma_table_info reports the column missing, never by running
// ALTER and swallowing duplicate-column errors.
const (
	Migration002SiteFilter = `ALTER TABLE search_results ADD COLUMN site_filter TEXT NOT NULL DEFAULT '';`
	Migration003FileType   = `ALTER TABLE search_results ADD COLUMN file_type TEXT NOT NULL DEFAULT '';`
	Migration004DateRange  = `ALTER TABLE search_results ADD COLUMN date_range TEXT NOT NULL DEFAULT '';`
)

// ApplySchema creates the cache tables and applies all migration steps in
// order. Safe to run at every startup.
func ApplySchema(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return err
	}
	if _, err := db.Exec(Migration001UniqueQueryURL); err != nil {
		return err
	}
	for _, step := range []struct {
		column string
		ddl    string
	}{
		{"site_filter", Migration002SiteFilter},
		{"file_type", Migration003FileType},
		{"date_range", Migration004DateRange},
	} {
		if err := applyColumnMigration(db, "search_results", step.column, step.ddl); err != nil {
			return err
		}
	}
	return nil
}

// applyColumnMigration adds a column if it doesn't exist (idempotent).
func applyColumnMigration(db *sql.DB, table, column, ddl string) error {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = db.Exec(ddl)
	return err
}

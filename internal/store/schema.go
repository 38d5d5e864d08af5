package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at TEXT,
    mode TEXT,
    min_len INTEGER,
    min_occ INTEGER,
    documents INTEGER,
    units INTEGER,
    repeats INTEGER
);

CREATE TABLE IF NOT EXISTS documents (
    run_id TEXT,
    doc_idx INTEGER,
    name TEXT
);

CREATE TABLE IF NOT EXISTS repeats (
    id INTEGER PRIMARY KEY,
    run_id TEXT,
    doc_idx INTEGER,
    start INTEGER,
    len INTEGER,
    occurrences INTEGER,
    text TEXT
);

CREATE TABLE IF NOT EXISTS locations (
    repeat_id INTEGER,
    doc_idx INTEGER,
    start INTEGER
);

CREATE INDEX IF NOT EXISTS idx_repeats_run ON repeats(run_id);
CREATE INDEX IF NOT EXISTS idx_locations_repeat ON locations(repeat_id);
`

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single connection; sqlite allows one writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// Package store provides the SQLite backing store for sample identity
// and usage tracking.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS samples (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	filename         TEXT NOT NULL,
	path             TEXT NOT NULL UNIQUE,
	checksum         TEXT NOT NULL DEFAULT '',
	title            TEXT NOT NULL DEFAULT '',
	artist           TEXT NOT NULL DEFAULT '',
	duration         REAL NOT NULL DEFAULT 0,
	sample_rate      INTEGER,
	bpm              INTEGER,
	key              TEXT,
	spectrogram_path TEXT,
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sample_usage (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	sample_id  INTEGER NOT NULL REFERENCES samples(id),
	user_id    INTEGER NOT NULL,
	project_id INTEGER NOT NULL,
	used_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_usage_sample ON sample_usage(sample_id);
CREATE INDEX IF NOT EXISTS idx_usage_project ON sample_usage(project_id);
`

// DB wraps a sql.DB with sample-store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Package sqlite provides a SQLite-backed cache of manual index entries.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// schemaVersion is stored in PRAGMA user_version. The database only holds
// derived data, so a database written under another version is dropped and
// rebuilt rather than migrated.
const schemaVersion = 1

// DB is the SQLite database holding the index cache.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB stored at path. Use ":memory:" for a database that
// lives only as long as the connection.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// pragmas are applied to every new connection, in order. The journal
// mode is skipped for in-memory databases, which do not support WAL.
var pragmas = []struct {
	name, stmt string
	fileOnly   bool
}{
	// Wait for a competing writer instead of failing with "database is locked".
	{name: "busy timeout", stmt: "PRAGMA busy_timeout = 5000"},
	// Readers of one manual's entries do not block a save of another's.
	{name: "WAL mode", stmt: "PRAGMA journal_mode = WAL", fileOnly: true},
	// Deleting a manual row cascades to its index entries.
	{name: "foreign keys", stmt: "PRAGMA foreign_keys = ON"},
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one connection keeps saves serialized.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, p := range pragmas {
		if p.fileOnly && db.path == ":memory:" {
			continue
		}
		if _, err := conn.Exec(p.stmt); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set %s: %w", p.name, err)
		}
	}

	db.db = conn
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext runs a query expected to return at most one row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext runs a query returning any number of rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext runs a statement without returning rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// createSchema creates the cache tables, dropping those written under a
// different schema version first.
func (db *DB) createSchema() error {
	var version int
	if err := db.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version != 0 && version != schemaVersion {
		if _, err := db.db.Exec(`
			DROP TABLE IF EXISTS index_entries;
			DROP TABLE IF EXISTS manuals;
		`); err != nil {
			return fmt.Errorf("failed to drop cache of schema version %d: %w", version, err)
		}
	}

	if _, err := db.db.Exec(`
		CREATE TABLE IF NOT EXISTS manuals (
			path TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			entries_hash TEXT NOT NULL DEFAULT '',
			indexed_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS index_entries (
			id TEXT PRIMARY KEY,
			manual_path TEXT NOT NULL REFERENCES manuals(path) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			manual TEXT NOT NULL,
			entry TEXT NOT NULL,
			node TEXT NOT NULL,
			line INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_index_entries_manual_path ON index_entries(manual_path, position);
	`); err != nil {
		return err
	}

	_, err := db.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

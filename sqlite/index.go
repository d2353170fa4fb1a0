package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fwojciec/infodoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ infodoc.IndexCache = (*IndexCache)(nil)

// IndexCache implements infodoc.IndexCache using SQLite. Entries are stored
// per manual path and are only returned while the manual's fingerprint
// matches the one they were saved under.
type IndexCache struct {
	db *DB
}

// NewIndexCache creates a new IndexCache.
func NewIndexCache(db *DB) *IndexCache {
	return &IndexCache{db: db}
}

// IndexedManual describes the cached index of one manual.
type IndexedManual struct {
	Path        string
	Name        string
	Fingerprint string
	EntriesHash string
	Entries     int
	IndexedAt   time.Time
}

// FindIndexEntries returns the cached entries of m.
// Returns ENOTFOUND if nothing is cached for m or the cached entries were
// saved under a different fingerprint.
func (c *IndexCache) FindIndexEntries(ctx context.Context, m *infodoc.Manual) ([]infodoc.IndexEntry, error) {
	var fingerprint string
	err := c.db.QueryRowContext(ctx, `
		SELECT fingerprint FROM manuals WHERE path = ?
	`, m.Path).Scan(&fingerprint)
	if err == sql.ErrNoRows {
		return nil, infodoc.Errorf(infodoc.ENOTFOUND, "no cached index for %s", m.Name)
	}
	if err != nil {
		return nil, err
	}
	if fingerprint != m.Fingerprint {
		return nil, infodoc.Errorf(infodoc.ENOTFOUND, "cached index for %s is stale", m.Name)
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT manual, entry, node, line
		FROM index_entries
		WHERE manual_path = ?
		ORDER BY position ASC
	`, m.Path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []infodoc.IndexEntry{}
	for rows.Next() {
		var e infodoc.IndexEntry
		if err := rows.Scan(&e.Manual, &e.Entry, &e.Node, &e.Line); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveIndexEntries replaces the cached entries of m. When the entries are
// unchanged from the cached ones only the fingerprint is refreshed.
func (c *IndexCache) SaveIndexEntries(ctx context.Context, m *infodoc.Manual, entries []infodoc.IndexEntry) error {
	if err := m.Validate(); err != nil {
		return err
	}
	hash := hashEntries(entries)
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var prev string
	cached := true
	err = tx.QueryRowContext(ctx, `SELECT entries_hash FROM manuals WHERE path = ?`, m.Path).Scan(&prev)
	if err == sql.ErrNoRows {
		cached = false
	} else if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO manuals (path, name, fingerprint, entries_hash, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			fingerprint = excluded.fingerprint,
			entries_hash = excluded.entries_hash,
			indexed_at = excluded.indexed_at
	`, m.Path, m.Name, m.Fingerprint, hash, now); err != nil {
		return err
	}

	if cached && prev == hash {
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM index_entries WHERE manual_path = ?`, m.Path); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_entries (id, manual_path, position, manual, entry, node, line)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), m.Path, i, e.Manual, e.Entry, e.Node, e.Line); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// FindIndexedManuals lists every manual with a cached index, by name.
func (c *IndexCache) FindIndexedManuals(ctx context.Context) ([]*IndexedManual, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT m.path, m.name, m.fingerprint, m.entries_hash, m.indexed_at,
			(SELECT COUNT(*) FROM index_entries e WHERE e.manual_path = m.path)
		FROM manuals m
		ORDER BY m.name ASC, m.path ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var manuals []*IndexedManual
	for rows.Next() {
		var im IndexedManual
		var indexedAt string
		if err := rows.Scan(&im.Path, &im.Name, &im.Fingerprint, &im.EntriesHash, &indexedAt, &im.Entries); err != nil {
			return nil, err
		}
		if im.IndexedAt, err = parseRFC3339(indexedAt, "indexed_at"); err != nil {
			return nil, err
		}
		manuals = append(manuals, &im)
	}
	return manuals, rows.Err()
}

// DeleteIndexEntries removes the cached index of the manual at path.
// Returns ENOTFOUND if nothing is cached for it.
func (c *IndexCache) DeleteIndexEntries(ctx context.Context, path string) error {
	result, err := c.db.ExecContext(ctx, "DELETE FROM manuals WHERE path = ?", path)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return infodoc.Errorf(infodoc.ENOTFOUND, "no cached index for %s", path)
	}
	return nil
}

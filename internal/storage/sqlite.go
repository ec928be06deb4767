// Package storage keeps canonical entries in a SQLite database.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/matsen/bibconv/internal/bib"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			type TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entries_type ON entries(type);

		-- One row per canonical field
		CREATE TABLE IF NOT EXISTS fields (
			entry_key TEXT NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (entry_key, name)
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Import inserts entries, replacing stored entries that have the same key.
// It returns the number of entries written.
func (d *DB) Import(entries []*bib.Entry) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	entryStmt, err := tx.Prepare(`
		INSERT INTO entries (key, type) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET type = excluded.type
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing entry insert: %w", err)
	}
	defer entryStmt.Close()

	fieldStmt, err := tx.Prepare(`INSERT INTO fields (entry_key, name, value) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing field insert: %w", err)
	}
	defer fieldStmt.Close()

	for _, e := range entries {
		if _, err := entryStmt.Exec(e.Key, e.Type); err != nil {
			return 0, fmt.Errorf("inserting entry %s: %w", e.Key, err)
		}
		if _, err := tx.Exec(`DELETE FROM fields WHERE entry_key = ?`, e.Key); err != nil {
			return 0, fmt.Errorf("clearing fields of %s: %w", e.Key, err)
		}
		for name, value := range e.Fields {
			if _, err := fieldStmt.Exec(e.Key, name, value); err != nil {
				return 0, fmt.Errorf("inserting field %s of %s: %w", name, e.Key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return len(entries), nil
}

// GetByKey retrieves an entry by its citation key.
// Returns nil without error when there is no such entry.
func (d *DB) GetByKey(key string) (*bib.Entry, error) {
	var typ string
	err := d.db.QueryRow(`SELECT type FROM entries WHERE key = ?`, key).Scan(&typ)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting entry %s: %w", key, err)
	}

	e := bib.NewEntry(typ, key)
	rows, err := d.db.Query(`SELECT name, value FROM fields WHERE entry_key = ?`, key)
	if err != nil {
		return nil, fmt.Errorf("getting fields of %s: %w", key, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scanning field: %w", err)
		}
		e.Fields[name] = value
	}
	return e, rows.Err()
}

// ListAll returns stored entries ordered by key, ignoring case.
// An empty typ lists every entry type.
func (d *DB) ListAll(typ string) ([]*bib.Entry, error) {
	query := `
		SELECT e.key, e.type, f.name, f.value
		FROM entries e
		LEFT JOIN fields f ON f.entry_key = e.key`
	var args []interface{}
	if typ != "" {
		query += ` WHERE e.type = ?`
		args = append(args, typ)
	}
	query += ` ORDER BY e.key COLLATE NOCASE, e.key, f.name`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []*bib.Entry
	var current *bib.Entry
	for rows.Next() {
		var key, entryType string
		var name, value sql.NullString
		if err := rows.Scan(&key, &entryType, &name, &value); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		if current == nil || current.Key != key {
			current = bib.NewEntry(entryType, key)
			entries = append(entries, current)
		}
		if name.Valid {
			current.Fields[name.String] = value.String
		}
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

// Delete removes an entry and its fields in one transaction. It reports
// whether the entry existed.
func (d *DB) Delete(key string) (bool, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return false, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM fields WHERE entry_key = ?`, key); err != nil {
		return false, fmt.Errorf("deleting fields of %s: %w", key, err)
	}
	res, err := tx.Exec(`DELETE FROM entries WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("deleting entry %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing delete: %w", err)
	}
	return n > 0, nil
}

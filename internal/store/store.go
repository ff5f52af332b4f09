// Package store persists entry collections in a local SQLite database so
// repeated hull builds do not re-import catalogs from scratch.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/CifLord/phasehull/internal/comp"
	"github.com/CifLord/phasehull/internal/phase"
)

// ErrNotFound is returned when a named entry does not exist in the store.
var ErrNotFound = errors.New("entry not found")

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS entries (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL DEFAULT '',
    formula    TEXT NOT NULL,
    energy     REAL NOT NULL,
    correction REAL NOT NULL DEFAULT 0,
    kind       TEXT NOT NULL DEFAULT 'computed',
    attributes TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_entries_name ON entries(name);
`

// Store wraps a SQLite database of entries in WAL mode.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at dbPath, enables WAL mode and
// busy timeout, and creates the schema tables if they do not exist. Parent
// directories are created as needed.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// Limit to one connection. SQLite only supports a single writer; one
	// connection avoids SQLITE_BUSY contention between pooled connections
	// that each need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add inserts a single entry.
func (s *Store) Add(ctx context.Context, e phase.Entry) error {
	return s.AddAll(ctx, []phase.Entry{e})
}

// AddAll inserts multiple entries in a single transaction. Named entries are
// upserted by name; unnamed entries are always appended, since distinct
// polymorphs of the same formula are legitimate.
func (s *Store) AddAll(ctx context.Context, entries []phase.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const insert = `INSERT INTO entries (name, formula, energy, correction, kind, attributes)
		VALUES (?, ?, ?, ?, ?, ?)`
	const upsert = `UPDATE entries SET formula = ?, energy = ?, correction = ?, kind = ?, attributes = ?
		WHERE name = ?`

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		attrs, err := json.Marshal(attrsOrEmpty(e.Attributes))
		if err != nil {
			return fmt.Errorf("store: encode attributes for %q: %w", e.DisplayName(), err)
		}
		formula := e.Comp.Formula()
		kind := e.Kind
		if kind == "" {
			kind = phase.KindComputed
		}

		if e.Name != "" {
			res, err := tx.ExecContext(ctx, upsert, formula, e.Energy, e.Correction, kind, string(attrs), e.Name)
			if err != nil {
				return fmt.Errorf("store: update entry %q: %w", e.Name, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				continue
			}
		}
		if _, err := tx.ExecContext(ctx, insert, e.Name, formula, e.Energy, e.Correction, kind, string(attrs)); err != nil {
			return fmt.Errorf("store: insert entry %q: %w", e.DisplayName(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit entries: %w", err)
	}
	return nil
}

// All returns every stored entry in insertion order.
func (s *Store) All(ctx context.Context) ([]phase.Entry, error) {
	const q = `SELECT name, formula, energy, correction, kind, attributes FROM entries ORDER BY id`
	return s.queryEntries(ctx, q)
}

// ByName returns the named entry, or ErrNotFound.
func (s *Store) ByName(ctx context.Context, name string) (phase.Entry, error) {
	const q = `SELECT name, formula, energy, correction, kind, attributes FROM entries WHERE name = ? ORDER BY id LIMIT 1`
	entries, err := s.queryEntries(ctx, q, name)
	if err != nil {
		return phase.Entry{}, err
	}
	if len(entries) == 0 {
		return phase.Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return entries[0], nil
}

// InSystem returns the stored entries whose elements all belong to the given
// chemical system. Filtering happens after load since formulas need parsing
// anyway.
func (s *Store) InSystem(ctx context.Context, elements []string) ([]phase.Entry, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(elements))
	for _, el := range elements {
		allowed[el] = true
	}

	var result []phase.Entry
	for _, e := range all {
		inside := true
		for _, el := range e.Comp.Elements() {
			if !allowed[el] {
				inside = false
				break
			}
		}
		if inside {
			result = append(result, e)
		}
	}
	return result, nil
}

// Remove deletes the named entry. Returns ErrNotFound if no row matched.
func (s *Store) Remove(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("store: remove entry %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: remove rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count entries: %w", err)
	}
	return n, nil
}

// queryEntries is a shared helper for scanning entry rows.
func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]phase.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query entries: %w", err)
	}
	defer rows.Close()

	var result []phase.Entry
	for rows.Next() {
		var e phase.Entry
		var formula, attrs string
		if err := rows.Scan(&e.Name, &formula, &e.Energy, &e.Correction, &e.Kind, &attrs); err != nil {
			return nil, fmt.Errorf("store: scan entry: %w", err)
		}
		c, err := comp.Parse(formula)
		if err != nil {
			return nil, fmt.Errorf("store: stored formula %q: %w", formula, err)
		}
		e.Comp = c
		var m map[string]string
		if err := json.Unmarshal([]byte(attrs), &m); err != nil {
			return nil, fmt.Errorf("store: decode attributes for %q: %w", e.DisplayName(), err)
		}
		if len(m) > 0 {
			e.Attributes = m
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate entries: %w", err)
	}
	return result, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func attrsOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

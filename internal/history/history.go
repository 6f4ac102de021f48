// Package history is supplemented infrastructure (SPEC_FULL.md §2.8): not
// named by spec.md, but adapted from the teacher's single largest piece of
// exercisable plumbing, its SQLite session-persistence stack
// (internal/infrastructure/sqlite). Every successful snapshot.Save appends
// an audit row here — the canvas file itself remains the source of truth;
// this is purely a "recent saves" log, read back through Store.Recent
// (nothing in the UI displays it).
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/ncruces/go-sqlite3/driver" // registers the "sqlite3" database/sql driver
	_ "github.com/ncruces/go-sqlite3/embed"  // pure-Go sqlite3, no cgo

	"scrawl/internal/log"
)

// Store records a rolling log of canvas saves.
type Store struct {
	db *sql.DB
}

// Record is one logged save.
type Record struct {
	SessionID   string
	Path        string
	AnchorCount int
	NodeCount   int
	SavedAt     int64
}

// Open opens (creating if absent) the SQLite database at path and applies
// pending migrations. golang-migrate's own sqlite3 driver needs the cgo
// mattn/go-sqlite3 binding, which conflicts with the pack's pure-Go
// ncruces/go-sqlite3 driver used everywhere else (see DESIGN.md); the
// embedded migration file is instead applied directly against the same
// database/sql handle, guarded by a one-row schema_version table so it
// runs at most once.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}
	var current int
	row := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading embedded migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for i, name := range names {
		version := i + 1
		if version <= current {
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(sqlBytes)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		log.Info(log.CatHistory, "applied migration", "file", name, "version", version)
	}
	return nil
}

// Append logs one save.
func (s *Store) Append(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saves (session_id, path, anchor_count, node_count, saved_at) VALUES (?, ?, ?, ?, ?)`,
		r.SessionID, r.Path, r.AnchorCount, r.NodeCount, r.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("recording save history: %w", err)
	}
	return nil
}

// Recent returns the most recent n saves to path (or every path, if path
// is empty), newest first.
func (s *Store) Recent(ctx context.Context, path string, n int) ([]Record, error) {
	query := `SELECT session_id, path, anchor_count, node_count, saved_at FROM saves`
	args := []any{}
	if path != "" {
		query += ` WHERE path = ?`
		args = append(args, path)
	}
	query += ` ORDER BY saved_at DESC LIMIT ?`
	args = append(args, n)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying save history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.SessionID, &r.Path, &r.AnchorCount, &r.NodeCount, &r.SavedAt); err != nil {
			return nil, fmt.Errorf("scanning save history row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

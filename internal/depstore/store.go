// Package depstore records which markup documents each compilation unit
// consumed, so unchanged units can be skipped on the next build.
package depstore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed dependency table.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the store at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	schema := `
	CREATE TABLE IF NOT EXISTS units (
		path TEXT PRIMARY KEY,
		mtime INTEGER NOT NULL,
		built_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS unit_deps (
		unit TEXT NOT NULL,
		doc TEXT NOT NULL,
		mtime INTEGER NOT NULL,
		PRIMARY KEY (unit, doc)
	) WITHOUT ROWID;
	CREATE INDEX IF NOT EXISTS idx_unit_deps_doc ON unit_deps(doc);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func mtime(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixNano(), nil
}

// Record replaces the dependency list of unit with deps, stamped with the
// current modification times.
func (s *Store) Record(unit string, deps []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	um, err := mtime(unit)
	if err != nil {
		return fmt.Errorf("stat unit %s: %w", unit, err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO units (path, mtime, built_at) VALUES (?, ?, ?)`,
		unit, um, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("record unit: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM unit_deps WHERE unit = ?`, unit); err != nil {
		return fmt.Errorf("clear deps: %w", err)
	}
	for _, d := range deps {
		dm, err := mtime(d)
		if err != nil {
			return fmt.Errorf("stat document %s: %w", d, err)
		}
		if _, err := tx.Exec(`INSERT OR REPLACE INTO unit_deps (unit, doc, mtime) VALUES (?, ?, ?)`, unit, d, dm); err != nil {
			return fmt.Errorf("record dep: %w", err)
		}
	}
	return tx.Commit()
}

// Forget drops unit from the store, forcing its next build.
func (s *Store) Forget(unit string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM unit_deps WHERE unit = ?`, unit); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM units WHERE path = ?`, unit)
	return err
}

// Fresh reports whether unit and every document it consumed are unchanged
// since the last Record. Unknown units are never fresh.
func (s *Store) Fresh(unit string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recorded int64
	err := s.db.QueryRow(`SELECT mtime FROM units WHERE path = ?`, unit).Scan(&recorded)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if cur, err := mtime(unit); err != nil || cur != recorded {
		return false, nil
	}

	rows, err := s.db.Query(`SELECT doc, mtime FROM unit_deps WHERE unit = ?`, unit)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var doc string
		var m int64
		if err := rows.Scan(&doc, &m); err != nil {
			return false, err
		}
		if cur, err := mtime(doc); err != nil || cur != m {
			return false, nil
		}
	}
	return true, rows.Err()
}

// Dependents returns the units that consumed doc.
func (s *Store) Dependents(doc string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT unit FROM unit_deps WHERE doc = ? ORDER BY unit`, doc)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var units []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// Deps returns the documents recorded for unit.
func (s *Store) Deps(unit string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT doc FROM unit_deps WHERE unit = ? ORDER BY doc`, unit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var docs []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

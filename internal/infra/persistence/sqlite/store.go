// Package sqlite persists the workspace snapshot in an embedded SQLite file,
// one JSON payload per bucket in a small key-value table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"mattercore/pkg/domain"
)

var _ domain.SnapshotStorage = (*Store)(nil)

// Store keeps the snapshot in a `state` table keyed by bucket.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the SQLite database at path and ensures the
// state table exists. An empty path defaults to mattercore.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "mattercore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Driver() string { return "sqlite" }

// Load reads the snapshot payload. An absent row means no snapshot exists.
func (s *Store) Load(ctx context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM state WHERE bucket = ?`, domain.StorageKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select state: %w", err)
	}
	return payload, true, nil
}

// Save upserts the snapshot payload.
func (s *Store) Save(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO state (bucket, payload) VALUES (?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
		domain.StorageKey, payload); err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

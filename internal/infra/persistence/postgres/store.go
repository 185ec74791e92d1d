// Package postgres persists the workspace snapshot in a PostgreSQL table as
// a JSONB payload.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"mattercore/pkg/domain"
)

var _ domain.SnapshotStorage = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/mattercore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OverrideSQLOpen swaps the sql.Open implementation for tests and returns a
// restore function.
func OverrideSQLOpen(fn func(driver, dsn string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}

// Store keeps the snapshot in a `state` table keyed by bucket.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// NewStore connects to Postgres using dsn (falls back to a localhost default)
// and ensures the state table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Driver() string { return "postgres" }

// Load reads the snapshot payload. An absent row means no snapshot exists.
func (s *Store) Load(ctx context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM state WHERE bucket = $1`, domain.StorageKey).Scan(&payload)
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
		`INSERT INTO state (bucket, payload) VALUES ($1, $2)
		 ON CONFLICT (bucket) DO UPDATE SET payload = EXCLUDED.payload`,
		domain.StorageKey, payload); err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Package fs persists the workspace snapshot as a single JSON file on the
// local filesystem. Writes go through a temp file plus rename so a crash
// mid-write never leaves a truncated snapshot behind.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"mattercore/pkg/domain"
)

var _ domain.SnapshotStorage = (*Store)(nil)

// Store writes the snapshot to a fixed path.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a filesystem-backed snapshot store writing to path,
// creating parent directories as needed. An empty path defaults to a file
// named after the storage key in the working directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = domain.StorageKey + ".json"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	return &Store{path: path}, nil
}

func (s *Store) Driver() string { return "fs" }

// Path returns the snapshot file location.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot file. A missing file is not an error.
func (s *Store) Load(context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}
	return payload, true, nil
}

// Save atomically replaces the snapshot file.
func (s *Store) Save(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Package memory provides an in-process snapshot store for tests and
// ephemeral workspaces.
package memory

import (
	"context"
	"sync"

	"mattercore/pkg/domain"
)

var _ domain.SnapshotStorage = (*Store)(nil)

// Store holds the latest snapshot payload in memory.
type Store struct {
	mu      sync.RWMutex
	payload []byte
	ok      bool
}

// NewStore returns an empty in-memory snapshot store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) Driver() string { return "memory" }

// Load returns the last saved payload, if any.
func (s *Store) Load(context.Context) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ok {
		return nil, false, nil
	}
	return append([]byte(nil), s.payload...), true, nil
}

// Save replaces the stored payload.
func (s *Store) Save(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = append([]byte(nil), payload...)
	s.ok = true
	return nil
}

// Seed installs a payload as if it had been saved earlier.
func (s *Store) Seed(payload []byte) {
	_ = s.Save(context.Background(), payload)
}

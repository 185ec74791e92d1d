package domain

import "context"

// SnapshotStorage is a minimal abstraction over durable snapshot backends.
// Implementations read and write the full serialized state under StorageKey.
// Persistence is best-effort: a Save failure never rolls back in-memory
// state, the host logs it and moves on.
type SnapshotStorage interface {
	// Load returns the raw persisted snapshot bytes. ok is false when no
	// snapshot has ever been written.
	Load(ctx context.Context) (payload []byte, ok bool, err error)
	// Save writes the full snapshot, replacing any previous one.
	Save(ctx context.Context, payload []byte) error
	// Driver names the backend for log fields.
	Driver() string
}

package core

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"mattercore/pkg/domain"
)

// snapshotSaver writes snapshots to storage asynchronously. Requests coalesce:
// while a write is in flight at most one newer snapshot is held pending, and
// older pending snapshots are discarded. Save failures are logged and never
// surfaced to callers.
type snapshotSaver struct {
	storage domain.SnapshotStorage
	logger  *zap.Logger
	metrics MetricsRecorder

	mu       sync.Mutex
	closed   bool
	requests chan domain.Snapshot
	done     chan struct{}
}

func newSnapshotSaver(storage domain.SnapshotStorage, logger *zap.Logger, metrics MetricsRecorder) *snapshotSaver {
	s := &snapshotSaver{
		storage:  storage,
		logger:   logger,
		metrics:  metrics,
		requests: make(chan domain.Snapshot, 1),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

// Enqueue submits a snapshot for persistence and returns immediately. If a
// newer snapshot is already queued it is replaced. After Close the snapshot
// is dropped.
func (s *snapshotSaver) Enqueue(snapshot domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.requests <- snapshot:
			return
		default:
		}
		select {
		case <-s.requests: // drop the stale pending snapshot
		default:
		}
	}
}

// Close flushes any pending snapshot and stops the worker.
func (s *snapshotSaver) Close() {
	s.mu.Lock()
	alreadyClosed := s.closed
	s.closed = true
	s.mu.Unlock()
	if alreadyClosed {
		return
	}
	close(s.requests)
	<-s.done
}

func (s *snapshotSaver) run() {
	defer close(s.done)
	for snapshot := range s.requests {
		s.write(snapshot)
	}
}

func (s *snapshotSaver) write(snapshot domain.Snapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("snapshot marshal failed", zap.Error(err))
		return
	}
	start := time.Now()
	err = s.storage.Save(context.Background(), payload)
	s.metrics.ObserveSnapshotSave(s.storage.Driver(), time.Since(start), err)
	if err != nil {
		s.logger.Warn("snapshot save failed",
			zap.String("driver", s.storage.Driver()),
			zap.Int("bytes", len(payload)),
			zap.Error(err))
	}
}

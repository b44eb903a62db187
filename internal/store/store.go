// Package store is the single persistence boundary for session state: the
// scanned study list and the report metadata. Persistence is best-effort; a
// failed save is logged by the caller, never surfaced to the user.
package store

import (
	"context"
	"sync"

	"rvu-tracker/internal/models"
)

// Snapshot is everything worth keeping between sessions.
type Snapshot struct {
	Studies []models.ScannedStudy `json:"studies"`
	Meta    models.ReportMeta     `json:"meta"`
}

// Store loads and saves full snapshots. Implementations must treat a missing
// snapshot as an empty one, not an error.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// MemoryStore keeps the snapshot for the lifetime of the process. It is the
// default when no persistence target is configured.
type MemoryStore struct {
	mu   sync.Mutex
	snap Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, nil
}

func (s *MemoryStore) Save(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	return nil
}

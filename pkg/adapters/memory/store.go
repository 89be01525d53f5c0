package memory

import (
	"context"
	"sync"

	"github.com/aretw0/nexus/pkg/domain"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory snapshot store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Snapshot),
	}
}

// Save persists the snapshot in memory.
func (s *Store) Save(ctx context.Context, instanceID string, snap *domain.Snapshot) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := *snap
	copied.Nodes = append([]domain.Node(nil), snap.Nodes...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[instanceID] = &copied
	return nil
}

// Load retrieves a snapshot from memory.
func (s *Store) Load(ctx context.Context, instanceID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[instanceID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}

	// Copy on read so the caller can't mutate store state by pointer.
	ret := *snap
	ret.Nodes = append([]domain.Node(nil), snap.Nodes...)
	return &ret, nil
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, instanceID)
	return nil
}

// List returns the stored instance IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

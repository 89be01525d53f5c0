package snapshot_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nexus/internal/scene"
	"github.com/aretw0/nexus/pkg/domain"
	"github.com/aretw0/nexus/pkg/snapshot"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.Snapshot
	mu   sync.Mutex

	saves int
}

func (s *SlowStore) Save(ctx context.Context, instanceID string, snap *domain.Snapshot) error {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Snapshot)
	}
	s.data[instanceID] = snap
	s.saves++
	return nil
}

func (s *SlowStore) Load(ctx context.Context, instanceID string) (*domain.Snapshot, error) {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.data[instanceID]; ok {
		return snap, nil
	}
	return nil, domain.ErrSnapshotNotFound
}

func (s *SlowStore) Delete(ctx context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, instanceID)
	return nil
}

func testScene() *scene.Scene {
	return scene.Mount(&domain.Definition{
		ID:    "ambient",
		Nodes: []domain.NodeSpec{{ID: "core", Category: domain.CategoryML}},
	}, scene.DefaultOptions())
}

func TestManager_Locking(t *testing.T) {
	store := &SlowStore{}
	manager := snapshot.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	_ = manager.Save(ctx, id, domain.NewSnapshot("ambient"))

	var wg sync.WaitGroup
	concurrentWrites := 10

	// Writes must serialize through the per-instance lock; the SlowStore's
	// IO delay would expose interleaving otherwise.
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.Save(ctx, id, domain.NewSnapshot("ambient"))
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
}

func TestManager_LoadOrCapture(t *testing.T) {
	// Verify atomic creation
	store := &SlowStore{}
	manager := snapshot.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	live := testScene()
	defer live.Unmount()
	live.Step(16 * time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, _, err := manager.LoadOrCapture(ctx, id, live)
			assert.NoError(t, err)
			assert.NotNil(t, snap)
		}()
	}
	wg.Wait()

	// Exactly one capture happened; the other call loaded it.
	store.mu.Lock()
	saves := store.saves
	store.mu.Unlock()
	assert.Equal(t, 1, saves)

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ambient", snap.SceneID)
}

func TestManager_LoadOrCaptureReturnsExisting(t *testing.T) {
	store := &SlowStore{}
	manager := snapshot.NewManager(store)
	ctx := context.Background()

	existing := domain.NewSnapshot("ambient")
	existing.FrameSeq = 123
	require.NoError(t, manager.Save(ctx, "warm", existing))

	live := testScene()
	defer live.Unmount()

	snap, loaded, err := manager.LoadOrCapture(ctx, "warm", live)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, uint64(123), snap.FrameSeq)
}

func TestManager_Delete(t *testing.T) {
	store := &SlowStore{}
	manager := snapshot.NewManager(store)
	ctx := context.Background()

	require.NoError(t, manager.Save(ctx, "gone", domain.NewSnapshot("ambient")))
	require.NoError(t, manager.Delete(ctx, "gone"))

	_, err := manager.Load(ctx, "gone")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

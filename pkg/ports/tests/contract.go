package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/nexus/pkg/domain"
	"github.com/aretw0/nexus/pkg/ports"
)

// SceneLoaderContractTest is a reusable suite that verifies if an adapter
// complies with ports.SceneLoader.
func SceneLoaderContractTest(t *testing.T, loader ports.SceneLoader, setupData map[string][]byte) {
	t.Helper()

	t.Run("GetScene_Success", func(t *testing.T) {
		for id, expected := range setupData {
			content, err := loader.GetScene(id)
			if err != nil {
				t.Fatalf("unexpected error getting scene %s: %v", id, err)
			}
			if string(content) != string(expected) {
				t.Errorf("content mismatch for %s. got %q, want %q", id, content, expected)
			}
		}
	})

	t.Run("GetScene_NotFound", func(t *testing.T) {
		_, err := loader.GetScene("non-existent-scene")
		if err == nil {
			t.Error("expected error for non-existent scene, got nil")
		}
	})

	t.Run("ListScenes", func(t *testing.T) {
		scenes, err := loader.ListScenes()
		if err != nil {
			t.Fatalf("unexpected error listing scenes: %v", err)
		}

		if len(scenes) != len(setupData) {
			t.Errorf("expected %d scenes, got %d", len(setupData), len(scenes))
		}

		lookup := make(map[string]bool)
		for _, id := range scenes {
			lookup[id] = true
		}
		for id := range setupData {
			if !lookup[id] {
				t.Errorf("scene %s missing from list", id)
			}
		}
	})
}

// SnapshotStoreContractTest verifies that a store complies with the
// ports.SnapshotStore semantics (save/load round-trip, not-found sentinel,
// delete).
func SnapshotStoreContractTest(t *testing.T, store ports.SnapshotStore) {
	t.Helper()

	ctx := context.Background()
	const instanceID = "contract-instance"

	// 1. Load non-existent instance
	if _, err := store.Load(ctx, instanceID); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}

	// 2. Save snapshot
	snap := domain.NewSnapshot("nexus")
	snap.Seed = 42
	snap.FrameSeq = 7
	snap.Nodes = []domain.Node{
		{
			NodeSpec: domain.NodeSpec{ID: "core", Category: domain.CategoryML},
			Position: domain.Vec3{X: 1, Y: 2, Z: 3},
			Velocity: domain.Vec3{X: 0.1},
			Scale:    1,
		},
	}
	if err := store.Save(ctx, instanceID, snap); err != nil {
		t.Fatalf("failed to save snapshot: %v", err)
	}

	// 3. Load round-trip
	loaded, err := store.Load(ctx, instanceID)
	if err != nil {
		t.Fatalf("failed to load snapshot: %v", err)
	}
	if loaded.SceneID != "nexus" {
		t.Errorf("expected scene ID 'nexus', got %q", loaded.SceneID)
	}
	if loaded.Seed != 42 || loaded.FrameSeq != 7 {
		t.Errorf("seed/seq mismatch: got seed=%d seq=%d", loaded.Seed, loaded.FrameSeq)
	}
	if len(loaded.Nodes) != 1 || loaded.Nodes[0].Position.Z != 3 {
		t.Errorf("node state did not round-trip: %+v", loaded.Nodes)
	}

	// 4. Isolation: mutating the loaded snapshot must not leak into the store.
	loaded.Nodes[0].Position.Z = 99
	again, err := store.Load(ctx, instanceID)
	if err != nil {
		t.Fatalf("failed to reload snapshot: %v", err)
	}
	if again.Nodes[0].Position.Z != 3 {
		t.Errorf("store state mutated through loaded copy: got Z=%v", again.Nodes[0].Position.Z)
	}

	// 5. Delete
	if err := store.Delete(ctx, instanceID); err != nil {
		t.Fatalf("failed to delete snapshot: %v", err)
	}
	if _, err := store.Load(ctx, instanceID); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound after delete, got %v", err)
	}
}

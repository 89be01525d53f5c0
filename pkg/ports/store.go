package ports

import (
	"context"

	"github.com/aretw0/nexus/pkg/domain"
)

// SnapshotStore defines the interface for persisting scene snapshots.
// This allows an ambient scene to be paused and resumed across restarts.
type SnapshotStore interface {
	// Save persists the snapshot under the given instance ID.
	Save(ctx context.Context, instanceID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given instance ID.
	// Returns domain.ErrSnapshotNotFound if the instance does not exist.
	Load(ctx context.Context, instanceID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given instance ID.
	Delete(ctx context.Context, instanceID string) error
}

// SnapshotLister is implemented by stores that can enumerate instances.
type SnapshotLister interface {
	List(ctx context.Context) ([]string, error)
}

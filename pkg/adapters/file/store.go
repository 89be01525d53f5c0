// Package file provides filesystem-backed adapters: an atomic snapshot
// store and a scene loader with change notification.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/nexus/pkg/domain"
)

// Store implements ports.SnapshotStore using the local filesystem.
// Snapshots are stored as JSON files in a configured directory.
type Store struct {
	BasePath string
}

// NewStore creates a Store with the given base path.
// If basePath is empty, it defaults to ".nexus/snapshots".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".nexus", "snapshots")
	}
	return &Store{BasePath: basePath}
}

// Save persists the snapshot to a JSON file atomically: write to a temp
// file in the same directory, fsync, close, then rename over the target.
func (s *Store) Save(ctx context.Context, instanceID string, snap *domain.Snapshot) error {
	if instanceID == "" {
		return fmt.Errorf("instanceID cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure snapshot directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, instanceID+".json")

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// Same directory as the destination, so the rename stays on one
	// filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+instanceID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Rename of an open file fails on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename over an existing file fails on Windows; remove first and
	// accept the tiny delete-then-rename window over partial writes.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing snapshot for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}
	return nil
}

// Load retrieves a snapshot from its JSON file.
func (s *Store) Load(ctx context.Context, instanceID string) (*domain.Snapshot, error) {
	if instanceID == "" {
		return nil, fmt.Errorf("instanceID cannot be empty")
	}

	filePath := filepath.Join(s.BasePath, instanceID+".json")

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes the snapshot file. Deleting a missing snapshot is not an
// error.
func (s *Store) Delete(ctx context.Context, instanceID string) error {
	if instanceID == "" {
		return fmt.Errorf("instanceID cannot be empty")
	}

	filePath := filepath.Join(s.BasePath, instanceID+".json")

	err := os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot file: %w", err)
	}
	return nil
}

// List returns the stored instance IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			name := entry.Name()
			ids = append(ids, name[:len(name)-len(".json")])
		}
	}
	return ids, nil
}

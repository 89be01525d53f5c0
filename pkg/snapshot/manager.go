// Package snapshot orchestrates snapshot persistence for mounted scenes:
// serialized access per instance, with optional distributed locking when
// several replicas share one store.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/nexus/internal/logging"
	"github.com/aretw0/nexus/pkg/domain"
	"github.com/aretw0/nexus/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu     sync.Mutex
	refs   int
	unlock ports.UnlockFunc
}

// Manager serializes snapshot access per instance ID. It uses reference
// counting to garbage collect unused lock entries.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a snapshot Manager backed by the given store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock entry.mu, then call release(instanceID) after
// unlocking.
func (m *Manager) acquire(instanceID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[instanceID]
	if !exists {
		entry = &lockEntry{}
		m.locks[instanceID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(instanceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[instanceID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, instanceID)
	}
}

// Load retrieves an existing snapshot from the store.
func (m *Manager) Load(ctx context.Context, instanceID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, instanceID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, instanceID)
		return err
	})
	return snap, err
}

// LoadOrCapture tries to load a snapshot for the instance. If none exists,
// it captures one from the live scene and persists it immediately to
// reserve the ID.
func (m *Manager) LoadOrCapture(ctx context.Context, instanceID string, live ports.LiveScene) (*domain.Snapshot, bool, error) {
	var snap *domain.Snapshot
	var loaded bool
	err := m.WithLock(ctx, instanceID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, instanceID)
		if err == nil {
			loaded = true
			return nil
		}

		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			return fmt.Errorf("failed to check snapshot existence: %w", err)
		}

		snap = live.Snapshot()
		if err := m.store.Save(ctx, instanceID, snap); err != nil {
			return fmt.Errorf("failed to initialize snapshot: %w", err)
		}
		return nil
	})
	return snap, loaded, err
}

// Save persists a snapshot.
func (m *Manager) Save(ctx context.Context, instanceID string, snap *domain.Snapshot) error {
	return m.WithLock(ctx, instanceID, func(ctx context.Context) error {
		return m.store.Save(ctx, instanceID, snap)
	})
}

// Delete removes the snapshot from the store.
func (m *Manager) Delete(ctx context.Context, instanceID string) error {
	return m.WithLock(ctx, instanceID, func(ctx context.Context) error {
		return m.store.Delete(ctx, instanceID)
	})
}

// List delegates to the store when it supports enumeration.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	if lister, ok := m.store.(ports.SnapshotLister); ok {
		return lister.List(ctx)
	}
	return nil, nil
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock executes fn while holding the instance's lock (and the
// distributed lock, when configured).
func (m *Manager) WithLock(ctx context.Context, instanceID string, fn func(context.Context) error) error {
	entry := m.acquire(instanceID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(instanceID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, instanceID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"instance_id", instanceID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

package ports

import (
	"time"

	"github.com/aretw0/nexus/pkg/domain"
)

// LiveScene defines the operations hosts (HTTP, MCP, TUI) need from a
// mounted scene. Implementations are safe for concurrent use.
type LiveScene interface {
	// ID returns the scene definition ID this instance was mounted from.
	ID() string

	// Step advances the simulation by the given elapsed time (clamped
	// internally) and returns the resulting render frame.
	Step(dt time.Duration) *domain.Frame

	// Frame returns the current render frame without advancing time.
	Frame() *domain.Frame

	// PointerMove updates the hover state from pointer NDC coordinates
	// in [-1, 1] and returns the hovered node ID, or "" if none.
	PointerMove(nx, ny float64) string

	// PointerLeave clears any hover state, as when the pointer exits the
	// viewport.
	PointerLeave()

	// Snapshot captures the current simulation state for persistence.
	Snapshot() *domain.Snapshot

	// Restore replaces the simulation state with a previously captured
	// snapshot of the same scene.
	Restore(snap *domain.Snapshot) error

	// Unmount tears the scene down. Further operations return zero
	// values or domain.ErrSceneClosed.
	Unmount()
}

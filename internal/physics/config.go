// Package physics implements the force-directed layout step that drives a
// mounted scene. The step is a pure function over node and edge slices:
// deterministic for identical inputs, no I/O, no hidden state.
package physics

import "time"

// Config holds the simulation constants. The defaults reproduce the
// ambient motion the scene was tuned for: gentle repulsion, springs with a
// 4-unit rest length, and a weak pull toward the origin so the cloud never
// drifts away.
type Config struct {
	// Repulsion scales the inverse-square force between every pair of
	// distinct nodes.
	Repulsion float64

	// Spring scales the force along each edge, proportional to the
	// deviation from RestLength. Negative deviation (closer than rest)
	// pushes the endpoints apart.
	Spring float64

	// RestLength is the edge distance at which the spring force is zero.
	RestLength float64

	// Centering scales the force pulling every node toward the origin.
	Centering float64

	// Damping multiplies each node's velocity every step. Must be < 1.
	Damping float64

	// MinDistance guards the inverse-square law: pairs closer than this
	// are skipped to avoid a division blow-up.
	MinDistance float64

	// MaxDelta clamps the elapsed time fed into one step, so a long GC
	// pause or a stalled host does not catapult nodes across the scene.
	MaxDelta time.Duration
}

// DefaultConfig returns the tuning used by the stock scene.
func DefaultConfig() Config {
	return Config{
		Repulsion:   8.0,
		Spring:      0.06,
		RestLength:  4.0,
		Centering:   0.01,
		Damping:     0.95,
		MinDistance: 0.1,
		MaxDelta:    50 * time.Millisecond,
	}
}

// ClampDelta applies MaxDelta and returns the step size in seconds.
func (c Config) ClampDelta(dt time.Duration) float64 {
	if dt < 0 {
		return 0
	}
	if dt > c.MaxDelta {
		dt = c.MaxDelta
	}
	return dt.Seconds()
}

package physics

import (
	"time"

	"github.com/aretw0/nexus/pkg/domain"
)

// Step advances the simulation by dt. Nodes are mutated in place; edges are
// read-only. The order of operations is fixed (repulsion, springs,
// centering, integration) so two runs over the same state and dt sequence
// produce identical trajectories.
func Step(cfg Config, nodes []*domain.Node, edges []domain.Edge, dt time.Duration) {
	secs := cfg.ClampDelta(dt)
	if secs == 0 || len(nodes) == 0 {
		return
	}

	forces := make([]domain.Vec3, len(nodes))
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	// Pairwise repulsion: inverse-square along the separation vector.
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			delta := nodes[i].Position.Sub(nodes[j].Position)
			dist := delta.Length()
			if dist < cfg.MinDistance {
				// Overlapping nodes: skip rather than divide by ~zero.
				continue
			}
			f := delta.Scale(cfg.Repulsion / (dist * dist * dist))
			forces[i] = forces[i].Add(f)
			forces[j] = forces[j].Sub(f)
		}
	}

	// Spring attraction along edges: signed displacement from rest length,
	// so endpoints closer than rest are pushed apart.
	for _, e := range edges {
		si, ok := index[e.Source]
		if !ok {
			continue
		}
		ti, ok := index[e.Target]
		if !ok {
			continue
		}
		delta := nodes[ti].Position.Sub(nodes[si].Position)
		dist := delta.Length()
		if dist < cfg.MinDistance {
			continue
		}
		f := delta.Normalized().Scale(cfg.Spring * (dist - cfg.RestLength))
		forces[si] = forces[si].Add(f)
		forces[ti] = forces[ti].Sub(f)
	}

	// Centering plus integration: v += F*dt, damp, then p += v.
	for i, n := range nodes {
		force := forces[i].Add(n.Position.Scale(-cfg.Centering))
		n.Velocity = n.Velocity.Add(force.Scale(secs)).Scale(cfg.Damping)
		n.Position = n.Position.Add(n.Velocity)
	}
}

// RepulsionMagnitude returns the magnitude of the repulsive force between
// two nodes at the given distance, or 0 below the epsilon guard. Exposed
// for tooling and tests that reason about the force curve.
func RepulsionMagnitude(cfg Config, dist float64) float64 {
	if dist < cfg.MinDistance {
		return 0
	}
	return cfg.Repulsion / (dist * dist)
}

// SpringMagnitude returns the signed spring force for an edge at the given
// distance: positive pulls the endpoints together, negative pushes them
// apart, zero exactly at rest length.
func SpringMagnitude(cfg Config, dist float64) float64 {
	return cfg.Spring * (dist - cfg.RestLength)
}

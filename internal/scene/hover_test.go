package scene

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/nexus/internal/raycast"
	"github.com/aretw0/nexus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hoverDefinition lays out two nodes the tests can aim at precisely. The
// spawn radius is zeroed so positions start at the origin and are then
// pinned via Restore.
func hoverScene(t *testing.T, hooks domain.LifecycleHooks) *Scene {
	t.Helper()

	def := &domain.Definition{
		ID: "hover-test",
		Nodes: []domain.NodeSpec{
			{ID: "left", Category: domain.CategoryML},
			{ID: "right", Category: domain.CategoryFinancial},
			{ID: "spectator", Category: domain.CategoryAdvanced},
		},
		Edges: []domain.Edge{
			{Source: "left", Target: "right"},
			{Source: "right", Target: "spectator"},
		},
	}

	opts := DefaultOptions()
	opts.SpawnRadius = 0
	opts.Hooks = hooks
	opts.Camera = raycast.Camera{
		Position: domain.Vec3{Z: 30},
		Target:   domain.Vec3{},
		Up:       domain.Vec3{Y: 1},
		FOV:      75,
		Aspect:   1,
	}
	s := Mount(def, opts)

	snap := s.Snapshot()
	for i := range snap.Nodes {
		switch snap.Nodes[i].ID {
		case "left":
			snap.Nodes[i].Position = domain.Vec3{X: -8}
		case "right":
			snap.Nodes[i].Position = domain.Vec3{X: 8}
		case "spectator":
			snap.Nodes[i].Position = domain.Vec3{Y: 50}
		}
	}
	require.NoError(t, s.Restore(snap))
	return s
}

// aim returns the NDC coordinates that point the camera ray straight at a
// world position, for the camera used by hoverScene.
func aim(pos domain.Vec3) (float64, float64) {
	cam := domain.Vec3{Z: 30}
	dir := pos.Sub(cam)
	// Camera looks down -Z with +Y up and aspect 1.
	halfTan := 0.7673269879789604 // tan(75deg / 2)
	depth := -dir.Z
	return dir.X / (depth * halfTan), dir.Y / (depth * halfTan)
}

func TestHoverEnterAndLeave(t *testing.T) {
	s := hoverScene(t, domain.LifecycleHooks{})
	defer s.Unmount()

	nx, ny := aim(domain.Vec3{X: -8})
	got := s.PointerMove(nx, ny)
	assert.Equal(t, "left", got)
	assert.Equal(t, "left", s.HoveredID())

	frame := s.Frame()
	for _, n := range frame.Nodes {
		if n.ID == "left" {
			assert.True(t, n.Hovered)
			assert.Equal(t, s.opts.HoverScale, n.Scale)
			assert.Equal(t, s.opts.HoverEmissive, n.Emissive)
		} else {
			assert.False(t, n.Hovered)
			assert.Equal(t, 1.0, n.Scale)
		}
	}

	// Only the edge touching the hovered node lights up.
	for _, e := range frame.Edges {
		if e.Touches("left") {
			assert.True(t, e.Highlighted)
		} else {
			assert.False(t, e.Highlighted)
		}
	}

	s.PointerLeave()
	assert.Empty(t, s.HoveredID())
	for _, n := range s.Frame().Nodes {
		assert.False(t, n.Hovered)
		assert.Equal(t, 1.0, n.Scale)
		assert.Equal(t, 0.0, n.Emissive)
	}
}

func TestHoverIsExclusive(t *testing.T) {
	s := hoverScene(t, domain.LifecycleHooks{})
	defer s.Unmount()

	lx, ly := aim(domain.Vec3{X: -8})
	rx, ry := aim(domain.Vec3{X: 8})

	// Sweep back and forth; after every move at most one node is hovered.
	coords := [][2]float64{{lx, ly}, {rx, ry}, {lx, ly}, {0.9, 0.9}, {rx, ry}}
	for _, c := range coords {
		s.PointerMove(c[0], c[1])
		hovered := 0
		for _, n := range s.Frame().Nodes {
			if n.Hovered {
				hovered++
			}
		}
		assert.LessOrEqual(t, hovered, 1, "two nodes hovered at once")
	}
}

func TestHoverMissClearsState(t *testing.T) {
	s := hoverScene(t, domain.LifecycleHooks{})
	defer s.Unmount()

	nx, ny := aim(domain.Vec3{X: 8})
	require.Equal(t, "right", s.PointerMove(nx, ny))

	// Aim into empty space.
	assert.Empty(t, s.PointerMove(0.95, -0.95))
	assert.Empty(t, s.HoveredID())
}

// driftScene mounts two connected nodes at distance 2. The spring rest
// length is 4, so stepping pushes the pair apart along the X axis.
func driftScene(t *testing.T, hooks domain.LifecycleHooks) *Scene {
	t.Helper()

	def := &domain.Definition{
		ID: "drift-test",
		Nodes: []domain.NodeSpec{
			{ID: "a", Category: domain.CategoryML},
			{ID: "b", Category: domain.CategoryFinancial},
		},
		Edges: []domain.Edge{{Source: "a", Target: "b"}},
	}

	opts := DefaultOptions()
	opts.SpawnRadius = 0
	opts.Hooks = hooks
	opts.Camera = raycast.Camera{
		Position: domain.Vec3{Z: 30},
		Target:   domain.Vec3{},
		Up:       domain.Vec3{Y: 1},
		FOV:      75,
		Aspect:   1,
	}
	s := Mount(def, opts)

	snap := s.Snapshot()
	for i := range snap.Nodes {
		switch snap.Nodes[i].ID {
		case "a":
			snap.Nodes[i].Position = domain.Vec3{X: -1}
		case "b":
			snap.Nodes[i].Position = domain.Vec3{X: 1}
		}
	}
	require.NoError(t, s.Restore(snap))
	return s
}

func TestHoverClearsWhenNodeDriftsAway(t *testing.T) {
	var left []string
	hooks := domain.LifecycleHooks{
		OnHoverLeave: func(_ context.Context, e *domain.HoverEvent) {
			left = append(left, e.NodeID)
		},
	}
	s := driftScene(t, hooks)
	defer s.Unmount()

	// Aim at node "a" where it starts; the pointer then stays put while
	// the simulation carries the node out from under the ray.
	nx, ny := aim(domain.Vec3{X: -1})
	require.Equal(t, "a", s.PointerMove(nx, ny))

	cleared := false
	for i := 0; i < 3000 && !cleared; i++ {
		s.Step(16 * time.Millisecond)
		cleared = s.HoveredID() == ""
	}
	assert.True(t, cleared, "hover survived the node drifting out of the ray")
	assert.Equal(t, []string{"a"}, left)
}

func TestHoverEntersUnderStationaryPointer(t *testing.T) {
	var entered []string
	hooks := domain.LifecycleHooks{
		OnHoverEnter: func(_ context.Context, e *domain.HoverEvent) {
			entered = append(entered, e.NodeID)
		},
	}
	s := driftScene(t, hooks)
	defer s.Unmount()

	// Aim ahead of node "a" on its outbound path; nothing is there yet.
	nx, ny := aim(domain.Vec3{X: -3})
	require.Empty(t, s.PointerMove(nx, ny))

	hovered := false
	for i := 0; i < 3000 && !hovered; i++ {
		s.Step(16 * time.Millisecond)
		hovered = s.HoveredID() == "a"
	}
	assert.True(t, hovered, "node never entered hover while drifting under the pointer")
	assert.Equal(t, []string{"a"}, entered)
}

func TestPointerLeaveStopsRecasting(t *testing.T) {
	s := driftScene(t, domain.LifecycleHooks{})
	defer s.Unmount()

	nx, ny := aim(domain.Vec3{X: -1})
	require.Equal(t, "a", s.PointerMove(nx, ny))
	s.PointerLeave()

	// With the pointer gone, stepping never re-enters hover even while
	// the node is still under the last ray position.
	s.Step(16 * time.Millisecond)
	assert.Empty(t, s.HoveredID())
}

func TestHoverHooksFireOnTransitions(t *testing.T) {
	var entered, left []string
	hooks := domain.LifecycleHooks{
		OnHoverEnter: func(_ context.Context, e *domain.HoverEvent) {
			entered = append(entered, e.NodeID)
		},
		OnHoverLeave: func(_ context.Context, e *domain.HoverEvent) {
			left = append(left, e.NodeID)
		},
	}
	s := hoverScene(t, hooks)
	defer s.Unmount()

	lx, ly := aim(domain.Vec3{X: -8})
	rx, ry := aim(domain.Vec3{X: 8})

	s.PointerMove(lx, ly)
	s.PointerMove(lx, ly) // staying put is not a transition
	s.PointerMove(rx, ry)
	s.PointerLeave()

	assert.Equal(t, []string{"left", "right"}, entered)
	assert.Equal(t, []string{"left", "right"}, left)
}

// Package scene hosts the live runtime for a mounted scene: node and edge
// state, the per-frame simulation step, render-sync frame production, and
// the hover state machine. One Scene corresponds to one mounted instance;
// all state is guarded by a single mutex because frames, pointer events and
// snapshots arrive from different goroutines.
package scene

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/aretw0/nexus/internal/physics"
	"github.com/aretw0/nexus/internal/raycast"
	"github.com/aretw0/nexus/pkg/domain"
)

// Options configures a mounted scene.
type Options struct {
	// Seed drives the initial position scatter. Two mounts with the same
	// seed and dt sequence produce identical trajectories.
	Seed int64

	// SpawnRadius is the radius of the sphere initial positions are drawn
	// from.
	SpawnRadius float64

	// BaseRadius is the node picking radius at scale 1.
	BaseRadius float64

	// HoverScale and HoverEmissive are the render attributes applied to
	// the hovered node. Non-hovered nodes sit at scale 1, emissive 0.
	HoverScale    float64
	HoverEmissive float64

	Physics physics.Config
	Camera  raycast.Camera
	Hooks   domain.LifecycleHooks
}

// DefaultOptions returns the tuning the stock scene was designed around.
func DefaultOptions() Options {
	return Options{
		Seed:          1,
		SpawnRadius:   10,
		BaseRadius:    0.8,
		HoverScale:    1.4,
		HoverEmissive: 0.9,
		Physics:       physics.DefaultConfig(),
		Camera:        raycast.DefaultCamera(),
	}
}

// Scene is a live, mounted instance of a scene definition.
type Scene struct {
	mu sync.Mutex

	id      string
	nodes   []*domain.Node
	edges   []domain.Edge
	byID    map[string]*domain.Node
	opts    Options
	seq     uint64
	hovered *domain.Node
	closed  bool

	// pointerNX/pointerNY hold the last pointer position in NDC. pointerOn
	// is false until the first PointerMove and after PointerLeave; while it
	// is set, every Step re-casts the hover ray from that position.
	pointerNX float64
	pointerNY float64
	pointerOn bool
}

// Mount creates the live entities from a validated definition: one node per
// descriptor with a seeded random position inside the spawn sphere, plus
// the fixed adjacency list.
func Mount(def *domain.Definition, opts Options) *Scene {
	rng := rand.New(rand.NewSource(opts.Seed))

	s := &Scene{
		id:    def.ID,
		nodes: make([]*domain.Node, 0, len(def.Nodes)),
		edges: append([]domain.Edge(nil), def.Edges...),
		byID:  make(map[string]*domain.Node, len(def.Nodes)),
		opts:  opts,
	}

	for _, spec := range def.Nodes {
		n := &domain.Node{
			NodeSpec: spec,
			Position: randomInSphere(rng, opts.SpawnRadius),
			Scale:    1,
		}
		s.nodes = append(s.nodes, n)
		s.byID[n.ID] = n
	}

	if s.opts.Hooks.OnMount != nil {
		s.opts.Hooks.OnMount(context.Background(), &domain.SceneEvent{
			EventBase: s.eventBase(domain.EventMount),
			NodeCount: len(s.nodes),
			EdgeCount: len(s.edges),
		})
	}
	return s
}

// randomInSphere draws a uniformly distributed point inside a sphere of the
// given radius.
func randomInSphere(rng *rand.Rand, radius float64) domain.Vec3 {
	for {
		v := domain.Vec3{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
			Z: rng.Float64()*2 - 1,
		}
		if v.LengthSq() <= 1 {
			return v.Scale(radius)
		}
	}
}

// ID returns the definition ID this instance was mounted from.
func (s *Scene) ID() string {
	return s.id
}

// Step advances the simulation by dt and returns the resulting frame.
// Nodes keep moving under a stationary pointer, so the hover ray is
// re-cast from the last pointer position before the frame is built.
// Returns nil after Unmount.
func (s *Scene) Step(dt time.Duration) *domain.Frame {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	physics.Step(s.opts.Physics, s.nodes, s.edges, dt)
	s.seq++

	var left, entered string
	if s.pointerOn {
		left, entered = s.transitionLocked(s.pickLocked(s.pointerNX, s.pointerNY))
	}

	frame := s.renderLocked(dt)
	seq := s.seq
	s.mu.Unlock()

	s.fireHoverHooks(left, entered)
	if s.opts.Hooks.OnFrame != nil {
		s.opts.Hooks.OnFrame(context.Background(), &domain.FrameEvent{
			EventBase: s.eventBase(domain.EventFrame),
			Seq:       seq,
			Delta:     dt,
		})
	}
	return frame
}

// Frame returns the current render frame without advancing the simulation.
func (s *Scene) Frame() *domain.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.renderLocked(0)
}

// Node returns the current render transform of a single node by ID.
// Returns domain.ErrNodeNotFound for unknown IDs and domain.ErrSceneClosed
// after Unmount.
func (s *Scene) Node(id string) (domain.NodeTransform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.NodeTransform{}, domain.ErrSceneClosed
	}
	n, ok := s.byID[id]
	if !ok {
		return domain.NodeTransform{}, fmt.Errorf("node '%s': %w", id, domain.ErrNodeNotFound)
	}
	return domain.NodeTransform{
		ID:       n.ID,
		Category: n.Category,
		Position: n.Position,
		Scale:    n.Scale,
		Emissive: n.Emissive,
		Hovered:  n.Hovered,
	}, nil
}

// renderLocked builds the render-sync payload from the current state. The
// caller must hold the mutex.
func (s *Scene) renderLocked(dt time.Duration) *domain.Frame {
	frame := &domain.Frame{
		SceneID: s.id,
		Seq:     s.seq,
		Delta:   dt,
		Nodes:   make([]domain.NodeTransform, len(s.nodes)),
		Edges:   make([]domain.EdgeSegment, len(s.edges)),
	}

	for i, n := range s.nodes {
		frame.Nodes[i] = domain.NodeTransform{
			ID:       n.ID,
			Category: n.Category,
			Position: n.Position,
			Scale:    n.Scale,
			Emissive: n.Emissive,
			Hovered:  n.Hovered,
		}
	}

	hoveredID := ""
	if s.hovered != nil {
		hoveredID = s.hovered.ID
	}
	for i, e := range s.edges {
		seg := domain.EdgeSegment{Source: e.Source, Target: e.Target}
		if src, ok := s.byID[e.Source]; ok {
			seg.From = src.Position
		}
		if dst, ok := s.byID[e.Target]; ok {
			seg.To = dst.Position
		}
		seg.Highlighted = hoveredID != "" && e.Touches(hoveredID)
		frame.Edges[i] = seg
	}
	return frame
}

// Snapshot captures the current simulation state.
func (s *Scene) Snapshot() *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.NewSnapshot(s.id)
	snap.Seed = s.opts.Seed
	snap.FrameSeq = s.seq
	snap.Nodes = make([]domain.Node, len(s.nodes))
	for i, n := range s.nodes {
		snap.Nodes[i] = *n
	}
	if s.hovered != nil {
		snap.HoveredID = s.hovered.ID
	}
	return snap
}

// Restore replaces the simulation state with a previously captured
// snapshot. Nodes present in the snapshot but absent from the definition
// are ignored; nodes missing from the snapshot keep their current state.
func (s *Scene) Restore(snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSceneClosed
	}
	if snap.SceneID != s.id {
		return domain.ErrSceneNotFound
	}

	for i := range snap.Nodes {
		saved := snap.Nodes[i]
		n, ok := s.byID[saved.ID]
		if !ok {
			continue
		}
		n.Position = saved.Position
		n.Velocity = saved.Velocity
		n.Scale = saved.Scale
		n.Emissive = saved.Emissive
		n.Hovered = saved.Hovered
	}
	s.seq = snap.FrameSeq

	s.hovered = nil
	if snap.HoveredID != "" {
		if n, ok := s.byID[snap.HoveredID]; ok {
			s.hovered = n
		}
	}
	return nil
}

// Unmount tears the scene down. Idempotent; the first call fires the
// unmount hook.
func (s *Scene) Unmount() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	nodeCount := len(s.nodes)
	edgeCount := len(s.edges)
	s.nodes = nil
	s.edges = nil
	s.byID = nil
	s.hovered = nil
	s.mu.Unlock()

	if s.opts.Hooks.OnUnmount != nil {
		s.opts.Hooks.OnUnmount(context.Background(), &domain.SceneEvent{
			EventBase: s.eventBase(domain.EventUnmount),
			NodeCount: nodeCount,
			EdgeCount: edgeCount,
		})
	}
}

// Closed reports whether the scene has been unmounted.
func (s *Scene) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Scene) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now().UTC(),
		Type:      t,
		SceneID:   s.id,
	}
}

// Spread returns the root-mean-square distance of nodes from the origin.
// Used by terminal renderers to pick a projection zoom.
func (s *Scene) Spread() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.nodes) == 0 {
		return 0
	}
	var sum float64
	for _, n := range s.nodes {
		sum += n.Position.LengthSq()
	}
	return math.Sqrt(sum / float64(len(s.nodes)))
}

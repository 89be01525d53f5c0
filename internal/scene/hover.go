package scene

import (
	"context"

	"github.com/aretw0/nexus/internal/raycast"
	"github.com/aretw0/nexus/pkg/domain"
)

// PointerMove casts a ray from the pointer's normalized device coordinates
// through the camera and updates the hover state machine. At most one node
// is hovered at a time: entering a new hover clears the previous one first.
// Returns the ID of the hovered node, or "" if the ray misses everything.
func (s *Scene) PointerMove(nx, ny float64) string {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ""
	}

	s.pointerNX, s.pointerNY = nx, ny
	s.pointerOn = true

	target := s.pickLocked(nx, ny)
	left, entered := s.transitionLocked(target)
	s.mu.Unlock()

	s.fireHoverHooks(left, entered)
	if target == nil {
		return ""
	}
	return target.ID
}

// PointerLeave clears any hover, as when the pointer exits the viewport.
// Step stops re-casting until the next PointerMove.
func (s *Scene) PointerLeave() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pointerOn = false
	left, _ := s.transitionLocked(nil)
	s.mu.Unlock()

	s.fireHoverHooks(left, "")
}

// pickLocked casts the camera ray for the given pointer NDC and returns the
// nearest intersected node, or nil on a miss. Caller holds the mutex.
func (s *Scene) pickLocked(nx, ny float64) *domain.Node {
	ray := s.opts.Camera.ScreenRay(nx, ny)
	hit, ok := raycast.NearestNode(ray, s.nodes, s.opts.BaseRadius)
	if !ok {
		return nil
	}
	return s.byID[hit.NodeID]
}

// transitionLocked moves the hover state machine to target (nil for no
// hover). It returns the IDs that left and entered the hovered state, or
// empty strings when no transition happened. Caller holds the mutex.
func (s *Scene) transitionLocked(target *domain.Node) (left, entered string) {
	if s.hovered == target {
		return "", ""
	}

	if s.hovered != nil {
		s.hovered.Hovered = false
		s.hovered.Scale = 1
		s.hovered.Emissive = 0
		left = s.hovered.ID
		s.hovered = nil
	}

	if target != nil {
		target.Hovered = true
		target.Scale = s.opts.HoverScale
		target.Emissive = s.opts.HoverEmissive
		s.hovered = target
		entered = target.ID
	}
	return left, entered
}

// fireHoverHooks invokes the lifecycle callbacks outside the mutex, so a
// hook is free to call back into the scene.
func (s *Scene) fireHoverHooks(left, entered string) {
	if left != "" && s.opts.Hooks.OnHoverLeave != nil {
		s.opts.Hooks.OnHoverLeave(context.Background(), &domain.HoverEvent{
			EventBase: s.eventBase(domain.EventHoverLeave),
			NodeID:    left,
		})
	}
	if entered != "" && s.opts.Hooks.OnHoverEnter != nil {
		s.opts.Hooks.OnHoverEnter(context.Background(), &domain.HoverEvent{
			EventBase: s.eventBase(domain.EventHoverEnter),
			NodeID:    entered,
		})
	}
}

// HoveredID returns the node currently under the pointer, or "".
func (s *Scene) HoveredID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hovered == nil {
		return ""
	}
	return s.hovered.ID
}

package ports

import (
	"context"

	"github.com/aretw0/nexus/pkg/domain"
)

// FrameSink consumes render-sync frames produced by the frame loop.
// Implementations must not block: a slow consumer should drop frames
// rather than stall the simulation.
type FrameSink interface {
	Publish(ctx context.Context, frame *domain.Frame)
}

// FrameSinkFunc adapts a function to the FrameSink interface.
type FrameSinkFunc func(ctx context.Context, frame *domain.Frame)

// Publish implements FrameSink.
func (f FrameSinkFunc) Publish(ctx context.Context, frame *domain.Frame) {
	f(ctx, frame)
}

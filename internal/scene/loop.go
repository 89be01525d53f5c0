package scene

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/nexus/internal/logging"
	"github.com/aretw0/nexus/internal/metrics"
	"github.com/aretw0/nexus/pkg/ports"
)

// Loop drives a mounted scene at a fixed tick rate: step the simulation,
// then publish the render frame to every sink. It is the engine's stand-in
// for a display-refresh callback, with explicit cancellation instead of an
// implicit scheduler.
type Loop struct {
	scene     *Scene
	interval  time.Duration
	sinks     []ports.FrameSink
	logger    *slog.Logger
	collector *metrics.Collector

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// LoopOption customizes a frame loop.
type LoopOption func(*Loop)

// WithInterval sets the tick interval. Defaults to ~60 ticks per second.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithSinks registers the frame consumers.
func WithSinks(sinks ...ports.FrameSink) LoopOption {
	return func(l *Loop) {
		l.sinks = append(l.sinks, sinks...)
	}
}

// WithLogger sets the loop's logger.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithCollector wires Prometheus instrumentation into the loop.
func WithCollector(c *metrics.Collector) LoopOption {
	return func(l *Loop) {
		l.collector = c
	}
}

// NewLoop creates a frame loop for a mounted scene. The loop does not tick
// until Start is called.
func NewLoop(s *Scene, opts ...LoopOption) *Loop {
	l := &Loop{
		scene:    s,
		interval: 16 * time.Millisecond,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins ticking in a new goroutine. The loop stops when ctx is
// cancelled or Stop is called; an in-flight step always completes.
// Starting an already-running loop is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.running = true

	go l.run(ctx)
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Debug("frame loop started", "interval", l.interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("frame loop stopped", "reason", ctx.Err())
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			start := time.Now()
			frame := l.scene.Step(dt)
			if frame == nil {
				// Scene was unmounted under us.
				l.logger.Debug("frame loop stopped", "reason", "scene unmounted")
				return
			}

			if l.collector != nil {
				l.collector.FramesTotal.WithLabelValues(l.scene.ID()).Inc()
				l.collector.FrameDuration.WithLabelValues(l.scene.ID()).Observe(time.Since(start).Seconds())
			}

			for _, sink := range l.sinks {
				sink.Publish(ctx, frame)
			}
		}
	}
}

// Stop cancels the loop and waits for the in-flight step to finish.
// Idempotent.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	cancel, done := l.cancel, l.done
	l.mu.Unlock()

	cancel()
	<-done
}

// Running reports whether the loop is currently ticking.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/nexus/internal/logging"
	"github.com/aretw0/nexus/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// Unlike signal.NotifyContext, the triggering signal can be retrieved
// afterwards.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// CreateLogger configures the application logger. In debug mode it writes to
// Stderr so logs stay out of the rendered viewport on Stdout.
func CreateLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMount: func(ctx context.Context, e *domain.SceneEvent) {
			logger.Debug("Scene Mounted", "scene", e.SceneID, "nodes", e.NodeCount, "edges", e.EdgeCount)
		},
		OnUnmount: func(ctx context.Context, e *domain.SceneEvent) {
			logger.Debug("Scene Unmounted", "scene", e.SceneID)
		},
		OnHoverEnter: func(ctx context.Context, e *domain.HoverEvent) {
			logger.Debug("Hover Enter", "scene", e.SceneID, "node", e.NodeID)
		},
		OnHoverLeave: func(ctx context.Context, e *domain.HoverEvent) {
			logger.Debug("Hover Leave", "scene", e.SceneID, "node", e.NodeID)
		},
	}
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/nexus"
	"github.com/aretw0/nexus/internal/presentation/tui"
	"github.com/aretw0/nexus/internal/raycast"
)

// RunWatch renders a scene like RunView but remounts it whenever the vault
// changes, giving a hot-reload development loop.
func RunWatch(opts RunOptions, autoHover bool) error {
	logger := CreateLogger(opts.Debug)
	if !opts.Quiet {
		tui.PrintBanner()
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	logger.Info("Starting Watcher", "path", opts.VaultPath)
	if !opts.Quiet {
		printSystemMessage("Watching '%s' for changes.", opts.VaultPath)
	}

	for {
		reload, err := watchIteration(sigCtx, opts, logger, autoHover)
		if err != nil {
			logger.Error("Iteration failed", "err", err)
			if !opts.Quiet {
				printSystemMessage("Error: %v (waiting for fix)", err)
			}
			select {
			case <-sigCtx.Done():
				return nil
			case <-time.After(2 * time.Second):
				continue
			}
		}
		if !reload {
			return nil
		}
		logger.Info("Change detected, remounting")
	}
}

// watchIteration mounts and renders once. It reports true when the vault
// changed and the caller should remount.
func watchIteration(parent *SignalContext, opts RunOptions, logger *slog.Logger, autoHover bool) (bool, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	engine, err := CreateEngine(opts, logger)
	if err != nil {
		return false, err
	}
	defer engine.Close()

	sceneID, err := resolveSceneID(engine, opts.SceneID)
	if err != nil {
		return waitForChange(parent, engine, err)
	}

	inst, err := engine.Mount(ctx, sceneID)
	if err != nil {
		return waitForChange(parent, engine, err)
	}

	// A nil channel blocks forever, so loaders without watch support just
	// render until interrupted.
	watchCh, _ := engine.Watch(ctx)

	view := tui.NewView(raycast.DefaultCamera())
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-parent.Done():
			return false, nil
		case event, ok := <-watchCh:
			if !ok {
				return false, nil
			}
			logger.Info("Vault changed", "scene", event)
			return true, nil
		case <-ticker.C:
			if autoHover {
				sweepPointer(inst, time.Since(start))
			}
			frame := inst.Frame()
			if frame == nil {
				return false, nil
			}
			fmt.Print("\033[H\033[2J")
			fmt.Print(view.Render(frame))
		}
	}
}

// waitForChange blocks until the vault changes or the context is cancelled,
// used when the current vault state cannot be mounted.
func waitForChange(parent *SignalContext, engine *nexus.Engine, cause error) (bool, error) {
	watchCh, err := engine.Watch(parent)
	if err != nil {
		return false, cause
	}
	select {
	case <-parent.Done():
		return false, nil
	case _, ok := <-watchCh:
		return ok, nil
	}
}

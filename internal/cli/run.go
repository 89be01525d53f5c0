package cli

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aretw0/nexus"
	"github.com/aretw0/nexus/internal/presentation/tui"
	"github.com/aretw0/nexus/internal/raycast"
)

// redrawInterval throttles terminal output; the simulation itself runs at
// the engine's frame interval.
const redrawInterval = 100 * time.Millisecond

// RunView mounts a scene and renders it to the terminal until interrupted.
// When autoHover is set, a synthetic pointer sweeps the viewport so hover
// highlighting is visible without real mouse input.
func RunView(opts RunOptions, autoHover bool) error {
	logger := CreateLogger(opts.Debug)
	if !opts.Quiet {
		tui.PrintBanner()
	}

	engine, err := CreateEngine(opts, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	sceneID, err := resolveSceneID(engine, opts.SceneID)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	inst, err := engine.Mount(sigCtx, sceneID)
	if err != nil {
		return err
	}
	defer func() { _ = engine.Unmount(inst.ID()) }()

	if !opts.Quiet {
		printSystemMessage("Mounted scene '%s' as instance '%s'.", sceneID, inst.ID())
		printSystemMessage("Press Ctrl+C to exit.")
	}

	view := tui.NewView(raycast.DefaultCamera())
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-sigCtx.Done():
			if !opts.Quiet {
				fmt.Println()
				printSystemMessage("Scene unmounted.")
			}
			return nil
		case <-ticker.C:
			if autoHover {
				sweepPointer(inst, time.Since(start))
			}
			frame := inst.Frame()
			if frame == nil {
				return nil
			}
			// Home the cursor instead of clearing to avoid flicker.
			fmt.Print("\033[H\033[2J")
			fmt.Print(view.Render(frame))
		}
	}
}

// sweepPointer drives the pointer along a slow Lissajous curve in NDC space.
func sweepPointer(inst *nexus.Instance, elapsed time.Duration) {
	t := elapsed.Seconds()
	nx := 0.6 * math.Sin(0.5*t)
	ny := 0.4 * math.Sin(0.8*t+1.3)
	inst.PointerMove(nx, ny)
}

// resolveSceneID picks the scene to mount: the explicit flag value, or the
// vault's only scene, or an error listing the candidates.
func resolveSceneID(engine *nexus.Engine, sceneID string) (string, error) {
	if sceneID != "" {
		return sceneID, nil
	}
	scenes, err := engine.Scenes()
	if err != nil {
		return "", fmt.Errorf("failed to list scenes: %w", err)
	}
	switch len(scenes) {
	case 0:
		return "", fmt.Errorf("no scenes found")
	case 1:
		return scenes[0], nil
	default:
		return "", fmt.Errorf("multiple scenes available %v, pick one with --scene", scenes)
	}
}

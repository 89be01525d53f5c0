/*
Package nexus is a force-directed 3D scene engine for rendering constellations of interconnected nodes, designed for dashboards, terminals and agent tooling.

It separates the scene definition (Structure) from the live simulation (Physics) and the render output (Frames).

# Concept

Nexus treats a scene as a graph of categorized nodes connected by edges. The engine seeds the nodes in space, then a physics loop pulls connected nodes together, pushes all nodes apart and damps the motion until the layout settles. Every step emits a self-contained render frame, so any front end (a terminal viewport, a browser over SSE, an AI agent over MCP) can draw the scene without touching the simulation. This Hexagonal Architecture allows Nexus to be embedded in any interface.

# Key Features

  - Deterministic Simulation: Given the same seed and step sizes, the layout is always reproducible.
  - Hexagonal Architecture: Core physics is decoupled from adapters (Loaders, Stores, Transports).
  - Hover Raycasting: Pointer coordinates are cast through a perspective camera to pick and highlight nodes.
  - Snapshot Persistence: Instance state can be saved and restored through memory, file or Redis stores.

# Usage

Initialize the engine with a vault path or a custom loader, then mount a scene.

	package main

	import (
		"context"
		"log"
		"time"

		"github.com/aretw0/nexus"
	)

	func main() {
		// Initialize Engine with default settings (reads from ./my-vault)
		eng, err := nexus.New("./my-vault")
		if err != nil {
			log.Fatal(err)
		}
		defer eng.Close()

		// Mount a scene; a frame loop starts advancing the physics.
		ctx := context.Background()
		inst, err := eng.Mount(ctx, "constellation")
		if err != nil {
			log.Fatal(err)
		}

		// Read frames whenever the front end needs to redraw.
		for i := 0; i < 10; i++ {
			time.Sleep(100 * time.Millisecond)
			frame := inst.Frame()
			log.Printf("frame %d: %d nodes", frame.Seq, len(frame.Nodes))
		}

		// Hover whatever sits under the pointer.
		if hovered := inst.PointerMove(0.1, -0.2); hovered != "" {
			log.Printf("hovering %s", hovered)
		}
	}
*/
package nexus

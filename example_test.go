package nexus_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aretw0/nexus"
	"github.com/aretw0/nexus/pkg/dsl"
)

// ExampleNew_memory demonstrates how to use the Engine with an in-memory
// scene definition. This is useful for testing, embedded scenarios, or when
// you don't want to rely on the file system.
func ExampleNew_memory() {
	// 1. Define your scene using the builder for clean, type-safe construction.
	b := dsl.New("demo").Title("Demo Constellation")
	b.Financial("ledger").Label("Ledger")
	b.ML("model").Label("Model").Link("ledger")
	b.Advanced("audit").Label("Audit").Link("ledger")

	loader, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	// 2. Initialize Nexus with the custom loader.
	// Note: We leave path empty ("") because we are providing a loader.
	engine, err := nexus.New("", nexus.WithLoader(loader), nexus.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	// 3. Mount without a frame loop and drive the simulation manually.
	inst, err := engine.Mount(context.Background(), "demo", nexus.WithoutLoop())
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		inst.Step(16 * time.Millisecond)
	}

	frame := inst.Frame()
	fmt.Printf("Scene: %s\n", frame.SceneID)
	fmt.Printf("Frames: %d\n", frame.Seq)
	fmt.Printf("Nodes: %d, Edges: %d\n", len(frame.Nodes), len(frame.Edges))
	// Output:
	// Scene: demo
	// Frames: 10
	// Nodes: 3, Edges: 2
}

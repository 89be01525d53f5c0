package nexus_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nexus "github.com/aretw0/nexus"
	"github.com/aretw0/nexus/internal/metrics"
	"github.com/aretw0/nexus/internal/scene"
	"github.com/aretw0/nexus/pkg/adapters/memory"
	"github.com/aretw0/nexus/pkg/domain"
	"github.com/aretw0/nexus/pkg/dsl"
)

func newEngine(t *testing.T, opts ...nexus.Option) *nexus.Engine {
	t.Helper()

	loader, err := memory.NewFromDefinitions(dsl.BuiltinScene())
	require.NoError(t, err)

	opts = append([]nexus.Option{nexus.WithLoader(loader)}, opts...)
	eng, err := nexus.New("", opts...)
	require.NoError(t, err)
	return eng
}

func TestNewRequiresLoaderOrPath(t *testing.T) {
	_, err := nexus.New("")
	assert.Error(t, err)
}

func TestEngineScenesAndInspect(t *testing.T) {
	eng := newEngine(t)

	scenes, err := eng.Scenes()
	require.NoError(t, err)
	assert.Equal(t, []string{"nexus"}, scenes)

	def, err := eng.Inspect("nexus")
	require.NoError(t, err)
	assert.Equal(t, "nexus", def.ID)
	assert.NotEmpty(t, def.Nodes)

	_, err = eng.Inspect("ghost")
	assert.Error(t, err)
}

func TestEngineInspectRejectsInvalidScene(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"broken": `{"id": "broken", "nodes": [{"id": "a", "category": "ml"}], "edges": [{"source": "a", "target": "ghost"}]}`,
	})
	eng, err := nexus.New("", nexus.WithLoader(loader))
	require.NoError(t, err)

	_, err = eng.Inspect("broken")
	assert.ErrorContains(t, err, "invalid")
}

func TestEngineMountAndUnmount(t *testing.T) {
	eng := newEngine(t)
	defer eng.Close()

	ctx := context.Background()
	inst, err := eng.Mount(ctx, "nexus", nexus.WithInstanceID("main"))
	require.NoError(t, err)
	assert.Equal(t, "main", inst.ID())
	assert.Equal(t, "nexus", inst.SceneID())
	assert.Contains(t, eng.Instances(), "main")

	// The loop produces frames on its own.
	deadline := time.Now().Add(2 * time.Second)
	for inst.Frame().Seq == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Positive(t, inst.Frame().Seq, "frame loop did not advance")

	// Duplicate instance IDs are rejected.
	_, err = eng.Mount(ctx, "nexus", nexus.WithInstanceID("main"))
	assert.Error(t, err)

	require.NoError(t, eng.Unmount("main"))
	assert.Empty(t, eng.Instances())
	assert.ErrorIs(t, eng.Unmount("main"), domain.ErrSceneNotFound)
}

func TestEngineManualStepping(t *testing.T) {
	eng := newEngine(t, nexus.WithSeed(7))
	defer eng.Close()

	inst, err := eng.Mount(context.Background(), "nexus", nexus.WithoutLoop())
	require.NoError(t, err)
	assert.False(t, inst.Running())

	f1 := inst.Step(16 * time.Millisecond)
	f2 := inst.Step(16 * time.Millisecond)
	require.NotNil(t, f1)
	assert.Equal(t, f1.Seq+1, f2.Seq)
}

func TestEngineSnapshotRoundTrip(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(t, nexus.WithSnapshotStore(store))
	defer eng.Close()

	ctx := context.Background()
	inst, err := eng.Mount(ctx, "nexus", nexus.WithInstanceID("persisted"), nexus.WithoutLoop())
	require.NoError(t, err)

	inst.Step(16 * time.Millisecond)
	require.NoError(t, eng.SaveSnapshot(ctx, "persisted"))
	want := inst.Frame()

	for i := 0; i < 5; i++ {
		inst.Step(16 * time.Millisecond)
	}

	require.NoError(t, eng.RestoreSnapshot(ctx, "persisted"))
	assert.Equal(t, want.Nodes, inst.Frame().Nodes)
}

func TestEngineCountsHoverTransitions(t *testing.T) {
	// One node spawned at the origin, straight under the NDC (0, 0) ray.
	loader, err := memory.NewFromDefinitions(&domain.Definition{
		ID:    "solo",
		Nodes: []domain.NodeSpec{{ID: "core", Category: domain.CategoryML}},
	})
	require.NoError(t, err)

	sceneOpts := scene.DefaultOptions()
	sceneOpts.SpawnRadius = 0

	var entered []string
	collector := metrics.NewCollector("test")
	eng, err := nexus.New("",
		nexus.WithLoader(loader),
		nexus.WithMetrics(collector),
		nexus.WithSceneOptions(sceneOpts),
		nexus.WithLifecycleHooks(domain.LifecycleHooks{
			OnHoverEnter: func(_ context.Context, e *domain.HoverEvent) {
				entered = append(entered, e.NodeID)
			},
		}),
	)
	require.NoError(t, err)
	defer eng.Close()

	inst, err := eng.Mount(context.Background(), "solo", nexus.WithoutLoop())
	require.NoError(t, err)

	require.Equal(t, "core", inst.PointerMove(0, 0))
	inst.PointerLeave()
	require.Equal(t, "core", inst.PointerMove(0, 0))

	enters := testutil.ToFloat64(collector.HoverTransitions.WithLabelValues("solo", "enter"))
	leaves := testutil.ToFloat64(collector.HoverTransitions.WithLabelValues("solo", "leave"))
	assert.Equal(t, 2.0, enters)
	assert.Equal(t, 1.0, leaves)

	// Instrumentation wraps the caller's hooks rather than replacing them.
	assert.Equal(t, []string{"core", "core"}, entered)
}

func TestInstanceNodeLookup(t *testing.T) {
	eng := newEngine(t)
	defer eng.Close()

	inst, err := eng.Mount(context.Background(), "nexus", nexus.WithoutLoop())
	require.NoError(t, err)

	def := inst.Definition()
	require.NotEmpty(t, def.Nodes)

	node, err := inst.Node(def.Nodes[0].ID)
	require.NoError(t, err)
	assert.Equal(t, def.Nodes[0].ID, node.ID)
	assert.Equal(t, 1.0, node.Scale)

	_, err = inst.Node("ghost")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestEngineSnapshotWithoutStore(t *testing.T) {
	eng := newEngine(t)
	defer eng.Close()

	err := eng.SaveSnapshot(context.Background(), "whatever")
	assert.ErrorContains(t, err, "no snapshot store")
}

func TestEngineWatchUnsupported(t *testing.T) {
	eng := newEngine(t)
	_, err := eng.Watch(context.Background())
	assert.Error(t, err, "memory loader is not watchable")
}

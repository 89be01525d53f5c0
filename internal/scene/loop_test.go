package scene

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/nexus/pkg/domain"
	"github.com/aretw0/nexus/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectSink gathers published frames behind a mutex so the test goroutine
// can inspect them while the loop runs.
type collectSink struct {
	mu     sync.Mutex
	frames []*domain.Frame
}

var _ ports.FrameSink = (*collectSink)(nil)

func (c *collectSink) Publish(_ context.Context, f *domain.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
}

func (c *collectSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func (c *collectSink) last() *domain.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestLoopPublishesFrames(t *testing.T) {
	s := Mount(testDefinition(), DefaultOptions())
	defer s.Unmount()

	sink := &collectSink{}
	loop := NewLoop(s, WithInterval(time.Millisecond), WithSinks(sink))

	loop.Start(context.Background())
	waitFor(t, 2*time.Second, func() bool { return sink.count() >= 5 })
	loop.Stop()

	require.GreaterOrEqual(t, sink.count(), 5)
	last := sink.last()
	assert.Equal(t, "test-scene", last.SceneID)
	assert.Positive(t, last.Seq)
	assert.False(t, loop.Running())
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	s := Mount(testDefinition(), DefaultOptions())
	defer s.Unmount()

	sink := &collectSink{}
	loop := NewLoop(s, WithInterval(time.Millisecond), WithSinks(sink))

	ctx, cancel := context.WithCancel(context.Background())
	loop.Start(ctx)
	waitFor(t, 2*time.Second, func() bool { return sink.count() >= 1 })

	cancel()
	waitFor(t, 2*time.Second, func() bool { return !loop.Running() })

	// No new frames arrive once the loop has wound down.
	settled := sink.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, settled, sink.count())
}

func TestLoopExitsWhenSceneUnmounts(t *testing.T) {
	s := Mount(testDefinition(), DefaultOptions())

	loop := NewLoop(s, WithInterval(time.Millisecond))
	loop.Start(context.Background())

	s.Unmount()
	waitFor(t, 2*time.Second, func() bool { return !loop.Running() })
}

func TestLoopStopIsIdempotent(t *testing.T) {
	s := Mount(testDefinition(), DefaultOptions())
	defer s.Unmount()

	loop := NewLoop(s, WithInterval(time.Millisecond))
	loop.Start(context.Background())
	loop.Stop()
	loop.Stop()
	assert.False(t, loop.Running())

	// Stop before Start is also safe.
	fresh := NewLoop(s)
	fresh.Stop()
}

func TestLoopStartTwiceIsNoop(t *testing.T) {
	s := Mount(testDefinition(), DefaultOptions())
	defer s.Unmount()

	sink := &collectSink{}
	loop := NewLoop(s, WithInterval(time.Millisecond), WithSinks(sink))
	loop.Start(context.Background())
	loop.Start(context.Background())
	defer loop.Stop()

	waitFor(t, 2*time.Second, func() bool { return sink.count() >= 3 })

	// Sequence numbers are strictly increasing; a second goroutine would
	// produce duplicates.
	sink.mu.Lock()
	defer sink.mu.Unlock()
	for i := 1; i < len(sink.frames); i++ {
		assert.Greater(t, sink.frames[i].Seq, sink.frames[i-1].Seq)
	}
}

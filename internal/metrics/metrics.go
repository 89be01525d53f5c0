// Package metrics exposes the engine's Prometheus instrumentation.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/nexus/pkg/domain"
)

// Collector holds the Prometheus metrics for the scene engine. Metrics are
// created against an explicit registry so tests can build isolated
// collectors without duplicate-registration panics.
type Collector struct {
	registry *prometheus.Registry

	// Frame loop metrics
	FramesTotal   *prometheus.CounterVec
	FrameDuration *prometheus.HistogramVec

	// Interaction metrics
	HoverTransitions *prometheus.CounterVec

	// Lifecycle metrics
	ActiveScenes   prometheus.Gauge
	SnapshotsSaved prometheus.Counter
}

// NewCollector creates and registers the engine's metrics.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	framesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of simulation frames stepped",
		},
		[]string{"scene"},
	)

	frameDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time spent stepping one frame",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"scene"},
	)

	hoverTransitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hover_transitions_total",
			Help:      "Hover state transitions, labeled enter or leave",
		},
		[]string{"scene", "direction"},
	)

	activeScenes := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_scenes",
			Help:      "Number of currently mounted scene instances",
		},
	)

	snapshotsSaved := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_saved_total",
			Help:      "Total number of snapshots persisted",
		},
	)

	registry.MustRegister(framesTotal, frameDuration, hoverTransitions, activeScenes, snapshotsSaved)

	return &Collector{
		registry:         registry,
		FramesTotal:      framesTotal,
		FrameDuration:    frameDuration,
		HoverTransitions: hoverTransitions,
		ActiveScenes:     activeScenes,
		SnapshotsSaved:   snapshotsSaved,
	}
}

// Registry returns the collector's registry for mounting an HTTP handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// InstrumentHooks wraps lifecycle hooks so hover transitions are counted.
// The counter increments before the caller's own hook, if any, runs.
func InstrumentHooks(hooks domain.LifecycleHooks, c *Collector, sceneID string) domain.LifecycleHooks {
	enter, leave := hooks.OnHoverEnter, hooks.OnHoverLeave
	hooks.OnHoverEnter = func(ctx context.Context, e *domain.HoverEvent) {
		c.HoverTransitions.WithLabelValues(sceneID, "enter").Inc()
		if enter != nil {
			enter(ctx, e)
		}
	}
	hooks.OnHoverLeave = func(ctx context.Context, e *domain.HoverEvent) {
		c.HoverTransitions.WithLabelValues(sceneID, "leave").Inc()
		if leave != nil {
			leave(ctx, e)
		}
	}
	return hooks
}

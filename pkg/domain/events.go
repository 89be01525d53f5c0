package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventMount      EventType = "mount"
	EventUnmount    EventType = "unmount"
	EventFrame      EventType = "frame"
	EventHoverEnter EventType = "hover_enter"
	EventHoverLeave EventType = "hover_leave"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SceneID   string    `json:"scene_id"`
}

// SceneEvent marks a scene lifecycle transition (mount/unmount).
type SceneEvent struct {
	EventBase
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// FrameEvent describes one completed simulation step.
type FrameEvent struct {
	EventBase
	Seq   uint64        `json:"seq"`
	Delta time.Duration `json:"delta"`
}

// HoverEvent describes a hover-state transition on a single node.
type HoverEvent struct {
	EventBase
	NodeID string `json:"node_id"`
}

// LifecycleHooks defines callbacks for scene observability. All fields are
// optional; nil hooks are skipped. Hooks are invoked synchronously from the
// frame loop and must be cheap.
type LifecycleHooks struct {
	OnMount      func(context.Context, *SceneEvent)
	OnUnmount    func(context.Context, *SceneEvent)
	OnFrame      func(context.Context, *FrameEvent)
	OnHoverEnter func(context.Context, *HoverEvent)
	OnHoverLeave func(context.Context, *HoverEvent)
}

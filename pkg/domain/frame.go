package domain

import "time"

// NodeTransform is the per-node render update emitted every frame: the
// data a renderer needs to move the corresponding mesh.
type NodeTransform struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Position Vec3     `json:"position"`
	Scale    float64  `json:"scale"`
	Emissive float64  `json:"emissive"`
	Hovered  bool     `json:"hovered"`
}

// EdgeSegment is the per-edge render update: resolved endpoint positions
// plus the highlight flag driven by hover.
type EdgeSegment struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	From        Vec3   `json:"from"`
	To          Vec3   `json:"to"`
	Highlighted bool   `json:"highlighted"`
}

// Touches reports whether the segment has id as either endpoint.
func (e EdgeSegment) Touches(id string) bool {
	return e.Source == id || e.Target == id
}

// Frame is the render-sync payload produced after each simulation step.
// It is a self-contained value: sinks may retain it without holding any
// reference into the live scene.
type Frame struct {
	SceneID string          `json:"scene_id"`
	Seq     uint64          `json:"seq"`
	Delta   time.Duration   `json:"delta"`
	Nodes   []NodeTransform `json:"nodes"`
	Edges   []EdgeSegment   `json:"edges"`
}

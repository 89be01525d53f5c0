package domain

import "time"

// Definition is a named scene: the static node list and adjacency list a
// live scene is mounted from. Definitions are immutable once loaded; all
// per-frame mutation happens on the live copies inside the runtime.
type Definition struct {
	ID    string     `json:"id" yaml:"id"`
	Title string     `json:"title,omitempty" yaml:"title,omitempty"`
	Nodes []NodeSpec `json:"nodes" yaml:"nodes"`
	Edges []Edge     `json:"edges" yaml:"edges"`
}

// NodeIDs returns the set of node IDs in the definition.
func (d *Definition) NodeIDs() map[string]bool {
	ids := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		ids[n.ID] = true
	}
	return ids
}

// Snapshot is a persistable capture of a live scene's simulation state:
// everything needed to resume the ambient animation where it left off.
type Snapshot struct {
	SceneID    string    `json:"scene_id"`
	Seed       int64     `json:"seed"`
	FrameSeq   uint64    `json:"frame_seq"`
	CapturedAt time.Time `json:"captured_at"`

	// Nodes carries the full live entities (positions, velocities and
	// render attributes). Edge topology is not persisted; it is re-read
	// from the definition on restore.
	Nodes []Node `json:"nodes"`

	// HoveredID is the node under the pointer when the capture was taken,
	// or empty.
	HoveredID string `json:"hovered_id,omitempty"`
}

// NewSnapshot creates an empty snapshot for a scene.
func NewSnapshot(sceneID string) *Snapshot {
	return &Snapshot{
		SceneID:    sceneID,
		CapturedAt: time.Now().UTC(),
	}
}

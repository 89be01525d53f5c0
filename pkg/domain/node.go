package domain

// Category classifies a node for styling and grouping purposes.
type Category string

// Built-in categories. Loaders reject anything else unless the scene
// definition declares custom categories.
const (
	CategoryML        Category = "ml"
	CategoryFinancial Category = "financial"
	CategoryAdvanced  Category = "advanced"
)

// KnownCategory reports whether c is one of the built-in categories.
func KnownCategory(c Category) bool {
	switch c {
	case CategoryML, CategoryFinancial, CategoryAdvanced:
		return true
	}
	return false
}

// NodeSpec is the static descriptor of a node, fixed at mount time.
type NodeSpec struct {
	ID       string   `json:"id" yaml:"id"`
	Category Category `json:"category" yaml:"category"`

	// Label is an optional human-readable name shown by renderers.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Node is the live simulation entity. It owns its render attributes
// (the mesh-handle stand-in) for the lifetime of the mounted scene:
// created at mount, mutated every frame, destroyed at unmount.
type Node struct {
	NodeSpec

	Position Vec3 `json:"position"`
	Velocity Vec3 `json:"velocity"`

	// Scale and Emissive are the render attributes driven by the hover
	// state machine. Scale multiplies the base pick radius.
	Scale    float64 `json:"scale"`
	Emissive float64 `json:"emissive"`

	// Hovered marks the node currently under the pointer. At most one
	// node in a scene has Hovered == true.
	Hovered bool `json:"hovered"`
}

// Edge connects two nodes by ID. Both endpoints must reference nodes that
// exist in the same scene definition; the validator enforces this before
// a scene can be mounted.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Touches reports whether the edge has id as either endpoint.
func (e Edge) Touches(id string) bool {
	return e.Source == id || e.Target == id
}

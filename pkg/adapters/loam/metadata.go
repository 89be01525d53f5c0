package loam

// SceneMetadata represents the frontmatter of a scene document in a Loam
// vault. It uses "mapstructure" tags to match standard frontmatter keys.
type SceneMetadata struct {
	ID    string      `json:"id" mapstructure:"id"`
	Title string      `json:"title" mapstructure:"title"`
	Nodes []NodeEntry `json:"nodes" mapstructure:"nodes"`
	Edges []EdgeEntry `json:"edges" mapstructure:"edges"`
}

// NodeEntry is one node descriptor in the frontmatter.
type NodeEntry struct {
	ID       string `json:"id" mapstructure:"id"`
	Category string `json:"category" mapstructure:"category"`
	Label    string `json:"label" mapstructure:"label"`
}

// EdgeEntry is one adjacency entry. Authors may write source/target or the
// shorter from/to; both map to the same edge.
type EdgeEntry struct {
	Source string `json:"source" mapstructure:"source"`
	From   string `json:"from" mapstructure:"from"`
	Target string `json:"target" mapstructure:"target"`
	To     string `json:"to" mapstructure:"to"`
}

package dsl

import (
	"fmt"

	"github.com/aretw0/nexus/pkg/adapters/memory"
	"github.com/aretw0/nexus/pkg/domain"
)

// Builder manages the scene construction.
type Builder struct {
	id    string
	title string
	order []string
	nodes map[string]*NodeBuilder
	edges []domain.Edge
}

// New creates a new scene builder for the given scene ID.
func New(id string) *Builder {
	return &Builder{
		id:    id,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Title sets the scene's display title.
func (b *Builder) Title(title string) *Builder {
	b.title = title
	return b
}

// Add creates a new node with the given category.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string, category domain.Category) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		spec: domain.NodeSpec{
			ID:       id,
			Category: category,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// ML adds a node in the ml category.
func (b *Builder) ML(id string) *NodeBuilder {
	return b.Add(id, domain.CategoryML)
}

// Financial adds a node in the financial category.
func (b *Builder) Financial(id string) *NodeBuilder {
	return b.Add(id, domain.CategoryFinancial)
}

// Advanced adds a node in the advanced category.
func (b *Builder) Advanced(id string) *NodeBuilder {
	return b.Add(id, domain.CategoryAdvanced)
}

// Connect adds an edge between two node IDs.
func (b *Builder) Connect(source, target string) *Builder {
	b.edges = append(b.edges, domain.Edge{Source: source, Target: target})
	return b
}

// Definition compiles the scene into a domain.Definition, preserving the
// order nodes were added in.
func (b *Builder) Definition() *domain.Definition {
	def := &domain.Definition{
		ID:    b.id,
		Title: b.title,
		Nodes: make([]domain.NodeSpec, 0, len(b.order)),
		Edges: append([]domain.Edge(nil), b.edges...),
	}
	for _, id := range b.order {
		def.Nodes = append(def.Nodes, b.nodes[id].spec)
	}
	return def
}

// Build compiles the scene into a MemoryLoader.
func (b *Builder) Build() (*memory.Loader, error) {
	loader, err := memory.NewFromDefinitions(b.Definition())
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

package dsl

import "github.com/aretw0/nexus/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	spec    domain.NodeSpec
	builder *Builder
}

// Label sets the node's display label.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	n.spec.Label = label
	return n
}

// Link adds an edge from this node to the target node.
func (n *NodeBuilder) Link(target string) *NodeBuilder {
	n.builder.Connect(n.spec.ID, target)
	return n
}

// Spec returns the underlying domain.NodeSpec.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Spec() domain.NodeSpec {
	return n.spec
}

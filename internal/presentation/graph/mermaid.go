// Package graph renders scene definitions as Mermaid diagrams for docs and
// the CLI's graph command.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/nexus/pkg/domain"
)

// Overlay carries live state to visualize on top of the static topology.
type Overlay struct {
	HoveredNode string
}

// GenerateMermaid produces a Mermaid flowchart from a scene definition.
// Node shape encodes the category:
// - ml: ((Circle))
// - financial: [[Subroutine]]
// - advanced: {{Hexagon}}
// Edges touching the hovered node (if an overlay is given) are drawn thick.
func GenerateMermaid(def *domain.Definition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range def.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Category {
		case domain.CategoryML:
			opener, closer = "((", "))"
		case domain.CategoryFinancial:
			opener, closer = "[[", "]]"
		case domain.CategoryAdvanced:
			opener, closer = "{{", "}}"
		}

		label := node.Label
		if label == "" {
			label = node.ID
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
	}

	hovered := ""
	if overlay != nil {
		hovered = overlay.HoveredNode
	}

	for _, e := range def.Edges {
		arrow := "---"
		if hovered != "" && e.Touches(hovered) {
			arrow = "==="
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.Source), arrow, sanitizeMermaidID(e.Target)))
	}

	if hovered != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high contrast regardless of theme.
		sb.WriteString("    classDef hovered fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s hovered;\n", sanitizeMermaidID(hovered)))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}

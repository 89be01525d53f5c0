package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/nexus/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
// It auto-detects the terminal background for light/dark styling.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// DescribeScene builds a markdown summary of a scene definition, suitable
// for the glamour renderer.
func DescribeScene(def *domain.Definition) string {
	var sb strings.Builder

	title := def.Title
	if title == "" {
		title = def.ID
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("%d nodes, %d edges\n\n", len(def.Nodes), len(def.Edges)))

	byCategory := map[domain.Category][]string{}
	for _, n := range def.Nodes {
		name := n.Label
		if name == "" {
			name = n.ID
		}
		byCategory[n.Category] = append(byCategory[n.Category], name)
	}

	for _, cat := range []domain.Category{domain.CategoryML, domain.CategoryFinancial, domain.CategoryAdvanced} {
		names := byCategory[cat]
		if len(names) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", cat))
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("- %s\n", name))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

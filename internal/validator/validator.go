// Package validator checks scene definitions before they are mounted.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/nexus/pkg/domain"
)

// ValidateDefinition checks the static integrity of a scene definition:
// node IDs must be unique and non-empty, categories must be known, and
// every edge endpoint must reference a declared node. All problems are
// collected and reported together.
func ValidateDefinition(def *domain.Definition) error {
	var errs []string

	seen := make(map[string]bool, len(def.Nodes))
	for i, n := range def.Nodes {
		if n.ID == "" {
			errs = append(errs, fmt.Sprintf("node %d has an empty ID", i))
			continue
		}
		if seen[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node ID: '%s'", n.ID))
		}
		seen[n.ID] = true

		if !domain.KnownCategory(n.Category) {
			errs = append(errs, fmt.Sprintf("node '%s' has unknown category: '%s'", n.ID, n.Category))
		}
	}

	for _, e := range def.Edges {
		if !seen[e.Source] {
			errs = append(errs, fmt.Sprintf("edge [%s -> %s] references missing source node", e.Source, e.Target))
		}
		if !seen[e.Target] {
			errs = append(errs, fmt.Sprintf("edge [%s -> %s] references missing target node", e.Source, e.Target))
		}
		if e.Source == e.Target {
			errs = append(errs, fmt.Sprintf("edge [%s -> %s] is a self-loop", e.Source, e.Target))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(errs, "\n- "))
	}
	return nil
}

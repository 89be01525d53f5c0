// Package loam adapts a Loam vault to the ports.SceneLoader interface, so
// scenes can live as frontmatter documents next to the notes that describe
// them.
package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/nexus/pkg/domain"
)

// Loader adapts the Loam library to the SceneLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[SceneMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[SceneMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// GetScene retrieves a scene from the Loam repository and normalizes it to
// the JSON document the compiler expects. Loam resolves "demo" to demo.md
// or demo.yaml on its own.
func (l *Loader) GetScene(id string) ([]byte, error) {
	ctx := context.Background()

	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	def := l.buildDefinition(doc.ID, doc.Data)

	bytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scene data: %w", err)
	}
	return bytes, nil
}

func (l *Loader) buildDefinition(docID string, meta SceneMetadata) *domain.Definition {
	rawID := meta.ID
	if rawID == "" {
		rawID = docID
	}

	def := &domain.Definition{
		ID:    trimExtension(rawID),
		Title: meta.Title,
		Nodes: make([]domain.NodeSpec, 0, len(meta.Nodes)),
		Edges: make([]domain.Edge, 0, len(meta.Edges)),
	}

	for _, n := range meta.Nodes {
		def.Nodes = append(def.Nodes, domain.NodeSpec{
			ID:       n.ID,
			Category: domain.Category(n.Category),
			Label:    n.Label,
		})
	}

	for _, e := range meta.Edges {
		source := e.Source
		if source == "" {
			source = e.From
		}
		target := e.Target
		if target == "" {
			target = e.To
		}
		def.Edges = append(def.Edges, domain.Edge{Source: source, Target: target})
	}

	return def
}

// ListScenes lists all scenes in the repository.
func (l *Loader) ListScenes() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Prefer the frontmatter ID, falling back to the filename.
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	return ids, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	// Loam's watcher handles recursion and debounce; the doublestar
	// pattern covers every format the loader serves.
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

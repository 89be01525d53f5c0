// Package memory provides in-memory adapters, mainly for tests and the
// built-in demo scene.
package memory

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/nexus/pkg/domain"
)

// Loader implements ports.SceneLoader using an in-memory map.
type Loader struct {
	scenes map[string][]byte
}

// NewLoader creates a Loader from raw scene documents (JSON or YAML).
func NewLoader(data map[string]string) *Loader {
	scenes := make(map[string][]byte)
	for k, v := range data {
		scenes[k] = []byte(v)
	}
	return &Loader{scenes: scenes}
}

// NewFromDefinitions creates a Loader from domain objects, handling the
// serialization automatically. Improves DX for tests.
func NewFromDefinitions(defs ...*domain.Definition) (*Loader, error) {
	data := make(map[string][]byte)
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("scene missing ID")
		}
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal scene %s: %w", d.ID, err)
		}
		data[d.ID] = raw
	}
	return &Loader{scenes: data}, nil
}

// GetScene retrieves the raw definition of a scene by ID.
func (l *Loader) GetScene(id string) ([]byte, error) {
	content, ok := l.scenes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSceneNotFound, id)
	}
	return content, nil
}

// ListScenes returns all available scene IDs.
func (l *Loader) ListScenes() ([]string, error) {
	keys := make([]string, 0, len(l.scenes))
	for k := range l.scenes {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}

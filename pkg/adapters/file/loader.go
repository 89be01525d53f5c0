package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/nexus/pkg/domain"
)

var sceneExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// Loader implements ports.SceneLoader over a directory of scene files.
// A scene's ID is its filename without the extension; JSON and YAML files
// are both picked up.
type Loader struct {
	BasePath string
}

// NewLoader creates a Loader rooted at basePath.
func NewLoader(basePath string) *Loader {
	return &Loader{BasePath: basePath}
}

// GetScene reads the raw bytes of a scene file by ID, trying each known
// extension in a fixed order.
func (l *Loader) GetScene(id string) ([]byte, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		data, err := os.ReadFile(filepath.Join(l.BasePath, id+ext))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read scene file: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrSceneNotFound, id)
}

// ListScenes returns the IDs of every scene file in the directory.
func (l *Loader) ListScenes() ([]string, error) {
	entries, err := os.ReadDir(l.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}

	var ids []string
	seen := map[string]bool{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !sceneExtensions[ext] {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Watch implements ports.Watchable via fsnotify. The returned channel
// receives the ID of each scene whose file is created or modified, and is
// closed when ctx is cancelled.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(l.BasePath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", l.BasePath, err)
	}

	ch := make(chan string, 8)
	go func() {
		defer close(ch)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				ext := filepath.Ext(event.Name)
				if !sceneExtensions[ext] {
					continue
				}
				id := strings.TrimSuffix(filepath.Base(event.Name), ext)
				select {
				case ch <- id:
				default:
					// Consumer is behind; drop rather than stall the watcher.
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return ch, nil
}

package ports

import "context"

// SceneLoader defines how the engine retrieves scene definitions.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type SceneLoader interface {
	// GetScene retrieves the raw definition of a scene by ID.
	// It returns the raw bytes (which the compiler will parse) or an error.
	GetScene(id string) ([]byte, error)

	// ListScenes returns the IDs of all scenes available to this loader.
	// Used for introspection and the 'nexus scenes' command.
	ListScenes() ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend
// changes. This is typically used for hot-reload in dev mode.
type Watchable interface {
	// Watch returns a channel that receives the ID of a changed scene.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan string, error)
}

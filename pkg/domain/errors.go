package domain

import "errors"

// ErrSceneNotFound is returned when a scene ID cannot be found by a loader.
var ErrSceneNotFound = errors.New("scene not found")

// ErrSnapshotNotFound is returned when a snapshot ID cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrNodeNotFound is returned when a node ID does not exist in the scene.
var ErrNodeNotFound = errors.New("node not found")

// ErrSceneClosed is returned by operations on a scene after Unmount.
var ErrSceneClosed = errors.New("scene is unmounted")

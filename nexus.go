package nexus

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/loam"
	"github.com/google/uuid"

	"github.com/aretw0/nexus/internal/compiler"
	"github.com/aretw0/nexus/internal/logging"
	"github.com/aretw0/nexus/internal/metrics"
	"github.com/aretw0/nexus/internal/scene"
	"github.com/aretw0/nexus/internal/validator"
	loamAdapter "github.com/aretw0/nexus/pkg/adapters/loam"
	"github.com/aretw0/nexus/pkg/domain"
	"github.com/aretw0/nexus/pkg/ports"
	"github.com/aretw0/nexus/pkg/snapshot"
)

// Engine is the high-level entry point for the Nexus library.
// It wraps the internal scene runtime and provides a simplified API for
// consumers.
type Engine struct {
	loader    ports.SceneLoader
	parser    *compiler.Parser
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	sceneOpts scene.Options
	interval  time.Duration
	collector *metrics.Collector
	snapshots *snapshot.Manager
	Name      string

	mu        sync.Mutex
	instances map[string]*Instance
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom SceneLoader, bypassing the default Loam
// initialization.
func WithLoader(l ports.SceneLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithSeed fixes the initial-position seed, making mounts reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.sceneOpts.Seed = seed
	}
}

// WithSceneOptions replaces the full simulation tuning (physics constants,
// camera, hover attributes).
func WithSceneOptions(opts scene.Options) Option {
	return func(e *Engine) {
		e.sceneOpts = opts
	}
}

// WithFrameInterval sets the frame loop tick interval (default ~60/s).
func WithFrameInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithMetrics wires a Prometheus collector into every mounted scene.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) {
		e.collector = c
	}
}

// WithSnapshotStore enables snapshot persistence through the given store.
func WithSnapshotStore(store ports.SnapshotStore, opts ...snapshot.Option) Option {
	return func(e *Engine) {
		e.snapshots = snapshot.NewManager(store, opts...)
	}
}

// New initializes a new Nexus Engine.
// By default it reads scenes from a Loam vault at the given path.
// If WithLoader is provided, vaultPath can be empty and Loam is skipped.
func New(vaultPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		parser:    compiler.NewParser(),
		sceneOpts: scene.DefaultOptions(),
		interval:  16 * time.Millisecond,
		instances: make(map[string]*Instance),
	}

	// Apply options first to check if a loader is provided.
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if vaultPath == "" {
			return nil, fmt.Errorf("vaultPath is required when no custom loader is provided")
		}

		absPath, err := filepath.Abs(vaultPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}

		eng.Name = filepath.Base(absPath)

		// Strict mode keeps numeric types consistent across the JSON and
		// YAML adapters; the engine only reads, never writes the vault.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}

		typedRepo := loam.NewTypedRepository[loamAdapter.SceneMetadata](repo)
		eng.loader = loamAdapter.New(typedRepo)
	} else if vaultPath != "" {
		eng.Name = filepath.Base(vaultPath)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("vault", eng.Name)
	}

	return eng, nil
}

// Scenes returns the IDs of every scene the loader can serve.
func (e *Engine) Scenes() ([]string, error) {
	return e.loader.ListScenes()
}

// Inspect loads, parses and validates a scene definition without mounting
// it.
func (e *Engine) Inspect(sceneID string) (*domain.Definition, error) {
	raw, err := e.loader.GetScene(sceneID)
	if err != nil {
		return nil, err
	}
	def, err := e.parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("scene '%s': %w", sceneID, err)
	}
	if err := validator.ValidateDefinition(def); err != nil {
		return nil, fmt.Errorf("scene '%s' is invalid: %w", sceneID, err)
	}
	return def, nil
}

// MountOption customizes a single mount.
type MountOption func(*mountConfig)

type mountConfig struct {
	instanceID string
	sinks      []ports.FrameSink
	autoStart  bool
}

// WithInstanceID pins the instance ID instead of generating one.
func WithInstanceID(id string) MountOption {
	return func(c *mountConfig) {
		c.instanceID = id
	}
}

// WithFrameSinks attaches render-frame consumers to the instance's loop.
func WithFrameSinks(sinks ...ports.FrameSink) MountOption {
	return func(c *mountConfig) {
		c.sinks = append(c.sinks, sinks...)
	}
}

// WithoutLoop mounts the scene without starting a frame loop; the caller
// drives it manually through Step.
func WithoutLoop() MountOption {
	return func(c *mountConfig) {
		c.autoStart = false
	}
}

// Mount loads and validates a scene, creates a live instance and, unless
// WithoutLoop is given, starts its frame loop under ctx.
func (e *Engine) Mount(ctx context.Context, sceneID string, opts ...MountOption) (*Instance, error) {
	cfg := mountConfig{autoStart: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.instanceID == "" {
		cfg.instanceID = uuid.NewString()
	}

	def, err := e.Inspect(sceneID)
	if err != nil {
		return nil, err
	}

	sceneOpts := e.sceneOpts
	sceneOpts.Hooks = e.hooks
	if e.collector != nil {
		sceneOpts.Hooks = metrics.InstrumentHooks(sceneOpts.Hooks, e.collector, sceneID)
	}

	live := scene.Mount(def, sceneOpts)

	loopOpts := []scene.LoopOption{
		scene.WithInterval(e.interval),
		scene.WithLogger(logging.ForScene(e.logger, sceneID, cfg.instanceID)),
	}
	if len(cfg.sinks) > 0 {
		loopOpts = append(loopOpts, scene.WithSinks(cfg.sinks...))
	}
	if e.collector != nil {
		loopOpts = append(loopOpts, scene.WithCollector(e.collector))
	}

	inst := &Instance{
		id:     cfg.instanceID,
		def:    def,
		live:   live,
		loop:   scene.NewLoop(live, loopOpts...),
		engine: e,
	}

	e.mu.Lock()
	if _, exists := e.instances[cfg.instanceID]; exists {
		e.mu.Unlock()
		live.Unmount()
		return nil, fmt.Errorf("instance '%s' already mounted", cfg.instanceID)
	}
	e.instances[cfg.instanceID] = inst
	e.mu.Unlock()

	if e.collector != nil {
		e.collector.ActiveScenes.Inc()
	}
	e.logger.Info("scene mounted",
		"scene", sceneID,
		"instance", cfg.instanceID,
		"nodes", len(def.Nodes),
		"edges", len(def.Edges),
	)

	if cfg.autoStart {
		inst.loop.Start(ctx)
	}
	return inst, nil
}

// Instance returns a mounted instance by ID.
func (e *Engine) Instance(id string) (*Instance, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.instances[id]
	return inst, ok
}

// Instances returns the IDs of all mounted instances.
func (e *Engine) Instances() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.instances))
	for id := range e.instances {
		ids = append(ids, id)
	}
	return ids
}

// Unmount stops an instance's loop, tears its scene down and forgets it.
func (e *Engine) Unmount(id string) error {
	e.mu.Lock()
	inst, ok := e.instances[id]
	if ok {
		delete(e.instances, id)
	}
	e.mu.Unlock()

	if !ok {
		return domain.ErrSceneNotFound
	}

	inst.loop.Stop()
	inst.live.Unmount()
	if e.collector != nil {
		e.collector.ActiveScenes.Dec()
	}
	e.logger.Info("scene unmounted", "instance", id)
	return nil
}

// Close unmounts every instance.
func (e *Engine) Close() {
	for _, id := range e.Instances() {
		_ = e.Unmount(id)
	}
}

// SaveSnapshot captures an instance's state into the configured store.
func (e *Engine) SaveSnapshot(ctx context.Context, instanceID string) error {
	if e.snapshots == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	inst, ok := e.Instance(instanceID)
	if !ok {
		return domain.ErrSceneNotFound
	}

	if err := e.snapshots.Save(ctx, instanceID, inst.live.Snapshot()); err != nil {
		return err
	}
	if e.collector != nil {
		e.collector.SnapshotsSaved.Inc()
	}
	return nil
}

// RestoreSnapshot rewinds an instance to its stored snapshot.
func (e *Engine) RestoreSnapshot(ctx context.Context, instanceID string) error {
	if e.snapshots == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	inst, ok := e.Instance(instanceID)
	if !ok {
		return domain.ErrSceneNotFound
	}

	snap, err := e.snapshots.Load(ctx, instanceID)
	if err != nil {
		return err
	}
	return inst.live.Restore(snap)
}

// Metrics returns the engine's metrics collector, or nil when metrics are
// disabled.
func (e *Engine) Metrics() *metrics.Collector {
	return e.collector
}

// Snapshots returns the snapshot manager, or nil when persistence is not
// configured.
func (e *Engine) Snapshots() *snapshot.Manager {
	return e.snapshots
}

// Watch returns a channel that signals when the underlying vault changes.
// Returns an error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying SceneLoader used by the engine.
func (e *Engine) Loader() ports.SceneLoader {
	return e.loader
}

// Instance is a handle to one mounted scene: the live simulation plus its
// frame loop.
type Instance struct {
	id     string
	def    *domain.Definition
	live   *scene.Scene
	loop   *scene.Loop
	engine *Engine
}

// ID returns the instance's unique ID.
func (i *Instance) ID() string {
	return i.id
}

// SceneID returns the definition ID the instance was mounted from.
func (i *Instance) SceneID() string {
	return i.live.ID()
}

// Definition returns the validated definition the instance runs.
func (i *Instance) Definition() *domain.Definition {
	return i.def
}

// Live exposes the scene through the ports.LiveScene interface.
func (i *Instance) Live() ports.LiveScene {
	return i.live
}

// Frame returns the current render frame without advancing time.
func (i *Instance) Frame() *domain.Frame {
	return i.live.Frame()
}

// Step advances the simulation manually. Intended for instances mounted
// with WithoutLoop.
func (i *Instance) Step(dt time.Duration) *domain.Frame {
	return i.live.Step(dt)
}

// Node returns the current render transform of one node. Unknown IDs
// yield domain.ErrNodeNotFound.
func (i *Instance) Node(id string) (domain.NodeTransform, error) {
	return i.live.Node(id)
}

// PointerMove updates the hover state from pointer NDC coordinates.
func (i *Instance) PointerMove(nx, ny float64) string {
	return i.live.PointerMove(nx, ny)
}

// PointerLeave clears the hover state.
func (i *Instance) PointerLeave() {
	i.live.PointerLeave()
}

// Snapshot captures the current simulation state.
func (i *Instance) Snapshot() *domain.Snapshot {
	return i.live.Snapshot()
}

// Restore rewinds the instance to a snapshot of the same scene.
func (i *Instance) Restore(snap *domain.Snapshot) error {
	return i.live.Restore(snap)
}

// Running reports whether the frame loop is ticking.
func (i *Instance) Running() bool {
	return i.loop.Running()
}

// Start begins the frame loop for instances mounted with WithoutLoop.
func (i *Instance) Start(ctx context.Context) {
	i.loop.Start(ctx)
}

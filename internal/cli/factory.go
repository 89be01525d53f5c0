package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/nexus"
	"github.com/aretw0/nexus/internal/metrics"
	"github.com/aretw0/nexus/pkg/adapters/file"
	"github.com/aretw0/nexus/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/nexus/pkg/adapters/redis"
	"github.com/aretw0/nexus/pkg/dsl"
	"github.com/aretw0/nexus/pkg/ports"
	"github.com/aretw0/nexus/pkg/snapshot"
)

// RunOptions carries the flags shared by the CLI commands.
type RunOptions struct {
	VaultPath string
	SceneID   string
	Builtin   bool

	Debug bool
	Quiet bool

	Seed     int64
	Interval time.Duration

	// Snapshot persistence: "", "memory", "file" or "redis".
	Store     string
	StorePath string
	RedisAddr string

	Metrics bool
}

// CreateEngine initializes a Nexus engine with standard CLI conventions.
func CreateEngine(opts RunOptions, logger *slog.Logger) (*nexus.Engine, error) {
	engineOpts := []nexus.Option{
		nexus.WithLogger(logger),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, nexus.WithLifecycleHooks(createDebugHooks(logger)))
	}
	if opts.Seed != 0 {
		engineOpts = append(engineOpts, nexus.WithSeed(opts.Seed))
	}
	if opts.Interval > 0 {
		engineOpts = append(engineOpts, nexus.WithFrameInterval(opts.Interval))
	}
	if opts.Metrics {
		engineOpts = append(engineOpts, nexus.WithMetrics(metrics.NewCollector("nexus")))
	}

	vaultPath := opts.VaultPath
	if opts.Builtin {
		loader, err := memory.NewFromDefinitions(dsl.BuiltinScene())
		if err != nil {
			return nil, fmt.Errorf("failed to build demo scene: %w", err)
		}
		engineOpts = append(engineOpts, nexus.WithLoader(loader))
		vaultPath = ""
	}

	storeOpts, err := createStoreOptions(opts)
	if err != nil {
		return nil, err
	}
	engineOpts = append(engineOpts, storeOpts...)

	engine, err := nexus.New(vaultPath, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// createStoreOptions maps the --store flag onto a snapshot backend. Redis
// additionally gets a distributed locker so replicas serialize writes.
func createStoreOptions(opts RunOptions) ([]nexus.Option, error) {
	var store ports.SnapshotStore
	var snapOpts []snapshot.Option

	switch opts.Store {
	case "":
		return nil, nil
	case "memory":
		store = memory.NewStore()
	case "file":
		store = file.NewStore(opts.StorePath)
	case "redis":
		rs := redisAdapter.New(opts.RedisAddr, "", 0)
		store = rs
		locker := redisAdapter.NewLocker(rs.Client(), "nexus:")
		snapOpts = append(snapOpts, snapshot.WithLocker(locker))
	default:
		return nil, fmt.Errorf("unknown store %q (supported: memory, file, redis)", opts.Store)
	}

	return []nexus.Option{nexus.WithSnapshotStore(store, snapOpts...)}, nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/nexus"
	"github.com/aretw0/nexus/internal/cli"
	"github.com/aretw0/nexus/pkg/domain"
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus is a force-directed 3D scene engine",
	Long: `Nexus simulates a force-directed constellation of nodes in 3D space.
Scene definitions live as Markdown, JSON or YAML files in a vault directory;
the engine mounts them into live instances, runs the physics loop and serves
render frames to terminals, browsers and agents.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("vault", ".", "Directory containing the scene definitions")
	rootCmd.PersistentFlags().Bool("builtin", false, "Use the built-in demo scene instead of a vault")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress banner and system messages")
}

// optionsFromFlags collects the shared flags into RunOptions.
func optionsFromFlags(cmd *cobra.Command, args []string) cli.RunOptions {
	vault, _ := cmd.Flags().GetString("vault")
	if !cmd.Flags().Changed("vault") && len(args) > 0 {
		vault = args[0]
	}
	builtin, _ := cmd.Flags().GetBool("builtin")
	debug, _ := cmd.Flags().GetBool("debug")
	quiet, _ := cmd.Flags().GetBool("quiet")

	opts := cli.RunOptions{
		VaultPath: vault,
		Builtin:   builtin,
		Debug:     debug,
		Quiet:     quiet,
	}

	if cmd.Flags().Lookup("scene") != nil {
		opts.SceneID, _ = cmd.Flags().GetString("scene")
	}
	if cmd.Flags().Lookup("seed") != nil {
		opts.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Lookup("interval") != nil {
		ms, _ := cmd.Flags().GetInt("interval")
		opts.Interval = time.Duration(ms) * time.Millisecond
	}
	if cmd.Flags().Lookup("store") != nil {
		opts.Store, _ = cmd.Flags().GetString("store")
		opts.StorePath, _ = cmd.Flags().GetString("store-path")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
	}
	if cmd.Flags().Lookup("metrics") != nil {
		opts.Metrics, _ = cmd.Flags().GetBool("metrics")
	}

	return opts
}

// resolveAndInspect validates and returns a scene definition. With an empty
// sceneID it requires the vault to hold exactly one scene.
func resolveAndInspect(engine *nexus.Engine, sceneID string) (*domain.Definition, error) {
	if sceneID == "" {
		scenes, err := engine.Scenes()
		if err != nil {
			return nil, err
		}
		switch len(scenes) {
		case 0:
			return nil, fmt.Errorf("no scenes found")
		case 1:
			sceneID = scenes[0]
		default:
			return nil, fmt.Errorf("multiple scenes available %v, pick one with --scene", scenes)
		}
	}
	return engine.Inspect(sceneID)
}

// addStoreFlags registers the snapshot persistence flags on a command.
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "Snapshot store backend: memory, file or redis")
	cmd.Flags().String("store-path", "", "Directory for the file store (default .nexus/snapshots)")
	cmd.Flags().String("redis-addr", "localhost:6379", "Redis address for the redis store")
}

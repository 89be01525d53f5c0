package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nexus/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Mount a scene and render it in the terminal",
	Long: `Mounts a scene into a live instance, runs the physics loop and renders
the constellation as an animated terminal viewport until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd, args)
		watchMode, _ := cmd.Flags().GetBool("watch")
		hover, _ := cmd.Flags().GetBool("hover")

		if watchMode && opts.Builtin {
			fmt.Println("Error: --watch and --builtin cannot be used together.")
			os.Exit(1)
		}

		var err error
		if watchMode {
			err = cli.RunWatch(opts, hover)
		} else {
			err = cli.RunView(opts, hover)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("scene", "", "Scene ID to mount (defaults to the vault's only scene)")
	runCmd.Flags().Int64("seed", 0, "Seed for deterministic node placement")
	runCmd.Flags().Int("interval", 0, "Frame interval in milliseconds (default 16)")
	runCmd.Flags().Bool("hover", true, "Sweep a synthetic pointer to demo hover highlighting")
	runCmd.Flags().BoolP("watch", "w", false, "Remount the scene when the vault changes")
	addStoreFlags(runCmd)

	// Make 'run' the default when no subcommand is given.
	rootCmd.Run = runCmd.Run
}

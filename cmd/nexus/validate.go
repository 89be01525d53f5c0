package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nexus/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every scene definition for consistency",
	Long:  `Parses each scene in the vault and reports duplicate node IDs, dangling edges and unknown categories.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All scenes are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	opts := optionsFromFlags(cmd, args)

	logger := cli.CreateLogger(opts.Debug)
	engine, err := cli.CreateEngine(opts, logger)
	if err != nil {
		return fmt.Errorf("failed to init engine: %w", err)
	}
	defer engine.Close()

	scenes, err := engine.Scenes()
	if err != nil {
		return err
	}
	if len(scenes) == 0 {
		return fmt.Errorf("no scenes found")
	}

	for _, id := range scenes {
		if _, err := engine.Inspect(id); err != nil {
			return err
		}
		fmt.Printf("  %s ✔\n", id)
	}
	return nil
}

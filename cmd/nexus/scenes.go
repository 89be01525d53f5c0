package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nexus/internal/cli"
	"github.com/aretw0/nexus/internal/presentation/tui"
)

// scenesCmd represents the scenes command
var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List the scenes in the vault",
	Long:  `Lists every scene definition the vault can serve, with a rendered summary of its nodes per category.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd, args)

		logger := cli.CreateLogger(opts.Debug)
		engine, err := cli.CreateEngine(opts, logger)
		if err != nil {
			fmt.Printf("Error initializing nexus: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		scenes, err := engine.Scenes()
		if err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		if len(scenes) == 0 {
			fmt.Println("No scenes found.")
			return
		}

		render := tui.NewRenderer()
		for _, id := range scenes {
			def, err := engine.Inspect(id)
			if err != nil {
				fmt.Printf("%s: invalid (%v)\n", id, err)
				continue
			}
			out, err := render(tui.DescribeScene(def))
			if err != nil {
				// Markdown rendering is cosmetic; fall back to plain output.
				fmt.Printf("%s: %d nodes, %d edges\n", id, len(def.Nodes), len(def.Edges))
				continue
			}
			fmt.Print(out)
		}
	},
}

func init() {
	rootCmd.AddCommand(scenesCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nexus/internal/cli"
	"github.com/aretw0/nexus/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the scene graph visualization",
	Long:  `Inspects a scene definition and outputs a Mermaid diagram (graph TD) of its nodes and edges.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd, args)

		logger := cli.CreateLogger(opts.Debug)
		engine, err := cli.CreateEngine(opts, logger)
		if err != nil {
			fmt.Printf("Error initializing nexus: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		sceneID, _ := cmd.Flags().GetString("scene")
		def, err := resolveAndInspect(engine, sceneID)
		if err != nil {
			fmt.Printf("Error inspecting scene: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(def, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("scene", "", "Scene ID to graph (defaults to the vault's only scene)")
}

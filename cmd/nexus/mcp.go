package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/nexus/internal/cli"
	mcpAdapter "github.com/aretw0/nexus/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the Nexus engine as an MCP Server.
This lets AI agents mount scenes, drive the pointer and read frames as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd, args)
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs must go to Stderr so they never corrupt JSON-RPC on Stdout.
		handlerOpts := &slog.HandlerOptions{Level: slog.LevelDebug}
		logger := slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
		slog.SetDefault(logger)

		engine, err := cli.CreateEngine(opts, logger)
		if err != nil {
			log.Fatalf("Error initializing nexus: %v", err)
		}
		defer engine.Close()

		srv := mcpAdapter.NewServer(engine)

		switch transport {
		case "stdio":
			log.SetOutput(os.Stderr)
			slog.Info("Starting Nexus MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting Nexus MCP Server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					slog.Error("MCP Server execution failed", "error", err)
					os.Exit(1)
				}
			}
			slog.Info("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Int64("seed", 0, "Seed for deterministic node placement")
	addStoreFlags(mcpCmd)
}

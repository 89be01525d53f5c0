package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/nexus/internal/cli"
	httpAdapter "github.com/aretw0/nexus/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the Nexus engine in server mode, exposing scene mounting, pointer
input, snapshots and an SSE frame stream as a JSON API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd, args)
		port, _ := cmd.Flags().GetString("port")

		logger := cli.CreateLogger(opts.Debug)
		engine, err := cli.CreateEngine(opts, logger)
		if err != nil {
			fmt.Printf("Error initializing nexus: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		handler := httpAdapter.NewHandler(engine)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Nexus Server on %s\n", srv.Addr)
			if opts.Builtin {
				fmt.Println("Serving the built-in demo scene")
			} else {
				fmt.Printf("Serving scenes from: %s\n", opts.VaultPath)
			}
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Nexus Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Int64("seed", 0, "Seed for deterministic node placement")
	serveCmd.Flags().Int("interval", 0, "Frame interval in milliseconds (default 16)")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	addStoreFlags(serveCmd)
}

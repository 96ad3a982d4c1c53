package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/aretw0/gitgraph/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the workflow tracker HTTP server",
	Long: `Hosts a shared workflow graph behind a JSON API. Agents are added and updated
with POST /agents and PATCH /agents/{id}; GET /graph renders the current state.

With --redis several replicas can serve the same graph: every change takes a
distributed lock and reloads the latest snapshot first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		t, closeStore, err := newTracker(ctx, cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           httpAdapter.NewHandler(t, httpAdapter.WithLogger(logger)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting gitgraph server", "address", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("gitgraph server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	addTrackerFlags(serveCmd)
}

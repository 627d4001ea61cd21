package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"z3-dashboard/server"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard as JSON over HTTP",
	Long: `Starts a local read-only HTTP server.

  GET /api/dashboard   dashboard for the filters given as query parameters
  GET /api/criteria    full-range filter defaults of the loaded data
  GET /healthz         liveness`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.HTTPAddr = serveAddr
		}

		svc, closeFn, err := newDashboardService(cfg, logger)
		if err != nil {
			return err
		}
		defer closeFn()

		// Load up front so a missing file is reported at startup; requests
		// retry the load if it fails here.
		if _, err := svc.Dataset(cmd.Context()); err != nil {
			logger.Warn("[serve] dataset not loaded yet: %v", err)
		}

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           server.NewHandler(svc, logger).Routes(),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("[serve] listening on http://%s", cfg.HTTPAddr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http server: %w", err)
		case <-ctx.Done():
		}

		logger.Info("[serve] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
}

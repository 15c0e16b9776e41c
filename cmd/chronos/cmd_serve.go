package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/projectchronos/chronos/internal/api"
	"github.com/projectchronos/chronos/internal/sources"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			reg, err := newRegistry(logger)
			if err != nil {
				return fmt.Errorf("serve: opening registry: %w", err)
			}
			g, err := loadGraph()
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			var src sources.Source
			if cfg.Sources.CobaltAPIKey != "" {
				src = newCobalt(logger)
			} else {
				logger.Warn("no Cobalt API key configured; upstream search is disabled")
			}

			srv := api.NewServer(reg, g, src, logger, cfg.API.AuthToken)

			if cfg.API.AuthToken == "" {
				logger.Warn("HTTP API: auth is DISABLED; set CHRONOS_API_AUTH_TOKEN or cfg.api.auth_token for production use")
			}

			httpSrv := &http.Server{
				Addr:              cfg.API.ListenAddr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      60 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP API server starting", "addr", cfg.API.ListenAddr)
				if listenErr := httpSrv.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
					errCh <- fmt.Errorf("serve: HTTP server: %w", listenErr)
				}
				close(errCh)
			}()

			select {
			case <-cmd.Context().Done():
				logger.Info("shutting down")
			case startErr := <-errCh:
				if startErr != nil {
					return startErr
				}
				return nil
			}

			const shutdownTimeout = 10 * time.Second
			if shutdownErr := api.Shutdown(httpSrv, shutdownTimeout); shutdownErr != nil {
				return fmt.Errorf("serve: graceful shutdown: %w", shutdownErr)
			}

			// Drain the errCh in case ListenAndServe returned after Shutdown.
			if startErr := <-errCh; startErr != nil {
				return startErr
			}

			// Links created over the API live in memory; persist them so the
			// CLI sees the same graph next run.
			if saveErr := saveGraph(g); saveErr != nil {
				logger.Error("failed to persist graph on shutdown", "error", saveErr)
			}

			return nil
		},
	}
	return cmd
}

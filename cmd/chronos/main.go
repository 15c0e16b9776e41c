package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/projectchronos/chronos/internal/config"
	"github.com/projectchronos/chronos/internal/graph"
	"github.com/projectchronos/chronos/internal/portfolio"
	"github.com/projectchronos/chronos/internal/sources"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "chronos",
		Short: "Chronos — corporate entity lifecycle and ownership research tool",
		Long:  "Chronos tracks corporate entities through their compliance lifecycle, maps ownership structures as a weighted graph, and flags shell-company patterns.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		entitiesCmd(),
		statusCmd(),
		linkCmd(),
		subsCmd(),
		ownersCmd(),
		pctCmd(),
		shellsCmd(),
		proxiesCmd(),
		exportCmd(),
		searchCmd(),
		enrichCmd(),
		graphCmd(),
		seedCmd(),
		serveCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newRegistry(logger *slog.Logger) (portfolio.Registry, error) {
	return portfolio.OpenSQLite(cfg.Database.Path, logger)
}

func sourceTimeout() time.Duration {
	return time.Duration(cfg.Sources.TimeoutSeconds) * time.Second
}

func newCobalt(logger *slog.Logger) *sources.CobaltSource {
	return sources.NewCobaltSource(
		cfg.Sources.CobaltBaseURL,
		cfg.Sources.CobaltAPIKey,
		sourceTimeout(),
		logger,
	)
}

func newEdgar(logger *slog.Logger) *sources.EdgarClient {
	return sources.NewEdgarClient(
		cfg.Sources.EdgarBaseURL,
		cfg.Sources.EdgarAppName,
		cfg.Sources.EdgarContact,
		sourceTimeout(),
		logger,
	)
}

// loadGraph reads the ownership graph from its JSON file. A missing file
// yields an empty graph so every command works on a fresh install.
func loadGraph() (*graph.Graph, error) {
	data, err := os.ReadFile(cfg.Graph.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return graph.New(), nil
		}
		return nil, fmt.Errorf("reading graph file: %w", err)
	}
	var doc graph.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing graph file %s: %w", cfg.Graph.Path, err)
	}
	return graph.FromDocument(&doc)
}

func saveGraph(g *graph.Graph) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Graph.Path), 0o755); err != nil {
		return fmt.Errorf("creating graph directory: %w", err)
	}
	data, err := json.MarshalIndent(g.Export(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	if err := os.WriteFile(cfg.Graph.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing graph file: %w", err)
	}
	return nil
}

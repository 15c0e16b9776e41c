package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/projectchronos/chronos/internal/graph"
)

func graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Sync the ownership graph with a Neo4j database",
	}

	cmd.AddCommand(
		graphPushCmd(),
		graphPullCmd(),
		graphClearCmd(),
	)

	return cmd
}

func newNeo4jStore(ctx context.Context, logger *slog.Logger) (*graph.Neo4jStore, error) {
	if cfg.Neo4j.URI == "" {
		return nil, fmt.Errorf("neo4j is not configured; set CHRONOS_NEO4J_URI or cfg.neo4j.uri")
	}
	return graph.NewNeo4jStore(
		ctx,
		cfg.Neo4j.URI,
		cfg.Neo4j.Username,
		cfg.Neo4j.Password,
		cfg.Neo4j.Database,
		logger,
	)
}

func graphPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Replace the Neo4j graph with the local ownership graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			g, err := loadGraph()
			if err != nil {
				return fmt.Errorf("graph push: %w", err)
			}

			reg, err := newRegistry(logger)
			if err != nil {
				return fmt.Errorf("graph push: opening registry: %w", err)
			}
			all, err := reg.All()
			if err != nil {
				return fmt.Errorf("graph push: %w", err)
			}
			g.SyncRegistry(all)

			store, err := newNeo4jStore(ctx, logger)
			if err != nil {
				return fmt.Errorf("graph push: %w", err)
			}
			defer func() { _ = store.Close(ctx) }()

			if err := store.Push(ctx, g); err != nil {
				return fmt.Errorf("graph push: %w", err)
			}

			fmt.Printf("Pushed %d nodes and %d edges.\n", len(g.Nodes()), g.EdgeCount())
			return nil
		},
	}
	return cmd
}

func graphPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Replace the local ownership graph with the Neo4j graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			store, err := newNeo4jStore(ctx, logger)
			if err != nil {
				return fmt.Errorf("graph pull: %w", err)
			}
			defer func() { _ = store.Close(ctx) }()

			g, err := store.Pull(ctx)
			if err != nil {
				return fmt.Errorf("graph pull: %w", err)
			}
			if err := saveGraph(g); err != nil {
				return fmt.Errorf("graph pull: %w", err)
			}

			fmt.Printf("Pulled %d nodes and %d edges.\n", len(g.Nodes()), g.EdgeCount())
			return nil
		},
	}
	return cmd
}

func graphClearCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all relationships from the local graph",
		Long:  "Clears every edge and metadata snapshot from the local ownership graph. The portfolio registry is untouched. With --remote the Neo4j graph is cleared as well.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			g, err := loadGraph()
			if err != nil {
				return fmt.Errorf("graph clear: %w", err)
			}
			edges := g.EdgeCount()
			g.Clear()
			if err := saveGraph(g); err != nil {
				return fmt.Errorf("graph clear: %w", err)
			}

			if remote {
				store, storeErr := newNeo4jStore(ctx, logger)
				if storeErr != nil {
					return fmt.Errorf("graph clear: %w", storeErr)
				}
				defer func() { _ = store.Close(ctx) }()
				if clearErr := store.Clear(ctx); clearErr != nil {
					return fmt.Errorf("graph clear: %w", clearErr)
				}
			}

			fmt.Printf("Cleared %d edges.\n", edges)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "also clear the Neo4j graph")
	return cmd
}

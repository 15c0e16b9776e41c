package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/projectchronos/chronos/internal/portfolio"
	"github.com/projectchronos/chronos/internal/sources"
)

func searchCmd() *cobra.Command {
	var (
		state string
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search upstream business registries for an entity",
		Long:  "Searches the configured upstream source for a business name. Delaware lookups use the local filing fixture when one is configured; everything else goes through the Cobalt Intelligence aggregator.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			var src sources.Source
			if strings.EqualFold(state, "DE") && cfg.Sources.DelawareFixture != "" {
				src = sources.NewDelawareSource(cfg.Sources.DelawareFixture, logger)
			} else {
				src = newCobalt(logger)
			}

			hits, err := src.Search(ctx, args[0], state)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			if len(hits) == 0 {
				fmt.Printf("No results for %q.\n", args[0])
				return nil
			}

			var reg portfolio.Registry
			if save {
				reg, err = newRegistry(logger)
				if err != nil {
					return fmt.Errorf("search: opening registry: %w", err)
				}
			}

			for _, e := range hits {
				fmt.Printf("%-30s  %-14s  %-4s  %s\n", e.Slug(), e.Status, e.Jurisdiction, e.Name)
				if save {
					if addErr := reg.Add(e); addErr != nil {
						return fmt.Errorf("search: storing %s: %w", e.Slug(), addErr)
					}
				}
			}
			if save {
				fmt.Printf("Saved %d entities to the portfolio.\n", len(hits))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "two-letter state filter")
	cmd.Flags().BoolVar(&save, "save", false, "store results in the portfolio")
	return cmd
}

func enrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich <slug>",
		Short: "Append SEC EDGAR filing details to an entity's notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			reg, err := newRegistry(logger)
			if err != nil {
				return fmt.Errorf("enrich: opening registry: %w", err)
			}
			e, err := reg.Get(args[0])
			if err != nil {
				return fmt.Errorf("enrich: %w", err)
			}

			edgar := newEdgar(logger)
			found, err := edgar.EnrichEntity(ctx, e)
			if err != nil {
				return fmt.Errorf("enrich: %w", err)
			}
			if !found {
				fmt.Printf("No SEC filings found for %s.\n", e.Name)
				return nil
			}

			if err := reg.Add(e); err != nil {
				return fmt.Errorf("enrich: persisting: %w", err)
			}
			fmt.Printf("Updated notes for %s:\n%s\n", e.Slug(), e.Notes)
			return nil
		},
	}
	return cmd
}

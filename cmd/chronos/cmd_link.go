package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func linkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <parent-slug> <child-slug> <pct>",
		Short: "Record that parent owns pct percent of child",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("link: invalid percentage %q: %w", args[2], err)
			}

			g, err := loadGraph()
			if err != nil {
				return fmt.Errorf("link: %w", err)
			}
			if err := g.LinkParent(args[0], args[1], pct); err != nil {
				return fmt.Errorf("link: %w", err)
			}
			if err := saveGraph(g); err != nil {
				return fmt.Errorf("link: %w", err)
			}

			fmt.Printf("%s owns %.1f%% of %s (%d edges total)\n", args[0], pct, args[1], g.EdgeCount())
			return nil
		},
	}
	return cmd
}

func subsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subs <slug>",
		Short: "List direct subsidiaries of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return fmt.Errorf("subs: %w", err)
			}

			subs := g.Subsidiaries(args[0])
			if len(subs) == 0 {
				fmt.Printf("%s has no recorded subsidiaries.\n", args[0])
				return nil
			}
			for _, child := range subs {
				pct, pctErr := g.OwnershipPct(args[0], child)
				if pctErr != nil {
					return fmt.Errorf("subs: %w", pctErr)
				}
				fmt.Printf("%-30s %.1f%%\n", child, pct)
			}
			return nil
		},
	}
	return cmd
}

func ownersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owners <slug>",
		Short: "List direct parents of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return fmt.Errorf("owners: %w", err)
			}

			parents := g.Parents(args[0])
			if len(parents) == 0 {
				fmt.Printf("%s has no recorded owners.\n", args[0])
				return nil
			}
			for _, parent := range parents {
				pct, pctErr := g.OwnershipPct(parent, args[0])
				if pctErr != nil {
					return fmt.Errorf("owners: %w", pctErr)
				}
				fmt.Printf("%-30s %.1f%%\n", parent, pct)
			}
			return nil
		},
	}
	return cmd
}

func pctCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pct <parent-slug> <child-slug>",
		Short: "Show the ownership percentage on a single edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return fmt.Errorf("pct: %w", err)
			}

			pct, err := g.OwnershipPct(args[0], args[1])
			if err != nil {
				return fmt.Errorf("pct: %w", err)
			}
			fmt.Printf("%.1f\n", pct)
			return nil
		},
	}
	return cmd
}

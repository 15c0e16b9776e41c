package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func shellsCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "shells",
		Short: "Score graph nodes for shell-company risk patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			g, err := loadGraph()
			if err != nil {
				return fmt.Errorf("shells: %w", err)
			}

			// Scoring reads status metadata, so refresh every node's
			// snapshot from the registry first.
			reg, err := newRegistry(logger)
			if err != nil {
				return fmt.Errorf("shells: opening registry: %w", err)
			}
			all, err := reg.All()
			if err != nil {
				return fmt.Errorf("shells: %w", err)
			}
			g.SyncRegistry(all)

			flags := g.IdentifyShellCompanies()

			if outputJSON {
				if flags == nil {
					fmt.Println("[]")
					return nil
				}
				out, marshalErr := json.MarshalIndent(flags, "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("shells: marshaling JSON: %w", marshalErr)
				}
				fmt.Println(string(out))
				return nil
			}

			if len(flags) == 0 {
				fmt.Println("No shell-company patterns detected.")
				return nil
			}
			for _, f := range flags {
				fmt.Printf("%-30s %.2f  %s\n", f.Slug, f.RiskScore, strings.Join(f.Factors, "; "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	return cmd
}

func proxiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxies",
		Short: "List entities owned by more than one parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return fmt.Errorf("proxies: %w", err)
			}

			proxies := g.IdentifyProxies()
			if len(proxies) == 0 {
				fmt.Println("No multi-parent entities found.")
				return nil
			}
			for _, slug := range proxies {
				fmt.Printf("%-30s parents: %s\n", slug, strings.Join(g.Parents(slug), ", "))
			}
			return nil
		},
	}
	return cmd
}

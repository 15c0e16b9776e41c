package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ownership graph as a nodes/links JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			g, err := loadGraph()
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			reg, err := newRegistry(logger)
			if err != nil {
				return fmt.Errorf("export: opening registry: %w", err)
			}
			all, err := reg.All()
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			g.SyncRegistry(all)

			out, err := json.MarshalIndent(g.Export(), "", "  ")
			if err != nil {
				return fmt.Errorf("export: marshaling JSON: %w", err)
			}

			if outFile != "" {
				if err := os.WriteFile(outFile, out, 0o644); err != nil {
					return fmt.Errorf("export: writing %s: %w", outFile, err)
				}
				fmt.Printf("Wrote %s\n", outFile)
				return nil
			}

			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write to file instead of stdout")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projectchronos/chronos/internal/models"
)

func statusCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show entity counts per lifecycle status",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			reg, err := newRegistry(logger)
			if err != nil {
				return fmt.Errorf("status: opening registry: %w", err)
			}
			all, err := reg.All()
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}

			counts := make(map[string]int, len(models.ValidStatuses))
			for _, st := range models.ValidStatuses {
				counts[string(st)] = 0
			}
			for _, e := range all {
				counts[string(e.Status)]++
			}

			if outputJSON {
				out, marshalErr := json.MarshalIndent(counts, "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("status: marshaling JSON: %w", marshalErr)
				}
				fmt.Println(string(out))
				return nil
			}

			for _, st := range models.ValidStatuses {
				fmt.Printf("%-14s %d\n", st, counts[string(st)])
			}
			fmt.Printf("%-14s %d\n", "TOTAL", len(all))
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/projectchronos/chronos/internal/lifecycle"
	"github.com/projectchronos/chronos/internal/models"
)

func entitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities",
		Short: "Manage corporate entities in the portfolio",
	}

	cmd.AddCommand(
		entitiesAddCmd(),
		entitiesGetCmd(),
		entitiesListCmd(),
		entitiesAdvanceCmd(),
	)

	return cmd
}

func entitiesAddCmd() *cobra.Command {
	var (
		jurisdiction string
		formed       string
		officers     []string
		notes        string
		status       string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a corporate entity to the portfolio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			var formedAt time.Time
			if formed != "" {
				parsed, err := time.Parse("2006-01-02", formed)
				if err != nil {
					return fmt.Errorf("entities add: invalid --formed date (want YYYY-MM-DD): %w", err)
				}
				formedAt = parsed
			}

			e, err := models.NewEntity(args[0], jurisdiction, formedAt)
			if err != nil {
				return fmt.Errorf("entities add: %w", err)
			}
			e.Officers = officers
			e.Notes = notes
			if status != "" {
				st, parseErr := models.ParseStatus(status)
				if parseErr != nil {
					return fmt.Errorf("entities add: %w", parseErr)
				}
				e.Status = st
			}

			reg, err := newRegistry(logger)
			if err != nil {
				return fmt.Errorf("entities add: opening registry: %w", err)
			}
			if err := reg.Add(e); err != nil {
				return fmt.Errorf("entities add: %w", err)
			}

			fmt.Printf("Added %s (%s)\n", e.Name, e.Slug())
			return nil
		},
	}

	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "state or country of registration")
	cmd.Flags().StringVar(&formed, "formed", "", "formation date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&officers, "officer", nil, "officer name (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&status, "status", "", "initial status (defaults to PENDING)")
	return cmd
}

func entitiesGetCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "get <slug>",
		Short: "Show a single entity by slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			reg, err := newRegistry(logger)
			if err != nil {
				return fmt.Errorf("entities get: opening registry: %w", err)
			}
			e, err := reg.Get(args[0])
			if err != nil {
				return fmt.Errorf("entities get: %w", err)
			}

			if outputJSON {
				out, marshalErr := json.MarshalIndent(e, "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("entities get: marshaling JSON: %w", marshalErr)
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Printf("Name:          %s\n", e.Name)
			fmt.Printf("Slug:          %s\n", e.Slug())
			fmt.Printf("Jurisdiction:  %s\n", e.Jurisdiction)
			fmt.Printf("Formed:        %s\n", e.FormedISO())
			fmt.Printf("Status:        %s\n", e.Status)
			fmt.Printf("Officers:      %s\n", strings.Join(e.Officers, ", "))
			if e.Notes != "" {
				fmt.Printf("Notes:         %s\n", e.Notes)
			}
			if !e.Formed.IsZero() {
				fmt.Printf("Age (days):    %d\n", e.AgeInDays(time.Time{}))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	return cmd
}

func entitiesListCmd() *cobra.Command {
	var (
		outputJSON bool
		byStatus   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities in the portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			reg, err := newRegistry(logger)
			if err != nil {
				return fmt.Errorf("entities list: opening registry: %w", err)
			}

			var entities []*models.CorporateEntity
			if byStatus != "" {
				st, parseErr := models.ParseStatus(byStatus)
				if parseErr != nil {
					return fmt.Errorf("entities list: %w", parseErr)
				}
				entities, err = reg.FindByStatus(st)
			} else {
				entities, err = reg.All()
			}
			if err != nil {
				return fmt.Errorf("entities list: %w", err)
			}

			if len(entities) == 0 {
				fmt.Println("No entities found.")
				return nil
			}

			if outputJSON {
				out, marshalErr := json.MarshalIndent(entities, "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("entities list: marshaling JSON: %w", marshalErr)
				}
				fmt.Println(string(out))
				return nil
			}

			for _, e := range entities {
				fmt.Printf("%-30s  %-14s  %-4s  %s\n", e.Slug(), e.Status, e.Jurisdiction, e.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	cmd.Flags().StringVar(&byStatus, "status", "", "filter by lifecycle status")
	return cmd
}

func entitiesAdvanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advance <slug> <status>",
		Short: "Advance an entity's lifecycle status by one legal step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			target, err := models.ParseStatus(args[1])
			if err != nil {
				return fmt.Errorf("entities advance: %w", err)
			}

			reg, err := newRegistry(logger)
			if err != nil {
				return fmt.Errorf("entities advance: opening registry: %w", err)
			}
			e, err := reg.Get(args[0])
			if err != nil {
				return fmt.Errorf("entities advance: %w", err)
			}

			if err := lifecycle.Advance(e, target); err != nil {
				targets := lifecycle.Targets(e.Status)
				if len(targets) == 0 {
					return fmt.Errorf("entities advance: %w (%s is terminal)", err, e.Status)
				}
				return fmt.Errorf("entities advance: %w (legal targets: %v)", err, targets)
			}
			if err := reg.Add(e); err != nil {
				return fmt.Errorf("entities advance: persisting: %w", err)
			}

			fmt.Printf("%s is now %s\n", e.Slug(), e.Status)
			return nil
		},
	}
	return cmd
}

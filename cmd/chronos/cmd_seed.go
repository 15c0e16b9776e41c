package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/projectchronos/chronos/internal/models"
	"github.com/projectchronos/chronos/pkg/slug"
)

type seedEntity struct {
	name         string
	jurisdiction string
	status       models.Status
	formed       string
	officers     []string
	notes        string
}

type seedLink struct {
	parent string
	child  string
	pct    float64
}

var sampleEntities = []seedEntity{
	{"Acme Corporation", "DE", models.StatusActive, "2020-01-15", []string{"John Smith", "Jane Doe"}, "Primary holding company"},
	{"Widget Industries", "NY", models.StatusInCompliance, "2019-06-22", []string{"Robert Johnson"}, "Manufacturing subsidiary"},
	{"TechStart LLC", "CA", models.StatusPending, "2021-03-10", []string{"Maria Garcia", "David Kim"}, "Technology R&D division"},
	{"Global Services Inc", "TX", models.StatusDelinquent, "2018-11-05", []string{"Thomas Brown"}, "Past due on filing requirements"},
	{"Legacy Systems", "FL", models.StatusDissolved, "2015-08-30", []string{"Patricia White", "Michael Lee"}, "Operations closed in 2022"},
	{"Sunrise Ventures", "WA", models.StatusActive, "2022-04-12", []string{"Elizabeth Chen"}, "New acquisition"},
	{"Central Holdings", "DE", models.StatusInCompliance, "2017-09-08", []string{"William Davis", "Jennifer Wilson"}, "Financial arm"},
	{"Atlantic Partners", "MA", models.StatusActive, "2020-07-19", []string{"James Martin"}, "East coast operations"},
	{"Pacific Group", "CA", models.StatusPending, "2023-01-28", []string{"Susan Taylor", "Richard Moore"}, "West coast operations"},
}

var sampleLinks = []seedLink{
	{"acme-corporation", "widget-industries", 100},
	{"acme-corporation", "techstart-llc", 75},
	{"acme-corporation", "central-holdings", 100},
	{"central-holdings", "atlantic-partners", 60},
	{"central-holdings", "pacific-group", 51},
	{"acme-corporation", "sunrise-ventures", 50},
	{"central-holdings", "sunrise-ventures", 50},
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the portfolio and graph with sample data",
		Long:  "Loads a small demo portfolio covering every lifecycle status and an ownership structure that exercises shell-company and proxy detection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			reg, err := newRegistry(logger)
			if err != nil {
				return fmt.Errorf("seed: opening registry: %w", err)
			}

			for _, s := range sampleEntities {
				formed, parseErr := time.Parse("2006-01-02", s.formed)
				if parseErr != nil {
					return fmt.Errorf("seed: bad date for %s: %w", s.name, parseErr)
				}
				e := &models.CorporateEntity{
					Name:         s.name,
					Jurisdiction: s.jurisdiction,
					Formed:       formed,
					Officers:     s.officers,
					Status:       s.status,
					Notes:        s.notes,
				}
				if addErr := reg.Add(e); addErr != nil {
					return fmt.Errorf("seed: storing %s: %w", slug.Make(s.name), addErr)
				}
				fmt.Printf("Added: %s (%s)\n", s.name, s.status)
			}

			g, err := loadGraph()
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			for _, l := range sampleLinks {
				if linkErr := g.LinkParent(l.parent, l.child, l.pct); linkErr != nil {
					return fmt.Errorf("seed: linking %s -> %s: %w", l.parent, l.child, linkErr)
				}
			}
			if err := saveGraph(g); err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			fmt.Printf("\nSeeded %d entities and %d ownership links.\n", len(sampleEntities), len(sampleLinks))
			return nil
		},
	}
	return cmd
}

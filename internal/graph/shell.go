package graph

import (
	"math"
	"sort"

	"github.com/projectchronos/chronos/internal/models"
)

// ShellReportThreshold is the minimum accumulated risk score for an entity
// to be reported. It is a policy constant, tuned independently of the
// scoring factors.
const ShellReportThreshold = 0.3

// Factor weights. The additive model is intentionally simple and auditable:
// in a due-diligence tool a wrong-but-explainable flag beats an opaque one.
const (
	weightOwnedLeaf  = 0.3 // owned by someone, owns nothing
	weightChainLink  = 0.2 // sole child of a sole-child parent
	weightActiveLeaf = 0.1 // ACTIVE yet owns nothing
)

// Factor descriptions surfaced to analysts alongside each flag.
const (
	factorOwnedLeaf  = "owned by another entity but has no subsidiaries"
	factorChainLink  = "sole subsidiary of a single-child owner (chain-link structure)"
	factorActiveLeaf = "active status with no subsidiaries"
)

// ShellFlag is one flagged entity with its accumulated risk score and the
// contributing factors.
type ShellFlag struct {
	Slug      string   `json:"slug"`
	Name      string   `json:"name"`
	RiskScore float64  `json:"risk_score"`
	Factors   []string `json:"factors"`
}

// IdentifyShellCompanies scores every node that carries a metadata
// snapshot against the shell-pattern factors and returns those at or above
// ShellReportThreshold, ranked by score descending (ties keep encounter
// order). Nodes without a snapshot are skipped: the status factor cannot
// be evaluated for them.
func (g *Graph) IdentifyShellCompanies() []ShellFlag {
	var flags []ShellFlag

	for _, id := range g.order {
		n := g.nodes[id]
		if n.data == nil {
			continue
		}

		score := 0.0
		var factors []string

		if len(n.children) == 0 && len(n.parents) >= 1 {
			score += weightOwnedLeaf
			factors = append(factors, factorOwnedLeaf)
		}

		if len(n.parents) == 1 {
			if parent := g.nodes[n.parents[0]]; parent != nil && len(parent.children) == 1 {
				score += weightChainLink
				factors = append(factors, factorChainLink)
			}
		}

		if n.data.Status == string(models.StatusActive) && len(n.children) == 0 {
			score += weightActiveLeaf
			factors = append(factors, factorActiveLeaf)
		}

		score = math.Round(score*100) / 100
		if score >= ShellReportThreshold {
			name := n.data.Name
			if name == "" {
				name = id
			}
			flags = append(flags, ShellFlag{Slug: id, Name: name, RiskScore: score, Factors: factors})
		}
	}

	sort.SliceStable(flags, func(i, j int) bool {
		return flags[i].RiskScore > flags[j].RiskScore
	})
	return flags
}

// IdentifyProxies returns the slugs of every node with more than one
// direct parent. Multiple simultaneous owners is a crude signal — a
// candidate for closer inspection, not evidence of a shell — so it is kept
// separate from risk scoring.
func (g *Graph) IdentifyProxies() []string {
	var out []string
	for _, id := range g.order {
		if len(g.nodes[id].parents) > 1 {
			out = append(out, id)
		}
	}
	return out
}

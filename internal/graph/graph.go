// Package graph maintains the directed, weighted ownership topology
// between corporate entities, overlays point-in-time entity metadata, and
// derives analytical views such as shell-company risk scores.
//
// The graph and the portfolio registry are deliberately separate stores:
// the registry holds known entities, the graph holds known entities plus
// known ownership. Metadata here is a snapshot copied from an entity, not
// a reference; registry updates do not propagate until re-synced.
package graph

import (
	"fmt"

	"github.com/projectchronos/chronos/internal/models"
)

// NodeData is the metadata snapshot carried by a graph node, captured at
// the time the entity was added.
type NodeData struct {
	Name         string
	Jurisdiction string
	Status       string
	Formed       string // ISO date, "" when unknown
}

type node struct {
	children []string // direct subsidiaries, first-linked order
	parents  []string // direct owners, first-linked order
	pct      map[string]float64
	data     *NodeData
}

// Graph is a directed graph over entity slugs. Nodes may exist without
// edges or metadata. It is not safe for unsynchronized concurrent
// mutation; the calling context serializes writes.
type Graph struct {
	order []string
	nodes map[string]*node
}

// New creates an empty relationship graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

func (g *Graph) ensureNode(slug string) *node {
	n, ok := g.nodes[slug]
	if !ok {
		n = &node{pct: make(map[string]float64)}
		g.nodes[slug] = n
		g.order = append(g.order, slug)
	}
	return n
}

// LinkParent creates or overwrites the directed edge parent -> child with
// the given ownership percentage. Slugs that are not yet nodes are created
// bare; linking does not require metadata to exist. A percentage outside
// [0, 100] fails validation before any node or edge is touched.
func (g *Graph) LinkParent(parent, child string, pct float64) error {
	// The negated form rejects NaN too, which would otherwise slip past a
	// pair of < / > comparisons and poison the JSON export.
	if !(pct >= 0.0 && pct <= 100.0) {
		return &models.ValidationError{
			Field:  "pct",
			Reason: fmt.Sprintf("ownership percentage %v outside [0, 100]", pct),
		}
	}

	p := g.ensureNode(parent)
	c := g.ensureNode(child)

	if _, exists := p.pct[child]; !exists {
		p.children = append(p.children, child)
		c.parents = append(c.parents, parent)
	}
	p.pct[child] = pct
	return nil
}

// Subsidiaries returns the direct successor slugs of parent in
// first-linked order. An unknown slug has no subsidiaries.
func (g *Graph) Subsidiaries(parent string) []string {
	n, ok := g.nodes[parent]
	if !ok {
		return nil
	}
	out := make([]string, len(n.children))
	copy(out, n.children)
	return out
}

// Parents returns the direct predecessor slugs of child in first-linked
// order.
func (g *Graph) Parents(child string) []string {
	n, ok := g.nodes[child]
	if !ok {
		return nil
	}
	out := make([]string, len(n.parents))
	copy(out, n.parents)
	return out
}

// OwnershipPct returns the stored percentage for the edge parent -> child,
// or models.ErrNotFound when no such edge exists.
func (g *Graph) OwnershipPct(parent, child string) (float64, error) {
	if n, ok := g.nodes[parent]; ok {
		if pct, ok := n.pct[child]; ok {
			return pct, nil
		}
	}
	return 0, fmt.Errorf("ownership edge %s -> %s: %w", parent, child, models.ErrNotFound)
}

// AddEntityData stores a metadata snapshot for the entity's slug,
// overwriting any prior snapshot, and ensures a node exists. The snapshot
// is a copy; later changes to the entity are not reflected until the
// caller re-syncs.
func (g *Graph) AddEntityData(e *models.CorporateEntity) {
	n := g.ensureNode(e.Slug())
	n.data = &NodeData{
		Name:         e.Name,
		Jurisdiction: e.Jurisdiction,
		Status:       string(e.Status),
		Formed:       e.FormedISO(),
	}
}

// EntityData returns a copy of the snapshot for slug, if one exists.
func (g *Graph) EntityData(slug string) (*NodeData, bool) {
	n, ok := g.nodes[slug]
	if !ok || n.data == nil {
		return nil, false
	}
	data := *n.data
	return &data, true
}

// HasNode reports whether slug is present in the graph.
func (g *Graph) HasNode(slug string) bool {
	_, ok := g.nodes[slug]
	return ok
}

// Nodes returns all node slugs in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, n := range g.nodes {
		total += len(n.pct)
	}
	return total
}

// Clear removes every node, edge, and metadata snapshot. It never touches
// the portfolio registry; the two stores are independent.
func (g *Graph) Clear() {
	g.order = nil
	g.nodes = make(map[string]*node)
}

// SyncRegistry copies a metadata snapshot for every entity into the graph.
// Re-syncing is idempotent and cheap, and is the caller's explicit step;
// there is no transactional guarantee across registry and graph.
func (g *Graph) SyncRegistry(entities []*models.CorporateEntity) {
	for _, e := range entities {
		g.AddEntityData(e)
	}
}

package graph

import "fmt"

// Node type markers in the export document. A node is PRIMARY iff it has
// zero parents.
const (
	NodeTypePrimary    = "PRIMARY"
	NodeTypeSubsidiary = "SUBSIDIARY"
)

// StatusUnknown is exported for nodes that carry no metadata snapshot.
const StatusUnknown = "UNKNOWN"

// Node is one entry in the export document's node list.
type Node struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	Jurisdiction string `json:"jurisdiction"`
	Type         string `json:"type"`
}

// Link is one directed ownership edge in the export document.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// Document is the graph serialization consumed by the visualization
// front end.
type Document struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Export renders the graph into its wire document. Nodes without a
// metadata snapshot still appear, with the name falling back to the slug
// and status UNKNOWN. Ordering follows node insertion order, children in
// first-linked order, so repeated exports of the same graph are identical.
func (g *Graph) Export() *Document {
	doc := &Document{Nodes: []Node{}, Links: []Link{}}

	for _, id := range g.order {
		n := g.nodes[id]

		out := Node{
			ID:     id,
			Name:   id,
			Status: StatusUnknown,
			Type:   NodeTypeSubsidiary,
		}
		if n.data != nil {
			out.Name = n.data.Name
			out.Status = n.data.Status
			out.Jurisdiction = n.data.Jurisdiction
		}
		if len(n.parents) == 0 {
			out.Type = NodeTypePrimary
		}
		doc.Nodes = append(doc.Nodes, out)

		for _, child := range n.children {
			doc.Links = append(doc.Links, Link{Source: id, Target: child, Value: n.pct[child]})
		}
	}
	return doc
}

// FromDocument rebuilds a graph from an export document. Node metadata in
// the document becomes the snapshot (an UNKNOWN status stays off the
// snapshot entirely, matching a bare node).
func FromDocument(doc *Document) (*Graph, error) {
	g := New()
	for _, n := range doc.Nodes {
		node := g.ensureNode(n.ID)
		if n.Status == StatusUnknown && n.Name == n.ID && n.Jurisdiction == "" {
			continue
		}
		node.data = &NodeData{
			Name:         n.Name,
			Jurisdiction: n.Jurisdiction,
			Status:       n.Status,
		}
	}
	for _, l := range doc.Links {
		if err := g.LinkParent(l.Source, l.Target, l.Value); err != nil {
			return nil, fmt.Errorf("importing link %s -> %s: %w", l.Source, l.Target, err)
		}
	}
	return g, nil
}

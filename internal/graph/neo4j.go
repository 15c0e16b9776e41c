package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const neo4jConnectTimeout = 10 * time.Second

// cypherRunner executes one Cypher query and returns its eager result.
// The store goes through this seam for every query so tests can substitute
// a fake without a live database.
type cypherRunner func(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)

// Neo4jStore persists a relationship graph to a Neo4j database: entities
// as (:Entity {slug, ...}) nodes and ownership edges as [:OWNS {pct}]
// relationships. The in-memory Graph remains the working representation;
// this store only pushes and pulls whole graphs.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	run    cypherRunner
	logger *slog.Logger
}

// NewNeo4jStore connects to Neo4j and verifies connectivity.
func NewNeo4jStore(ctx context.Context, uri, username, password, database string, logger *slog.Logger) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver for %s: %w", uri, err)
	}

	vctx, cancel := context.WithTimeout(ctx, neo4jConnectTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity at %s: %w", uri, err)
	}

	run := func(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
		return neo4j.ExecuteQuery(ctx, driver, query, params,
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(database))
	}

	logger.Info("connected to neo4j", "uri", uri, "database", database)
	return &Neo4jStore{driver: driver, run: run, logger: logger}, nil
}

// Push replaces the stored graph with g: existing Entity nodes are wiped,
// then nodes and edges are written in bulk.
func (s *Neo4jStore) Push(ctx context.Context, g *Graph) error {
	if err := s.Clear(ctx); err != nil {
		return err
	}

	nodes := nodeParams(g)
	if len(nodes) > 0 {
		_, err := s.run(ctx,
			`UNWIND $nodes AS n
			 MERGE (e:Entity {slug: n.slug})
			 SET e.name = n.name,
			     e.jurisdiction = n.jurisdiction,
			     e.status = n.status,
			     e.formed = n.formed,
			     e.ord = n.ord,
			     e.bare = n.bare`,
			map[string]any{"nodes": nodes})
		if err != nil {
			return fmt.Errorf("pushing %d graph nodes: %w", len(nodes), err)
		}
	}

	links := linkParams(g)
	if len(links) > 0 {
		_, err := s.run(ctx,
			`UNWIND $links AS l
			 MATCH (p:Entity {slug: l.source})
			 MATCH (c:Entity {slug: l.target})
			 MERGE (p)-[o:OWNS]->(c)
			 SET o.pct = l.pct, o.ord = l.ord`,
			map[string]any{"links": links})
		if err != nil {
			return fmt.Errorf("pushing %d ownership edges: %w", len(links), err)
		}
	}

	s.logger.Info("graph pushed to neo4j", "nodes", len(nodes), "edges", len(links))
	return nil
}

// Pull rebuilds a Graph from the stored nodes and edges. Insertion and
// link order are restored from the ord properties written by Push.
func (s *Neo4jStore) Pull(ctx context.Context) (*Graph, error) {
	g := New()

	nodeResult, err := s.run(ctx,
		`MATCH (e:Entity)
		 RETURN e.slug AS slug, e.name AS name, e.jurisdiction AS jurisdiction,
		        e.status AS status, e.formed AS formed, e.bare AS bare
		 ORDER BY e.ord`,
		nil)
	if err != nil {
		return nil, fmt.Errorf("pulling graph nodes: %w", err)
	}

	for _, rec := range nodeResult.Records {
		m := rec.AsMap()
		slug := asString(m["slug"])
		if slug == "" {
			continue
		}
		n := g.ensureNode(slug)
		if asBool(m["bare"]) {
			continue
		}
		n.data = &NodeData{
			Name:         asString(m["name"]),
			Jurisdiction: asString(m["jurisdiction"]),
			Status:       asString(m["status"]),
			Formed:       asString(m["formed"]),
		}
	}

	linkResult, err := s.run(ctx,
		`MATCH (p:Entity)-[o:OWNS]->(c:Entity)
		 RETURN p.slug AS source, c.slug AS target, o.pct AS pct
		 ORDER BY o.ord`,
		nil)
	if err != nil {
		return nil, fmt.Errorf("pulling ownership edges: %w", err)
	}

	for _, rec := range linkResult.Records {
		m := rec.AsMap()
		source := asString(m["source"])
		target := asString(m["target"])
		pct, _ := m["pct"].(float64)
		if err := g.LinkParent(source, target, pct); err != nil {
			return nil, fmt.Errorf("restoring edge %s -> %s: %w", source, target, err)
		}
	}

	s.logger.Debug("graph pulled from neo4j", "nodes", len(g.Nodes()), "edges", g.EdgeCount())
	return g, nil
}

// Clear removes every stored Entity node and its relationships.
func (s *Neo4jStore) Clear(ctx context.Context) error {
	if _, err := s.run(ctx, `MATCH (e:Entity) DETACH DELETE e`, nil); err != nil {
		return fmt.Errorf("clearing stored graph: %w", err)
	}
	return nil
}

// Close releases the underlying driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// nodeParams flattens the graph's nodes into UNWIND-able maps. Bare nodes
// (no metadata snapshot) are marked so Pull can restore them as bare.
func nodeParams(g *Graph) []map[string]any {
	out := make([]map[string]any, 0, len(g.order))
	for i, slug := range g.order {
		n := g.nodes[slug]
		m := map[string]any{
			"slug": slug,
			"ord":  i,
			"bare": n.data == nil,
			"name": "", "jurisdiction": "", "status": "", "formed": "",
		}
		if n.data != nil {
			m["name"] = n.data.Name
			m["jurisdiction"] = n.data.Jurisdiction
			m["status"] = n.data.Status
			m["formed"] = n.data.Formed
		}
		out = append(out, m)
	}
	return out
}

// linkParams flattens the graph's edges in deterministic order.
func linkParams(g *Graph) []map[string]any {
	var out []map[string]any
	ord := 0
	for _, slug := range g.order {
		n := g.nodes[slug]
		for _, child := range n.children {
			out = append(out, map[string]any{
				"source": slug,
				"target": child,
				"pct":    n.pct[child],
				"ord":    ord,
			})
			ord++
		}
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

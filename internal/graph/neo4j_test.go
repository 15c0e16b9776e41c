package graph

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectchronos/chronos/internal/models"
)

type recordedQuery struct {
	query  string
	params map[string]any
}

// fakeRunner captures every query and answers from canned per-query
// results keyed by a substring of the Cypher text.
type fakeRunner struct {
	queries []recordedQuery
	results map[string]*neo4j.EagerResult
	err     error
}

func (f *fakeRunner) run(_ context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	f.queries = append(f.queries, recordedQuery{query: query, params: params})
	if f.err != nil {
		return nil, f.err
	}
	for needle, result := range f.results {
		if strings.Contains(query, needle) {
			return result, nil
		}
	}
	return &neo4j.EagerResult{}, nil
}

func fakeStore(f *fakeRunner) *Neo4jStore {
	return &Neo4jStore{
		run:    f.run,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func TestNodeParams(t *testing.T) {
	g := New()
	g.AddEntityData(&models.CorporateEntity{
		Name:         "Acme Holdings",
		Jurisdiction: "DE",
		Status:       models.StatusActive,
	})
	require.NoError(t, g.LinkParent("acme-holdings", "bare-sub", 100.0))

	params := nodeParams(g)
	require.Len(t, params, 2)

	assert.Equal(t, "acme-holdings", params[0]["slug"])
	assert.Equal(t, 0, params[0]["ord"])
	assert.Equal(t, false, params[0]["bare"])
	assert.Equal(t, "Acme Holdings", params[0]["name"])
	assert.Equal(t, "ACTIVE", params[0]["status"])

	assert.Equal(t, "bare-sub", params[1]["slug"])
	assert.Equal(t, true, params[1]["bare"])
	assert.Equal(t, "", params[1]["name"])
}

func TestLinkParams(t *testing.T) {
	g := New()
	require.NoError(t, g.LinkParent("holdco", "opco-1", 100.0))
	require.NoError(t, g.LinkParent("holdco", "opco-2", 75.0))
	require.NoError(t, g.LinkParent("opco-1", "subsub", 25.0))

	params := linkParams(g)
	require.Len(t, params, 3)

	assert.Equal(t, "holdco", params[0]["source"])
	assert.Equal(t, "opco-1", params[0]["target"])
	assert.Equal(t, 100.0, params[0]["pct"])
	assert.Equal(t, 0, params[0]["ord"])

	assert.Equal(t, "opco-2", params[1]["target"])
	assert.Equal(t, "subsub", params[2]["target"])
	assert.Equal(t, 2, params[2]["ord"])
}

func TestLinkParamsEmptyGraph(t *testing.T) {
	assert.Empty(t, linkParams(New()))
	assert.Empty(t, nodeParams(New()))
}

func TestPushWipesThenWritesNodesAndEdges(t *testing.T) {
	g := New()
	g.AddEntityData(&models.CorporateEntity{Name: "Acme Holdings", Jurisdiction: "DE", Status: models.StatusActive})
	require.NoError(t, g.LinkParent("acme-holdings", "acme-opco", 100.0))

	f := &fakeRunner{}
	require.NoError(t, fakeStore(f).Push(context.Background(), g))

	require.Len(t, f.queries, 3)
	assert.Contains(t, f.queries[0].query, "DETACH DELETE")
	assert.Contains(t, f.queries[1].query, "UNWIND $nodes")
	assert.Contains(t, f.queries[2].query, "UNWIND $links")

	nodes := f.queries[1].params["nodes"].([]map[string]any)
	require.Len(t, nodes, 2)
	assert.Equal(t, "acme-holdings", nodes[0]["slug"])
	assert.Equal(t, true, nodes[1]["bare"])

	links := f.queries[2].params["links"].([]map[string]any)
	require.Len(t, links, 1)
	assert.Equal(t, "acme-opco", links[0]["target"])
	assert.Equal(t, 100.0, links[0]["pct"])
}

func TestPushEmptyGraphOnlyClears(t *testing.T) {
	f := &fakeRunner{}
	require.NoError(t, fakeStore(f).Push(context.Background(), New()))
	require.Len(t, f.queries, 1)
	assert.Contains(t, f.queries[0].query, "DETACH DELETE")
}

func TestPullRebuildsGraph(t *testing.T) {
	nodeKeys := []string{"slug", "name", "jurisdiction", "status", "formed", "bare"}
	linkKeys := []string{"source", "target", "pct"}
	f := &fakeRunner{results: map[string]*neo4j.EagerResult{
		"e.bare AS bare": {Records: []*neo4j.Record{
			record(nodeKeys, "acme-holdings", "Acme Holdings", "DE", "ACTIVE", "2015-01-01", false),
			record(nodeKeys, "acme-opco", "", "", "", "", true),
		}},
		"[o:OWNS]": {Records: []*neo4j.Record{
			record(linkKeys, "acme-holdings", "acme-opco", 100.0),
		}},
	}}

	g, err := fakeStore(f).Pull(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"acme-holdings", "acme-opco"}, g.Nodes())

	data, ok := g.EntityData("acme-holdings")
	require.True(t, ok)
	assert.Equal(t, "Acme Holdings", data.Name)
	assert.Equal(t, "2015-01-01", data.Formed)

	_, ok = g.EntityData("acme-opco")
	assert.False(t, ok, "bare marker must restore a node without a snapshot")

	pct, err := g.OwnershipPct("acme-holdings", "acme-opco")
	require.NoError(t, err)
	assert.Equal(t, 100.0, pct)
}

func TestPullRejectsCorruptEdge(t *testing.T) {
	f := &fakeRunner{results: map[string]*neo4j.EagerResult{
		"[o:OWNS]": {Records: []*neo4j.Record{
			record([]string{"source", "target", "pct"}, "p", "c", 250.0),
		}},
	}}

	_, err := fakeStore(f).Pull(context.Background())
	require.Error(t, err)
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestClearPropagatesQueryError(t *testing.T) {
	boom := errors.New("connection reset")
	f := &fakeRunner{err: boom}
	err := fakeStore(f).Clear(context.Background())
	assert.ErrorIs(t, err, boom)
}

package graph_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectchronos/chronos/internal/graph"
	"github.com/projectchronos/chronos/internal/models"
	"github.com/projectchronos/chronos/internal/portfolio"
)

func entity(t *testing.T, name string, st models.Status) *models.CorporateEntity {
	t.Helper()
	e, err := models.NewEntity(name, "DE", time.Date(2018, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	e.Status = st
	return e
}

func TestLinkParent(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.LinkParent("holdco", "opco-1", 100.0))
	require.NoError(t, g.LinkParent("holdco", "opco-2", 75.0))

	assert.Equal(t, []string{"opco-1", "opco-2"}, g.Subsidiaries("holdco"))
	assert.Equal(t, []string{"holdco"}, g.Parents("opco-1"))

	pct, err := g.OwnershipPct("holdco", "opco-2")
	require.NoError(t, err)
	assert.Equal(t, 75.0, pct)
}

func TestLinkParentAutoCreatesBareNodes(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.LinkParent("unseen-parent", "unseen-child", 50.0))

	assert.True(t, g.HasNode("unseen-parent"))
	assert.True(t, g.HasNode("unseen-child"))
	_, ok := g.EntityData("unseen-parent")
	assert.False(t, ok, "bare node must have no metadata")
}

func TestLinkParentRejectsOutOfRangePct(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.LinkParent("a", "b", 10.0))

	for _, pct := range []float64{-0.01, 100.01, 250.0, -50.0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := g.LinkParent("a", "c", pct)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr, "pct=%v", pct)

		// All-or-nothing: the failed call must not create node "c"
		// or grow the edge set.
		assert.False(t, g.HasNode("c"))
		assert.Equal(t, []string{"a", "b"}, g.Nodes())
		assert.Equal(t, 1, g.EdgeCount())
	}

	// Boundary values are legal.
	require.NoError(t, g.LinkParent("a", "zero", 0.0))
	require.NoError(t, g.LinkParent("a", "full", 100.0))

	// No non-finite pct ever reached an edge, so the export document
	// still serializes.
	_, err := json.Marshal(g.Export())
	require.NoError(t, err)
}

func TestRelinkOverwritesPct(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.LinkParent("p", "c", 50.0))
	require.NoError(t, g.LinkParent("p", "c", 75.0))

	assert.Equal(t, 1, g.EdgeCount(), "re-link must not create a multi-edge")
	assert.Equal(t, []string{"c"}, g.Subsidiaries("p"))

	pct, err := g.OwnershipPct("p", "c")
	require.NoError(t, err)
	assert.Equal(t, 75.0, pct)
}

func TestOwnershipPctMissingEdge(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.LinkParent("p", "c", 10.0))

	_, err := g.OwnershipPct("c", "p") // reverse direction is not an edge
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = g.OwnershipPct("p", "stranger")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddEntityDataSnapshotIsACopy(t *testing.T) {
	g := graph.New()
	e := entity(t, "Acme OpCo", models.StatusActive)
	g.AddEntityData(e)

	// Mutating the live entity must not leak into the stored snapshot.
	e.Status = models.StatusDissolved
	e.Jurisdiction = "NV"

	data, ok := g.EntityData("acme-opco")
	require.True(t, ok)
	assert.Equal(t, "ACTIVE", data.Status)
	assert.Equal(t, "DE", data.Jurisdiction)
	assert.Equal(t, "2018-04-01", data.Formed)
}

func TestAddEntityDataOverwrites(t *testing.T) {
	g := graph.New()
	g.AddEntityData(entity(t, "Acme OpCo", models.StatusPending))
	g.AddEntityData(entity(t, "Acme OpCo", models.StatusActive))

	data, ok := g.EntityData("acme-opco")
	require.True(t, ok)
	assert.Equal(t, "ACTIVE", data.Status)
	assert.Len(t, g.Nodes(), 1)
}

func TestClearDoesNotTouchRegistry(t *testing.T) {
	reg := portfolio.NewMemoryRegistry()
	g := graph.New()

	for _, name := range []string{"Alpha Co", "Bravo Co", "Charlie Co"} {
		e := entity(t, name, models.StatusActive)
		require.NoError(t, reg.Add(e))
		g.AddEntityData(e)
	}
	require.NoError(t, g.LinkParent("alpha-co", "bravo-co", 100.0))

	g.Clear()

	assert.Empty(t, g.Nodes())
	assert.Zero(t, g.EdgeCount())

	n, err := reg.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n, "clearing the graph must not delete portfolio entities")
}

func TestSyncRegistry(t *testing.T) {
	reg := portfolio.NewMemoryRegistry()
	g := graph.New()

	require.NoError(t, reg.Add(entity(t, "Alpha Co", models.StatusActive)))
	require.NoError(t, reg.Add(entity(t, "Bravo Co", models.StatusPending)))

	all, err := reg.All()
	require.NoError(t, err)
	g.SyncRegistry(all)

	assert.ElementsMatch(t, []string{"alpha-co", "bravo-co"}, g.Nodes())
	data, ok := g.EntityData("bravo-co")
	require.True(t, ok)
	assert.Equal(t, "PENDING", data.Status)

	// Re-sync after a registry-side change refreshes the snapshot.
	got, err := reg.Get("bravo-co")
	require.NoError(t, err)
	got.Status = models.StatusActive
	all, err = reg.All()
	require.NoError(t, err)
	g.SyncRegistry(all)

	data, ok = g.EntityData("bravo-co")
	require.True(t, ok)
	assert.Equal(t, "ACTIVE", data.Status)
}

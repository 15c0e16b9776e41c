package portfolio_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectchronos/chronos/internal/models"
	"github.com/projectchronos/chronos/internal/portfolio"
)

func entity(t *testing.T, name string, st models.Status) *models.CorporateEntity {
	t.Helper()
	e, err := models.NewEntity(name, "DE", time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	e.Status = st
	return e
}

func TestMemoryRegistryAddGet(t *testing.T) {
	reg := portfolio.NewMemoryRegistry()
	require.NoError(t, reg.Add(entity(t, "Foo LLC", models.StatusPending)))

	got, err := reg.Get("foo-llc")
	require.NoError(t, err)
	assert.Equal(t, "Foo LLC", got.Name)

	_, err = reg.Get("missing-co")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryRegistryUpsertLastWriteWins(t *testing.T) {
	reg := portfolio.NewMemoryRegistry()
	require.NoError(t, reg.Add(entity(t, "Foo LLC", models.StatusPending)))

	// Same slug, different case of the name: silently overwrites.
	replacement := entity(t, "FOO LLC", models.StatusActive)
	require.NoError(t, reg.Add(replacement))

	n, err := reg.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := reg.Get("foo-llc")
	require.NoError(t, err)
	assert.Equal(t, "FOO LLC", got.Name)
	assert.Equal(t, models.StatusActive, got.Status)
}

func TestMemoryRegistryFindByStatus(t *testing.T) {
	reg := portfolio.NewMemoryRegistry()
	require.NoError(t, reg.Add(entity(t, "Active One", models.StatusActive)))
	require.NoError(t, reg.Add(entity(t, "Pending One", models.StatusPending)))
	require.NoError(t, reg.Add(entity(t, "Active Two", models.StatusActive)))

	active, err := reg.FindByStatus(models.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Active One", active[0].Name)
	assert.Equal(t, "Active Two", active[1].Name)

	dissolved, err := reg.FindByStatus(models.StatusDissolved)
	require.NoError(t, err)
	assert.Empty(t, dissolved)
}

func TestMemoryRegistryAllKeepsInsertionOrder(t *testing.T) {
	reg := portfolio.NewMemoryRegistry()
	names := []string{"Charlie Co", "Alpha Co", "Bravo Co"}
	for _, n := range names {
		require.NoError(t, reg.Add(entity(t, n, models.StatusPending)))
	}

	all, err := reg.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, n := range names {
		assert.Equal(t, n, all[i].Name)
	}
}

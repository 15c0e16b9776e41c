package portfolio_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectchronos/chronos/internal/models"
	"github.com/projectchronos/chronos/internal/portfolio"
)

func openTestDB(t *testing.T) *portfolio.SQLiteRegistry {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	reg, err := portfolio.OpenSQLite(filepath.Join(t.TempDir(), "chronos.db"), logger)
	require.NoError(t, err)
	return reg
}

func TestSQLiteRegistryRoundTrip(t *testing.T) {
	reg := openTestDB(t)

	e, err := models.NewEntity("Acme Holdings", "DE", time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	e.Officers = []string{"J. Doe", "A. Smith"}
	e.Notes = "initial filing reviewed"
	require.NoError(t, reg.Add(e))

	got, err := reg.Get("acme-holdings")
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", got.Name)
	assert.Equal(t, "DE", got.Jurisdiction)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, []string{"J. Doe", "A. Smith"}, got.Officers)
	assert.Equal(t, "initial filing reviewed", got.Notes)
	assert.Equal(t, "2015-01-01", got.FormedISO())
}

func TestSQLiteRegistryNotFound(t *testing.T) {
	reg := openTestDB(t)
	_, err := reg.Get("no-such-entity")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSQLiteRegistryUpsert(t *testing.T) {
	reg := openTestDB(t)

	e, err := models.NewEntity("Foo LLC", "DE", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, reg.Add(e))

	e.Status = models.StatusActive
	require.NoError(t, reg.Add(e))

	n, err := reg.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := reg.Get("foo-llc")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
}

func TestSQLiteRegistryFindByStatus(t *testing.T) {
	reg := openTestDB(t)

	for _, spec := range []struct {
		name string
		st   models.Status
	}{
		{"Zulu Co", models.StatusActive},
		{"Alpha Co", models.StatusActive},
		{"Mike Co", models.StatusDissolved},
	} {
		e, err := models.NewEntity(spec.name, "NV", time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		e.Status = spec.st
		require.NoError(t, reg.Add(e))
	}

	active, err := reg.FindByStatus(models.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 2)
	// Stable slug ordering within a snapshot.
	assert.Equal(t, "Alpha Co", active[0].Name)
	assert.Equal(t, "Zulu Co", active[1].Name)
}

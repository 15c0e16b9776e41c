package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectchronos/chronos/internal/models"
)

func TestNewEntity(t *testing.T) {
	e, err := models.NewEntity("Foo LLC", "DE", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "Foo LLC", e.Name)
	assert.Equal(t, "DE", e.Jurisdiction)
	assert.Equal(t, models.StatusPending, e.Status)
	assert.Empty(t, e.Officers)
	assert.Empty(t, e.Notes)
}

func TestNewEntityRejectsFutureFormation(t *testing.T) {
	future := time.Now().Add(48 * time.Hour)

	e, err := models.NewEntity("Foo LLC", "DE", future)
	assert.Nil(t, e)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "formed", verr.Field)
}

func TestNewEntityRejectsEmptyName(t *testing.T) {
	_, err := models.NewEntity("", "DE", time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC))

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestValidateAgainstReferenceTime(t *testing.T) {
	formed := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	e := &models.CorporateEntity{Name: "Foo LLC", Jurisdiction: "DE", Formed: formed, Status: models.StatusPending}

	// The reference time is the caller's, not the wall clock: the same
	// record passes or fails depending on it.
	var verr *models.ValidationError
	require.ErrorAs(t, e.Validate(formed.Add(-time.Hour)), &verr)
	assert.Equal(t, "formed", verr.Field)

	assert.NoError(t, e.Validate(formed.Add(time.Hour)))
}

func TestSlugDerivedNotCached(t *testing.T) {
	e, err := models.NewEntity("Acme Holdings", "DE", time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "acme-holdings", e.Slug())

	// Renaming in place changes the derived key immediately.
	e.Name = "Acme Global Holdings"
	assert.Equal(t, "acme-global-holdings", e.Slug())
}

func TestAgeInDays(t *testing.T) {
	formed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	e, err := models.NewEntity("Foo LLC", "DE", formed)
	require.NoError(t, err)

	ref := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, e.AgeInDays(ref))
	assert.Equal(t, 0, e.AgeInDays(formed))

	// Zero ref means now; the entity is years old either way.
	assert.Greater(t, e.AgeInDays(time.Time{}), 365)
}

func TestAppendNote(t *testing.T) {
	e, err := models.NewEntity("Foo LLC", "DE", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	e.AppendNote("first finding")
	assert.Equal(t, "first finding", e.Notes)

	e.AppendNote("second finding")
	assert.Equal(t, "first finding; second finding", e.Notes)

	e.AppendNote("")
	assert.Equal(t, "first finding; second finding", e.Notes)
}

func TestStatusIsValid(t *testing.T) {
	for _, st := range models.ValidStatuses {
		t.Run(string(st), func(t *testing.T) {
			assert.True(t, st.IsValid())
		})
	}
	assert.False(t, models.Status("bogus").IsValid())
}

func TestParseStatus(t *testing.T) {
	st, err := models.ParseStatus("IN_COMPLIANCE")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInCompliance, st)

	_, err = models.ParseStatus("active") // case-sensitive, names are upper
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestFormedISO(t *testing.T) {
	e, err := models.NewEntity("Foo LLC", "DE", time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2021-03-15", e.FormedISO())

	e.Formed = time.Time{}
	assert.Equal(t, "", e.FormedISO())
}

package sources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/projectchronos/chronos/internal/models"
	"github.com/projectchronos/chronos/internal/sources"
)

func TestStatusFromFiling(t *testing.T) {
	cases := []struct {
		raw  string
		want models.Status
	}{
		{"active", models.StatusActive},
		{"Active", models.StatusActive},
		{"  ACTIVE  ", models.StatusActive},
		{"good standing", models.StatusInCompliance},
		{"In Good Standing", models.StatusInCompliance},
		{"dissolved", models.StatusDissolved},
		{"inactive", models.StatusDissolved},
		{"revoked", models.StatusDelinquent},
		{"delinquent", models.StatusDelinquent},
		{"suspended", models.StatusDelinquent},
		{"pending", models.StatusPending},
		{"something new", models.StatusActive}, // unmapped defaults to ACTIVE
		{"", models.StatusActive},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, sources.StatusFromFiling(tc.raw))
		})
	}
}

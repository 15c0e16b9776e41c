// Package sources contains clients for upstream business-registry data
// providers. Each client normalizes third-party payloads into
// CorporateEntity records; the core never parses external data itself.
package sources

import (
	"context"
	"strings"

	"github.com/projectchronos/chronos/internal/models"
)

// Source is any upstream provider that can search for business entities
// by name and optional two-letter state code.
type Source interface {
	Search(ctx context.Context, name, state string) ([]*models.CorporateEntity, error)
}

// filingStatuses maps lowercased Secretary-of-State filing status strings
// to life-cycle states.
var filingStatuses = map[string]models.Status{
	"active":           models.StatusActive,
	"good standing":    models.StatusInCompliance,
	"in good standing": models.StatusInCompliance,
	"dissolved":        models.StatusDissolved,
	"inactive":         models.StatusDissolved,
	"revoked":          models.StatusDelinquent,
	"delinquent":       models.StatusDelinquent,
	"suspended":        models.StatusDelinquent,
	"pending":          models.StatusPending,
}

// StatusFromFiling normalizes a provider's filing status string. Unmapped
// values default to ACTIVE, matching upstream behavior where an unknown
// status almost always accompanies a live registration.
func StatusFromFiling(raw string) models.Status {
	key := strings.ToLower(strings.TrimSpace(raw))
	if st, ok := filingStatuses[key]; ok {
		return st
	}
	return models.StatusActive
}

// Package lifecycle enforces the legal status transition rules for a
// corporate entity. It is a pure validator plus an in-place mutator; it
// performs no I/O.
package lifecycle

import (
	"github.com/projectchronos/chronos/internal/models"
)

// rules maps each status to its legal successor states. DISSOLVED is
// terminal and deliberately absent.
var rules = map[models.Status][]models.Status{
	models.StatusPending:      {models.StatusActive},
	models.StatusActive:       {models.StatusInCompliance, models.StatusDelinquent},
	models.StatusInCompliance: {models.StatusDelinquent, models.StatusDissolved},
	models.StatusDelinquent:   {models.StatusInCompliance, models.StatusDissolved},
}

// CanTransition reports whether the single-step transition from -> to is
// permitted. It is a total function over all status pairs.
func CanTransition(from, to models.Status) bool {
	for _, target := range rules[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Targets returns the legal successor states of from, in rule order.
// DISSOLVED (and any unknown status) has none.
func Targets(from models.Status) []models.Status {
	targets := rules[from]
	out := make([]models.Status, len(targets))
	copy(out, targets)
	return out
}

// Advance mutates the entity's status in place if the transition from its
// current status is legal, otherwise returns an IllegalTransitionError and
// leaves the entity unmodified.
//
// The check is strictly single-step against the current source status;
// advancing to a status the entity already holds is not a no-op, it is a
// violation unless the table allows it.
func Advance(e *models.CorporateEntity, to models.Status) error {
	if !CanTransition(e.Status, to) {
		return &models.IllegalTransitionError{From: e.Status, To: to}
	}
	e.Status = to
	return nil
}

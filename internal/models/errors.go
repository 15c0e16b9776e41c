package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups against a nonexistent slug or edge.
var ErrNotFound = errors.New("not found")

// ValidationError reports a malformed entity field or an out-of-range
// ownership percentage. It is raised at the point of construction and
// never silently clamped.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IllegalTransitionError reports a life-cycle transition not permitted by
// the state table. The entity is left unchanged when this is returned.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}

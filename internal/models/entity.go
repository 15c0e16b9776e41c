package models

import (
	"time"

	"github.com/projectchronos/chronos/pkg/slug"
)

// Status is the legal life-cycle state of a corporate entity.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusActive       Status = "ACTIVE"
	StatusInCompliance Status = "IN_COMPLIANCE"
	StatusDelinquent   Status = "DELINQUENT"
	StatusDissolved    Status = "DISSOLVED"
)

// ValidStatuses is the set of all valid life-cycle states.
var ValidStatuses = []Status{
	StatusPending,
	StatusActive,
	StatusInCompliance,
	StatusDelinquent,
	StatusDissolved,
}

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	for i := range ValidStatuses {
		if s == ValidStatuses[i] {
			return true
		}
	}
	return false
}

// ParseStatus converts a status name into a Status.
func ParseStatus(name string) (Status, error) {
	st := Status(name)
	if !st.IsValid() {
		return "", &ValidationError{Field: "status", Reason: "unknown status " + name}
	}
	return st, nil
}

// NoteSeparator joins successive note fragments. Notes are append-only in
// practice: collaborators concatenate new findings rather than overwrite.
const NoteSeparator = "; "

// CorporateEntity is the core record tracked by Chronos.
//
// Identity is never stored on the struct: the slug is recomputed from Name
// on every use, so a rename immediately changes the key the entity is
// addressed by.
type CorporateEntity struct {
	Name         string    `json:"name"`
	Jurisdiction string    `json:"jurisdiction"`
	Formed       time.Time `json:"formed"`
	Officers     []string  `json:"officers,omitempty"`
	Status       Status    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
}

// NewEntity constructs an entity at StatusPending after validating it.
func NewEntity(name, jurisdiction string, formed time.Time) (*CorporateEntity, error) {
	e := &CorporateEntity{
		Name:         name,
		Jurisdiction: jurisdiction,
		Formed:       formed,
		Status:       StatusPending,
	}
	if err := e.Validate(time.Now()); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the record against the given reference time.
func (e *CorporateEntity) Validate(now time.Time) error {
	if e.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if e.Formed.After(now) {
		return &ValidationError{Field: "formed", Reason: "formation date cannot be in the future"}
	}
	if e.Status != "" && !e.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(e.Status)}
	}
	return nil
}

// Slug returns the entity's derived identifier.
func (e *CorporateEntity) Slug() string {
	return slug.Make(e.Name)
}

// AgeInDays returns whole days between the formation date and ref.
// A zero ref means now.
func (e *CorporateEntity) AgeInDays(ref time.Time) int {
	if ref.IsZero() {
		ref = time.Now()
	}
	return int(ref.Sub(e.Formed).Hours() / 24)
}

// AppendNote concatenates a new finding onto Notes with NoteSeparator.
func (e *CorporateEntity) AppendNote(note string) {
	if note == "" {
		return
	}
	if e.Notes == "" {
		e.Notes = note
		return
	}
	e.Notes += NoteSeparator + note
}

// FormedISO renders the formation date as an ISO date string, or "" when
// the date is unset.
func (e *CorporateEntity) FormedISO() string {
	if e.Formed.IsZero() {
		return ""
	}
	return e.Formed.Format("2006-01-02")
}

// Package portfolio stores corporate entities keyed by their derived slug.
// It is the source of truth for entity identity and attributes; the
// relationship graph keeps only point-in-time snapshots of this data.
package portfolio

import (
	"fmt"
	"sync"

	"github.com/projectchronos/chronos/internal/models"
)

// Registry is the contract the core requires from whichever persistence
// backend is chosen. Implementations upsert by slug with last-write-wins
// semantics; two names that normalize to the same slug are the same
// logical entity.
type Registry interface {
	// Add inserts or overwrites an entity keyed by its slug.
	Add(e *models.CorporateEntity) error

	// Get retrieves an entity by slug. Returns models.ErrNotFound when absent.
	Get(slug string) (*models.CorporateEntity, error)

	// FindByStatus returns all entities currently at the given status.
	// Order is unspecified but stable within a single snapshot.
	FindByStatus(st models.Status) ([]*models.CorporateEntity, error)

	// All returns every entity in the registry.
	All() ([]*models.CorporateEntity, error)

	// Len returns the count of distinct slugs.
	Len() (int, error)
}

// MemoryRegistry is a map-backed Registry. Iteration follows first-insert
// order so snapshots are stable.
type MemoryRegistry struct {
	mu       sync.RWMutex
	order    []string
	entities map[string]*models.CorporateEntity
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entities: make(map[string]*models.CorporateEntity)}
}

func (r *MemoryRegistry) Add(e *models.CorporateEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := e.Slug()
	if _, exists := r.entities[key]; !exists {
		r.order = append(r.order, key)
	}
	r.entities[key] = e
	return nil
}

func (r *MemoryRegistry) Get(slug string) (*models.CorporateEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entities[slug]
	if !ok {
		return nil, fmt.Errorf("entity %q: %w", slug, models.ErrNotFound)
	}
	return e, nil
}

func (r *MemoryRegistry) FindByStatus(st models.Status) ([]*models.CorporateEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.CorporateEntity
	for _, key := range r.order {
		if e := r.entities[key]; e.Status == st {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MemoryRegistry) All() ([]*models.CorporateEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.CorporateEntity, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entities[key])
	}
	return out, nil
}

func (r *MemoryRegistry) Len() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities), nil
}

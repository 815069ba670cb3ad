package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Apurer/go-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog used for demos/tests. It remembers
// insertion order so List is stable.
type Repository struct {
	mu      sync.RWMutex
	entries map[string]*storedEntry
	order   []string
	now     func() time.Time
}

type storedEntry struct {
	entry    *domain.Entry
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory catalog.
func NewRepository() *Repository {
	return &Repository{
		entries: map[string]*storedEntry{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Create inserts entry unless its ID is already stored.
func (r *Repository) Create(_ context.Context, entry *domain.Entry) (*projection.Projection[*domain.Entry], error) {
	if entry == nil {
		return nil, errors.New("cannot create nil catalog entry")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.ID]; ok {
		return nil, ports.ErrAlreadyExists
	}
	timestamp := r.now()
	stored := &storedEntry{entry: entry.Clone(), metadata: projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp}}
	r.entries[entry.ID] = stored
	r.order = append(r.order, entry.ID)
	return projectionCopy(stored), nil
}

// Save inserts or replaces an entry while maintaining metadata.
func (r *Repository) Save(_ context.Context, entry *domain.Entry) (*projection.Projection[*domain.Entry], error) {
	if entry == nil {
		return nil, errors.New("cannot save nil catalog entry")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now()
	metadata := projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp}
	if existing, ok := r.entries[entry.ID]; ok {
		metadata.CreatedAt = existing.metadata.CreatedAt
	} else {
		r.order = append(r.order, entry.ID)
	}
	stored := &storedEntry{entry: entry.Clone(), metadata: metadata}
	r.entries[entry.ID] = stored
	return projectionCopy(stored), nil
}

// GetByID fetches an entry if present.
func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Entry], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.entries[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(stored), nil
}

// Delete removes an entry.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.entries, id)
	r.order = slices.DeleteFunc(r.order, func(candidate string) bool { return candidate == id })
	return nil
}

// List returns all entries in insertion order.
func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Entry], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*projection.Projection[*domain.Entry], 0, len(r.order))
	for _, id := range r.order {
		list = append(list, projectionCopy(r.entries[id]))
	}
	return list, nil
}

func projectionCopy(stored *storedEntry) *projection.Projection[*domain.Entry] {
	return projection.New(stored.entry.Clone(), stored.metadata.CreatedAt, stored.metadata.UpdatedAt)
}

package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order store used for demos/tests. A single lock
// guards orders and timelines so every write is atomic.
type Repository struct {
	mu        sync.RWMutex
	orders    map[string]*storedOrder
	byCode    map[string]string
	createSeq []string
	now       func() time.Time
}

type storedOrder struct {
	order    *domain.Order
	timeline domain.Timeline
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		orders: map[string]*storedOrder{},
		byCode: map[string]string{},
		now:    time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Create stores a new order with its first timeline entry.
func (r *Repository) Create(_ context.Context, order *domain.Order, first domain.TimelineEntry) (*projection.Projection[*domain.Order], error) {
	if order == nil {
		return nil, errors.New("cannot create nil order")
	}
	timeline, err := domain.Timeline(nil).Append(first)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckInvariant(order, timeline); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return nil, fmt.Errorf("order %s already exists", order.ID)
	}
	if _, exists := r.byCode[order.TrackingCode]; exists {
		return nil, fmt.Errorf("tracking code %s already assigned", order.TrackingCode)
	}
	timestamp := r.now()
	stored := &storedOrder{
		order:    order.Clone(),
		timeline: cloneTimeline(timeline),
		metadata: projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp},
	}
	r.orders[order.ID] = stored
	r.byCode[order.TrackingCode] = order.ID
	r.createSeq = append(r.createSeq, order.ID)
	return projectionCopy(stored), nil
}

// ApplyTransition runs fn against the stored order under the write lock and
// stores the new order and entry together.
func (r *Repository) ApplyTransition(_ context.Context, id string, fn ports.TransitionFunc) (*projection.Projection[*domain.Order], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, &ports.NotFoundError{Field: "id", Value: id}
	}
	result, err := fn(stored.order.Clone())
	if err != nil {
		return nil, err
	}
	if result.Order == nil || result.Order.ID != id {
		return nil, fmt.Errorf("%w: transition returned a different order", domain.ErrTimelineDiverged)
	}
	timeline, err := stored.timeline.Append(result.Entry)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckInvariant(result.Order, timeline); err != nil {
		return nil, err
	}
	stored.order = result.Order.Clone()
	stored.timeline = cloneTimeline(timeline)
	stored.metadata.UpdatedAt = r.now()
	return projectionCopy(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, &ports.NotFoundError{Field: "id", Value: id}
	}
	return projectionCopy(stored), nil
}

func (r *Repository) GetByTrackingCode(_ context.Context, code string) (*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[code]
	if !ok {
		return nil, &ports.NotFoundError{Field: "trackingCode", Value: code}
	}
	return projectionCopy(r.orders[id]), nil
}

func (r *Repository) Timeline(_ context.Context, orderID string) (domain.Timeline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.orders[orderID]
	if !ok {
		return nil, &ports.NotFoundError{Field: "id", Value: orderID}
	}
	return cloneTimeline(stored.timeline), nil
}

// List returns orders in creation order.
func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*projection.Projection[*domain.Order], 0, len(r.createSeq))
	for _, id := range r.createSeq {
		list = append(list, projectionCopy(r.orders[id]))
	}
	return list, nil
}

func projectionCopy(stored *storedOrder) *projection.Projection[*domain.Order] {
	return projection.New(stored.order.Clone(), stored.metadata.CreatedAt, stored.metadata.UpdatedAt)
}

func cloneTimeline(t domain.Timeline) domain.Timeline {
	out := make(domain.Timeline, 0, len(t))
	for _, entry := range t {
		entry.Message = entry.Message.Clone()
		out = append(out, entry)
	}
	return out
}

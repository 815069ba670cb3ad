package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-storefront-api/internal/shared/projection"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("order not found")

// NotFoundError names the lookup that failed to resolve.
type NotFoundError struct {
	Field string
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order with %s %q not found", e.Field, e.Value)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TransitionFunc computes the next order state and the entry to append from
// the current stored order. Returning an error aborts without writing.
type TransitionFunc func(current *domain.Order) (domain.TransitionResult, error)

// Repository persists orders with their timelines. Implementations guarantee
// that an order and its timeline are written together or not at all, and that
// concurrent ApplyTransition calls on one order are serialized.
type Repository interface {
	Create(ctx context.Context, order *domain.Order, first domain.TimelineEntry) (*projection.Projection[*domain.Order], error)
	ApplyTransition(ctx context.Context, id string, fn TransitionFunc) (*projection.Projection[*domain.Order], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Order], error)
	GetByTrackingCode(ctx context.Context, code string) (*projection.Projection[*domain.Order], error)
	Timeline(ctx context.Context, orderID string) (domain.Timeline, error)
	List(ctx context.Context) ([]*projection.Projection[*domain.Order], error)
}

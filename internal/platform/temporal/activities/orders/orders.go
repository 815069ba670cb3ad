package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	orderapp "github.com/Apurer/go-storefront-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
)

const (
	// PersistOrderActivityName prices and stores a checkout as a pending order.
	PersistOrderActivityName = "orders.activities.PersistOrder"
	// VerifyOrderTimelineActivityName checks a stored order against its timeline.
	VerifyOrderTimelineActivityName = "orders.activities.VerifyOrderTimeline"

	nonRetryableInput    = "OrderInputRejected"
	nonRetryableDiverged = "OrderTimelineDiverged"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
	repo    orderports.Repository
}

// NewActivities wires the orders collaborators into the Temporal activities bundle.
// service must be the undecorated application service so checkout is not re-dispatched to Temporal.
func NewActivities(service orderports.Service, repo orderports.Repository) *Activities {
	return &Activities{service: service, repo: repo}
}

// PersistOrder stores the checkout and returns the order projection. Input
// errors are not retried.
func (a *Activities) PersistOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order persist activity not initialized")
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "items", len(input.Items))
	projection, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PersistOrder activity failed", "error", err)
		if errors.Is(err, orderapp.ErrInvalidInput) || errors.Is(err, orderports.ErrIdempotencyConflict) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), nonRetryableInput, err)
		}
		return nil, err
	}
	logger.Info("PersistOrder activity completed", "orderId", projection.Entity.ID)
	return projection, nil
}

// VerifyOrderTimeline fails when the stored order and its timeline disagree.
func (a *Activities) VerifyOrderTimeline(ctx context.Context, input ordertypes.OrderIdentifier) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.repo == nil {
		logger.Error("order verify activity not initialized", "orderId", input.ID)
		return errors.New("order verify activity not initialized")
	}
	projection, err := a.repo.GetByID(ctx, input.ID)
	if err != nil {
		logger.Error("VerifyOrderTimeline failed to load order", "orderId", input.ID, "error", err)
		return err
	}
	timeline, err := a.repo.Timeline(ctx, input.ID)
	if err != nil {
		logger.Error("VerifyOrderTimeline failed to load timeline", "orderId", input.ID, "error", err)
		return err
	}
	if err := domain.CheckInvariant(projection.Entity, timeline); err != nil {
		logger.Error("VerifyOrderTimeline found divergence", "orderId", input.ID, "error", err)
		return temporal.NewNonRetryableApplicationError(err.Error(), nonRetryableDiverged, err)
	}
	logger.Info("VerifyOrderTimeline activity completed", "orderId", input.ID, "entries", len(timeline))
	return nil
}

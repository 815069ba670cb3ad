package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/go-storefront-api/internal/domains/orders/application/types"
	orderactivities "github.com/Apurer/go-storefront-api/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence persists a checkout and then verifies the stored
// order against its timeline.
func RunOrderPlacementSequence(ctx workflow.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "items", len(input.Items))
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	verifyOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}

	var projection ordertypes.OrderProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), orderactivities.PersistOrderActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("order placement sequence failed", "error", err)
		return nil, err
	}
	if projection.Entity == nil {
		return nil, temporal.NewNonRetryableApplicationError("persist activity returned no order", "OrderMissing", nil)
	}
	orderID := projection.Entity.ID
	logger.Info("order placement sequence persisted", "orderId", orderID)

	verifyInput := ordertypes.OrderIdentifier{ID: orderID}
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, verifyOptions), orderactivities.VerifyOrderTimelineActivityName, verifyInput).Get(ctx, nil); err != nil {
		logger.Error("order placement sequence verification failed", "orderId", orderID, "error", err)
		return &projection, err
	}
	logger.Info("order placement sequence verified", "orderId", orderID)
	return &projection, nil
}

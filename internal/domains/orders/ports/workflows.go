package ports

import (
	"context"

	ordertypes "github.com/Apurer/go-storefront-api/internal/domains/orders/application/types"
)

// WorkflowOrchestrator runs checkout durably (Temporal) or inline.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error)
}

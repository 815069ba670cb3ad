package ports

import (
	"context"

	ordertypes "github.com/Apurer/go-storefront-api/internal/domains/orders/application/types"
)

// Service defines the order use cases exposed to adapters (inbound/driving port).
type Service interface {
	PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error)
	UpdateStatus(ctx context.Context, input ordertypes.UpdateStatusInput) (*ordertypes.OrderProjection, error)
	Track(ctx context.Context, input ordertypes.TrackInput) (*ordertypes.TrackingView, error)
	GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.TrackingView, error)
	ListOrders(ctx context.Context) ([]*ordertypes.OrderProjection, error)
}

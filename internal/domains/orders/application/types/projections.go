package types

import (
	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-storefront-api/internal/shared/projection"
)

// OrderProjection transports an order with its persistence metadata.
type OrderProjection = projection.Projection[*domain.Order]

// TrackingView is the read model behind order tracking: the order and its
// timeline, oldest entry first.
type TrackingView struct {
	Order    *OrderProjection
	Timeline domain.Timeline
}

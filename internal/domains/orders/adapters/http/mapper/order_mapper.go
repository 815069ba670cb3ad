package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	ordertypes "github.com/Apurer/go-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

// Customer is the delivery contact. It is only exposed on admin views.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// LineItem is a purchased entry with the price fixed at checkout.
type LineItem struct {
	EntryID   string          `json:"entryId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// Order is the HTTP representation of an order.
type Order struct {
	ID              string          `json:"id"`
	TrackingCode    string          `json:"trackingCode"`
	Status          string          `json:"status"`
	Customer        *Customer       `json:"customer,omitempty"`
	Items           []LineItem      `json:"items"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	AmountDue       decimal.Decimal `json:"amountDue"`
	PlacedAt        time.Time       `json:"placedAt"`
	StatusChangedAt time.Time       `json:"statusChangedAt"`
}

// TimelineEntry carries the message resolved for the requested language plus
// every translation.
type TimelineEntry struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Messages  map[string]string `json:"messages"`
	Timestamp time.Time         `json:"timestamp"`
}

// Tracking is the order with its timeline, oldest entry first.
type Tracking struct {
	Order    Order           `json:"order"`
	Timeline []TimelineEntry `json:"timeline"`
}

// CheckoutRequest is the inbound checkout payload. Prices are never accepted
// from the caller.
type CheckoutRequest struct {
	Customer Customer       `json:"customer"`
	Items    []CheckoutItem `json:"items"`
}

// CheckoutItem references a catalog entry and a quantity.
type CheckoutItem struct {
	EntryID  string `json:"entryId"`
	Quantity int    `json:"quantity"`
}

// StatusUpdate is the admin status change payload.
type StatusUpdate struct {
	Status string `json:"status"`
}

// ToPlaceOrderInput maps a checkout payload into the application input.
func ToPlaceOrderInput(req CheckoutRequest, idempotencyKey string) ordertypes.PlaceOrderInput {
	input := ordertypes.PlaceOrderInput{
		IdempotencyKey: idempotencyKey,
		Customer: ordertypes.CustomerInput{
			Name:    req.Customer.Name,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		Items: make([]ordertypes.LineItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, ordertypes.LineItemInput{EntryID: item.EntryID, Quantity: item.Quantity})
	}
	return input
}

// FromDomainOrder converts an order. Customer details are included only when
// withCustomer is set.
func FromDomainOrder(o *domain.Order, withCustomer bool) Order {
	if o == nil {
		return Order{}
	}
	out := Order{
		ID:              o.ID,
		TrackingCode:    o.TrackingCode,
		Status:          o.Status.String(),
		Items:           make([]LineItem, 0, len(o.Items)),
		DeliveryFee:     o.DeliveryFee,
		AmountDue:       o.AmountDue,
		PlacedAt:        o.CreatedAt,
		StatusChangedAt: o.StatusChangedAt,
	}
	if withCustomer {
		out.Customer = &Customer{Name: o.Customer.Name, Phone: o.Customer.Phone, Address: o.Customer.Address}
	}
	for _, item := range o.Items {
		out.Items = append(out.Items, LineItem{
			EntryID:   item.EntryID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total(),
		})
	}
	return out
}

// FromProjection converts a persisted order.
func FromProjection(p *ordertypes.OrderProjection, withCustomer bool) Order {
	if p == nil {
		return Order{}
	}
	return FromDomainOrder(p.Entity, withCustomer)
}

// FromProjectionList converts a list of orders for admin views.
func FromProjectionList(list []*ordertypes.OrderProjection) []Order {
	out := make([]Order, 0, len(list))
	for _, p := range list {
		out = append(out, FromProjection(p, true))
	}
	return out
}

// FromTimeline converts timeline entries, resolving messages for lang.
func FromTimeline(timeline domain.Timeline, lang i18n.Language) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(timeline))
	for _, entry := range timeline {
		messages := make(map[string]string, len(entry.Message))
		for l, text := range entry.Message {
			messages[l.String()] = text
		}
		out = append(out, TimelineEntry{
			Status:    entry.Status.String(),
			Message:   entry.Message.In(lang),
			Messages:  messages,
			Timestamp: entry.Timestamp,
		})
	}
	return out
}

// FromTrackingView converts a tracking read model.
func FromTrackingView(view *ordertypes.TrackingView, lang i18n.Language, withCustomer bool) Tracking {
	if view == nil {
		return Tracking{Timeline: []TimelineEntry{}}
	}
	return Tracking{
		Order:    FromProjection(view.Order, withCustomer),
		Timeline: FromTimeline(view.Timeline, lang),
	}
}

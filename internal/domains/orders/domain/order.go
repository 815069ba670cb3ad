package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the delivery contact captured at checkout.
type Customer struct {
	Name    string
	Phone   string
	Address string
}

// LineItem is one purchased catalog entry, priced at checkout time.
type LineItem struct {
	EntryID   string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total returns quantity times unit price.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the lifecycle subject. AmountDue is fixed when the order is created
// and never recomputed afterwards.
type Order struct {
	ID              string
	TrackingCode    string
	Status          Status
	Customer        Customer
	Items           []LineItem
	DeliveryFee     decimal.Decimal
	AmountDue       decimal.Decimal
	CreatedAt       time.Time
	StatusChangedAt time.Time
}

// NewOrderParams carries everything needed to open an order.
type NewOrderParams struct {
	ID           string
	TrackingCode string
	Customer     Customer
	Items        []LineItem
	DeliveryFee  decimal.Decimal
}

// NormalizeTrackingCode is the stored and looked-up form of a tracking code.
func NormalizeTrackingCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NewOrder validates params and returns a pending order together with its
// first timeline entry.
func NewOrder(params NewOrderParams, messages MessageProvider, now time.Time) (*Order, TimelineEntry, error) {
	if err := validateParams(params); err != nil {
		return nil, TimelineEntry{}, err
	}
	order := &Order{
		ID:              strings.TrimSpace(params.ID),
		TrackingCode:    NormalizeTrackingCode(params.TrackingCode),
		Status:          InitialStatus,
		Customer:        trimCustomer(params.Customer),
		Items:           make([]LineItem, 0, len(params.Items)),
		DeliveryFee:     params.DeliveryFee,
		CreatedAt:       now,
		StatusChangedAt: now,
	}
	amount := params.DeliveryFee
	for _, item := range params.Items {
		item.EntryID = strings.TrimSpace(item.EntryID)
		item.Name = strings.TrimSpace(item.Name)
		order.Items = append(order.Items, item)
		amount = amount.Add(item.Total())
	}
	order.AmountDue = amount
	return order, newEntry(order.ID, InitialStatus, messages, now), nil
}

func validateParams(params NewOrderParams) error {
	switch {
	case strings.TrimSpace(params.ID) == "":
		return invalid("id", "", "order id is required")
	case strings.TrimSpace(params.TrackingCode) == "":
		return invalid("trackingCode", "", "tracking code is required")
	case strings.TrimSpace(params.Customer.Name) == "":
		return invalid("customer.name", "", "customer name is required")
	case strings.TrimSpace(params.Customer.Phone) == "":
		return invalid("customer.phone", "", "customer phone is required")
	case strings.TrimSpace(params.Customer.Address) == "":
		return invalid("customer.address", "", "delivery address is required")
	case len(params.Items) == 0:
		return invalid("items", "", "at least one line item is required")
	case params.DeliveryFee.IsNegative():
		return invalid("deliveryFee", params.DeliveryFee.String(), "must not be negative")
	}
	for i, item := range params.Items {
		field := "items[" + strconv.Itoa(i) + "]"
		switch {
		case strings.TrimSpace(item.EntryID) == "":
			return invalid(field+".entryId", "", "catalog entry id is required")
		case item.Quantity <= 0:
			return invalid(field+".quantity", strconv.Itoa(item.Quantity), "must be greater than zero")
		case item.UnitPrice.IsNegative():
			return invalid(field+".unitPrice", item.UnitPrice.String(), "must not be negative")
		}
	}
	return nil
}

func trimCustomer(c Customer) Customer {
	return Customer{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]LineItem(nil), o.Items...)
	return &clone
}

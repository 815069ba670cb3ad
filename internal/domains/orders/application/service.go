package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordertypes "github.com/Apurer/go-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
)

// Service orchestrates the order lifecycle use cases.
type Service struct {
	repo            ports.Repository
	catalog         ports.CatalogLookup
	messages        domain.MessageProvider
	idempotency     ports.IdempotencyStore
	validate        *validator.Validate
	newID           func() string
	newTrackingCode func() string
	now             func() time.Time
	deliveryFee     decimal.Decimal
}

type Option func(*Service)

// WithIdempotencyStore enables Idempotency-Key replay for checkout.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how order IDs are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithTrackingCodeGenerator overrides how tracking codes are minted.
func WithTrackingCodeGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newTrackingCode = gen
		}
	}
}

// WithDeliveryFee sets the flat fee added to every order.
func WithDeliveryFee(fee decimal.Decimal) Option {
	return func(s *Service) {
		if !fee.IsNegative() {
			s.deliveryFee = fee
		}
	}
}

// NewService wires the order service with its dependencies.
func NewService(repo ports.Repository, catalog ports.CatalogLookup, messages domain.MessageProvider, opts ...Option) *Service {
	s := &Service{
		repo:            repo,
		catalog:         catalog,
		messages:        messages,
		validate:        validator.New(),
		newID:           uuid.NewString,
		newTrackingCode: NewTrackingCode,
		now:             func() time.Time { return time.Now().UTC() },
		deliveryFee:     decimal.Zero,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder prices the items from the catalog and opens a pending order with
// its first timeline entry.
func (s *Service) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, mapError(err)
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	var requestHash string
	if key != "" && s.idempotency != nil {
		hash, err := FingerprintPlaceOrder(input)
		if err != nil {
			return nil, err
		}
		requestHash = hash
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return s.replay(ctx, existing, requestHash)
		}
	}

	items := make([]domain.LineItem, 0, len(input.Items))
	for i, item := range input.Items {
		entry, err := s.catalog.LookupEntry(ctx, strings.TrimSpace(item.EntryID))
		if err != nil {
			if errors.Is(err, ports.ErrUnknownEntry) {
				return nil, mapError(&domain.ValidationError{
					Field:  fmt.Sprintf("items[%d].entryId", i),
					Value:  item.EntryID,
					Reason: "unknown catalog entry",
				})
			}
			return nil, err
		}
		items = append(items, domain.LineItem{
			EntryID:   entry.ID,
			Name:      entry.Name,
			Quantity:  item.Quantity,
			UnitPrice: entry.UnitPrice,
		})
	}

	order, first, err := domain.NewOrder(domain.NewOrderParams{
		ID:           s.newID(),
		TrackingCode: s.newTrackingCode(),
		Customer: domain.Customer{
			Name:    input.Customer.Name,
			Phone:   input.Customer.Phone,
			Address: input.Customer.Address,
		},
		Items:       items,
		DeliveryFee: s.deliveryFee,
	}, s.messages, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order, first)
	if err != nil {
		return nil, mapError(err)
	}

	if key != "" && s.idempotency != nil {
		record, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
			Key:         key,
			RequestHash: requestHash,
			OrderID:     saved.Entity.ID,
		})
		if err != nil {
			if errors.Is(err, ports.ErrIdempotencyConflict) && record != nil {
				// a concurrent request with the same key won the race
				return s.replay(ctx, record, requestHash)
			}
			return nil, err
		}
	}
	return saved, nil
}

func (s *Service) replay(ctx context.Context, record *ports.IdempotencyRecord, requestHash string) (*ordertypes.OrderProjection, error) {
	if record.RequestHash != requestHash {
		return nil, fmt.Errorf("%w: key %q was used for a different checkout", ports.ErrIdempotencyConflict, record.Key)
	}
	projection, err := s.repo.GetByID(ctx, record.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// UpdateStatus applies an admin status change and appends exactly one
// timeline entry. Cancelled orders reject every change, including requests
// for an unknown status, so the status is validated against the loaded order.
func (s *Service) UpdateStatus(ctx context.Context, input ordertypes.UpdateStatusInput) (*ordertypes.OrderProjection, error) {
	status := domain.NormalizeStatus(input.Status)
	projection, err := s.repo.ApplyTransition(ctx, strings.TrimSpace(input.OrderID), func(current *domain.Order) (domain.TransitionResult, error) {
		return domain.Transition(current, status, s.messages, s.now())
	})
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// Track resolves a tracking code into the order and its timeline.
func (s *Service) Track(ctx context.Context, input ordertypes.TrackInput) (*ordertypes.TrackingView, error) {
	code := domain.NormalizeTrackingCode(input.TrackingCode)
	if code == "" {
		return nil, &ports.NotFoundError{Field: "trackingCode", Value: input.TrackingCode}
	}
	projection, err := s.repo.GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, mapError(err)
	}
	return s.view(ctx, projection)
}

// GetOrder loads an order and its timeline by ID.
func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.TrackingView, error) {
	projection, err := s.repo.GetByID(ctx, strings.TrimSpace(input.ID))
	if err != nil {
		return nil, mapError(err)
	}
	return s.view(ctx, projection)
}

// ListOrders returns every order, oldest first.
func (s *Service) ListOrders(ctx context.Context) ([]*ordertypes.OrderProjection, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

func (s *Service) view(ctx context.Context, projection *ordertypes.OrderProjection) (*ordertypes.TrackingView, error) {
	timeline, err := s.repo.Timeline(ctx, projection.Entity.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &ordertypes.TrackingView{Order: projection, Timeline: timeline}, nil
}

var _ ports.Service = (*Service)(nil)

package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/Apurer/go-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order port with tracing, logging, and metrics.
// Customer contact details are never logged or attached to spans.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.PlaceOrder",
		attribute.Int("order.items", len(input.Items)),
		attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
	)
	defer span.End()

	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order")
	}
	span.SetAttributes(attribute.String("order.id", result.Entity.ID))
	s.metrics.recordPlaced(ctx)
	s.logInfo(ctx, "order placed",
		slog.String("order.id", result.Entity.ID),
		slog.String("order.tracking_code", result.Entity.TrackingCode),
		slog.String("order.amount_due", result.Entity.AmountDue.StringFixed(2)),
	)
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, input ordertypes.UpdateStatusInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateStatus",
		attribute.String("order.id", input.OrderID),
		attribute.String("order.requested_status", input.Status),
	)
	defer span.End()

	result, err := s.inner.UpdateStatus(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to update order status",
			slog.String("order.id", input.OrderID),
			slog.String("order.requested_status", input.Status),
		)
	}
	s.metrics.recordTransition(ctx, result.Entity.Status)
	s.logInfo(ctx, "order status updated",
		slog.String("order.id", result.Entity.ID),
		slog.String("order.status", result.Entity.Status.String()),
	)
	return result, nil
}

func (s *Service) Track(ctx context.Context, input ordertypes.TrackInput) (*ordertypes.TrackingView, error) {
	ctx, span := s.startSpan(ctx, "Service.Track")
	defer span.End()

	result, err := s.inner.Track(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to track order")
	}
	span.SetAttributes(
		attribute.String("order.id", result.Order.Entity.ID),
		attribute.Int("order.timeline.length", len(result.Timeline)),
	)
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.TrackingView, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", attribute.String("order.id", input.ID))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.ID))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	placed      metric.Int64Counter
	transitions metric.Int64Counter
	rejected    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Accepted order status changes"))
	rejected, _ := m.Int64Counter("orders.service.transitions.rejected", metric.WithDescription("Rejected order status changes"))
	return serviceMetrics{placed: placed, transitions: transitions, rejected: rejected}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	addCounter(ctx, m.placed, 1)
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.transitions, 1, attribute.String("order.status", status.String()))
}

func (m serviceMetrics) recordRejected(ctx context.Context, err error) {
	reason := "other"
	switch {
	case errors.Is(err, domain.ErrTerminalState):
		reason = "terminal"
	case errors.Is(err, domain.ErrValidation):
		reason = "validation"
	case errors.Is(err, ports.ErrNotFound):
		reason = "not_found"
	}
	addCounter(ctx, m.rejected, 1, attribute.String("order.rejection", reason))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)

package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogtypes "github.com/Apurer/go-storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-storefront-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-storefront-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog port with tracing, logging, and metrics.
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

func (s *Service) AddEntry(ctx context.Context, input catalogtypes.AddEntryInput) (*catalogtypes.EntryProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.AddEntry", attribute.String("catalog.entry.id", input.ID))
	defer span.End()

	result, err := s.inner.AddEntry(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add catalog entry", slog.String("entry.id", input.ID))
	}
	s.metrics.recordMutation(ctx, "add")
	s.logInfo(ctx, "catalog entry added", slog.String("entry.id", result.Entity.ID))
	return result, nil
}

func (s *Service) UpdateEntry(ctx context.Context, input catalogtypes.UpdateEntryInput) (*catalogtypes.EntryProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateEntry", attribute.String("catalog.entry.id", input.ID))
	defer span.End()

	result, err := s.inner.UpdateEntry(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update catalog entry", slog.String("entry.id", input.ID))
	}
	s.metrics.recordMutation(ctx, "update")
	s.logInfo(ctx, "catalog entry updated", slog.String("entry.id", input.ID))
	return result, nil
}

func (s *Service) GetEntry(ctx context.Context, input catalogtypes.EntryIdentifier) (*catalogtypes.EntryProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetEntry", attribute.String("catalog.entry.id", input.ID))
	defer span.End()

	result, err := s.inner.GetEntry(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load catalog entry", slog.String("entry.id", input.ID))
	}
	return result, nil
}

func (s *Service) DeleteEntry(ctx context.Context, input catalogtypes.EntryIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteEntry", attribute.String("catalog.entry.id", input.ID))
	defer span.End()

	if err := s.inner.DeleteEntry(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete catalog entry", slog.String("entry.id", input.ID))
	}
	s.metrics.recordMutation(ctx, "delete")
	s.logInfo(ctx, "catalog entry deleted", slog.String("entry.id", input.ID))
	return nil
}

func (s *Service) ListEntries(ctx context.Context, input catalogtypes.ListEntriesInput) (*catalogtypes.EntryPage, error) {
	ctx, span := s.startSpan(ctx, "Service.ListEntries",
		attribute.Int("catalog.page", input.Page),
		attribute.Int("catalog.page_size", input.PageSize),
	)
	defer span.End()

	result, err := s.inner.ListEntries(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list catalog entries")
	}
	span.SetAttributes(attribute.Int("catalog.result.count", len(result.Items)), attribute.Int("catalog.total", result.Total))
	return result, nil
}

// Search records the query length, never the query text.
func (s *Service) Search(ctx context.Context, input catalogtypes.SearchInput) (*catalogtypes.SearchResult, error) {
	ctx, span := s.startSpan(ctx, "Service.Search",
		attribute.String("catalog.search.language", input.Language.String()),
		attribute.Int("catalog.search.query_length", len(input.Query)),
	)
	defer span.End()

	result, err := s.inner.Search(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "catalog search failed", slog.String("language", input.Language.String()))
	}
	span.SetAttributes(
		attribute.Bool("catalog.search.ranked", result.Ranked),
		attribute.Int("catalog.result.count", len(result.Entries)),
	)
	s.metrics.recordSearch(ctx, result)
	s.logInfo(ctx, "catalog searched",
		slog.String("language", result.Language.String()),
		slog.Bool("ranked", result.Ranked),
		slog.Int("count", len(result.Entries)),
	)
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
	mutations    metric.Int64Counter
	searches     metric.Int64Counter
	emptyResults metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("catalog.service.mutations", metric.WithDescription("Number of catalog mutations"))
	searches, _ := m.Int64Counter("catalog.service.searches", metric.WithDescription("Number of catalog searches"))
	emptyResults, _ := m.Int64Counter("catalog.service.searches.empty", metric.WithDescription("Ranked searches that matched nothing"))
	return serviceMetrics{mutations: mutations, searches: searches, emptyResults: emptyResults}
}

func (m serviceMetrics) recordMutation(ctx context.Context, kind string) {
	addCounter(ctx, m.mutations, 1, attribute.String("catalog.mutation", kind))
}

func (m serviceMetrics) recordSearch(ctx context.Context, result *catalogtypes.SearchResult) {
	addCounter(ctx, m.searches, 1,
		attribute.String("catalog.search.language", result.Language.String()),
		attribute.Bool("catalog.search.ranked", result.Ranked),
	)
	if result.Ranked && len(result.Entries) == 0 {
		addCounter(ctx, m.emptyResults, 1, attribute.String("catalog.search.language", result.Language.String()))
	}
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)

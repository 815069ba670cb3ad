package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	catalogredis "github.com/Apurer/go-storefront-api/internal/domains/catalog/adapters/cache/redis"
	catalogmemory "github.com/Apurer/go-storefront-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-storefront-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/go-storefront-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-storefront-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-storefront-api/internal/domains/catalog/ports"
	ordercatalog "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/catalog"
	ordermemory "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/memory"
	ordermessages "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/messages"
	orderobs "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/Apurer/go-storefront-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-storefront-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-storefront-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-storefront-api/internal/platform/postgres"
	platformredis "github.com/Apurer/go-storefront-api/internal/platform/redis"
)

// Stores groups the persistence adapters shared by the API and the worker.
type Stores struct {
	Catalog     catalogports.Repository
	SearchCache catalogports.SearchCache
	Orders      orderports.Repository
	Idempotency orderports.IdempotencyStore
}

// Services groups the decorated application services.
type Services struct {
	Catalog catalogports.Service
	Orders  orderports.Service
}

// BuildStores picks Postgres and Redis adapters when they are reachable and
// falls back to in-memory ones otherwise. The returned cleanup closes every
// connection that was opened.
func BuildStores(ctx context.Context, cfg Config, logger *slog.Logger) (Stores, func()) {
	stores := Stores{
		Catalog:     catalogmemory.NewRepository(),
		SearchCache: catalogmemory.NewSearchCache(cfg.SearchCacheTTL),
		Orders:      ordermemory.NewRepository(),
		Idempotency: ordermemory.NewIdempotencyStore(),
	}

	db, cleanupDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Warn("failed to migrate postgres schema, falling back to in-memory repositories", slog.String("error", err.Error()))
			cleanupDB()
			cleanupDB = func() {}
		} else {
			stores.Catalog = catalogpostgres.NewRepository(db)
			stores.Orders = orderpostgres.NewRepository(db)
			stores.Idempotency = orderpostgres.NewIdempotencyStore(db)
			logger.Info("catalog and order repositories configured with postgres")
		}
	}

	redisClient, cleanupRedis := platformredis.ConnectOptional(ctx, platformredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	if redisClient != nil {
		stores.SearchCache = catalogredis.NewSearchCache(redisClient, cfg.SearchCacheTTL)
		logger.Info("search cache configured with redis")
	}

	return stores, func() {
		cleanupRedis()
		cleanupDB()
	}
}

// BuildServices wires the catalog and order services over the given stores
// and decorates them with tracing, logging, and metrics.
func BuildServices(cfg Config, stores Stores, instruments *platformobservability.Instruments) Services {
	logger := effectiveLogger(instruments)

	coreCatalog := catalogapp.NewService(
		stores.Catalog,
		catalogapp.WithSearchCache(stores.SearchCache),
		catalogapp.WithLogger(logger),
		catalogapp.WithDefaultLanguage(cfg.DefaultLanguage),
		catalogapp.WithPageSize(cfg.CatalogPageSize),
	)
	catalogService := catalogobs.New(
		coreCatalog,
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)

	coreOrders := orderapp.NewService(
		stores.Orders,
		ordercatalog.NewLookup(stores.Catalog, cfg.DefaultLanguage),
		ordermessages.NewProvider(),
		orderapp.WithIdempotencyStore(stores.Idempotency),
		orderapp.WithDeliveryFee(cfg.DeliveryFee),
	)
	orderService := orderobs.New(
		coreOrders,
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	return Services{Catalog: catalogService, Orders: orderService}
}

// ConnectTemporalClient dials Temporal with the OpenTelemetry tracing interceptor installed.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, fmt.Errorf("configure temporal tracing: %w", err)
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	appapi "github.com/Apurer/go-storefront-api/internal/app/api"
	orderpostgres "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/Apurer/go-storefront-api/internal/domains/orders/application"
	platformobservability "github.com/Apurer/go-storefront-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-storefront-api/internal/platform/postgres"
)

const serviceName = "storefront-order-audit"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := appapi.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		log.Fatalf("observability init failed: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()
	logger := instruments.Logger

	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot audit orders")
	}

	findings, checked, err := orderapp.AuditTimelines(ctx, orderpostgres.NewRepository(db))
	if err != nil {
		cleanup()
		log.Fatalf("order audit failed: %v", err)
	}
	for _, f := range findings {
		logger.Error("order timeline diverged",
			slog.String("order.id", f.OrderID),
			slog.String("order.status", f.Status.String()),
			slog.String("error", f.Err.Error()),
		)
	}
	logger.Info("order audit completed", slog.Int("checked", checked), slog.Int("diverged", len(findings)))
	cleanup()
	if len(findings) > 0 {
		_ = shutdown(context.Background())
		os.Exit(1)
	}
}

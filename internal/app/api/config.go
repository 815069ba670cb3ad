package api

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	platformobservability "github.com/Apurer/go-storefront-api/internal/platform/observability"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

// Config carries environment-driven settings for the storefront processes.
type Config struct {
	Port              string
	PostgresDSN       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	SearchCacheTTL    time.Duration
	DefaultLanguage   i18n.Language
	CatalogPageSize   int
	DeliveryFee       decimal.Decimal
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	Environment       string
	LogLevel          slog.Level
	OTLPEndpoint      string
	OTLPInsecure      bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("redis_db", 0)
	v.SetDefault("search_cache_ttl", "5m")
	v.SetDefault("default_language", string(i18n.Default))
	v.SetDefault("catalog_page_size", 20)
	v.SetDefault("delivery_fee", "0")
	v.SetDefault("temporal_address", client.DefaultHostPort)
	v.SetDefault("temporal_namespace", client.DefaultNamespace)
	v.SetDefault("environment", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("otel_exporter_otlp_insecure", "true")
	v.AutomaticEnv()

	cfg := Config{
		Port:              strings.TrimSpace(v.GetString("port")),
		PostgresDSN:       strings.TrimSpace(v.GetString("postgres_dsn")),
		RedisAddr:         strings.TrimSpace(v.GetString("redis_addr")),
		RedisPassword:     v.GetString("redis_password"),
		RedisDB:           v.GetInt("redis_db"),
		TemporalAddress:   strings.TrimSpace(v.GetString("temporal_address")),
		TemporalNamespace: strings.TrimSpace(v.GetString("temporal_namespace")),
		TemporalDisabled:  isTruthy(v.GetString("temporal_disabled")),
		Environment:       strings.TrimSpace(v.GetString("environment")),
		LogLevel:          platformobservability.ParseLogLevel(v.GetString("log_level")),
		OTLPEndpoint:      strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint")),
		OTLPInsecure:      isTruthy(v.GetString("otel_exporter_otlp_insecure")),
	}

	ttl, err := time.ParseDuration(strings.TrimSpace(v.GetString("search_cache_ttl")))
	if err != nil || ttl < 0 {
		return Config{}, fmt.Errorf("SEARCH_CACHE_TTL must be a non-negative duration")
	}
	cfg.SearchCacheTTL = ttl

	lang := i18n.Language(strings.ToLower(strings.TrimSpace(v.GetString("default_language"))))
	if !lang.IsSupported() {
		return Config{}, fmt.Errorf("DEFAULT_LANGUAGE must be one of %v", i18n.Supported())
	}
	cfg.DefaultLanguage = lang

	pageSize := v.GetInt("catalog_page_size")
	if pageSize <= 0 || pageSize > 100 {
		return Config{}, fmt.Errorf("CATALOG_PAGE_SIZE must be between 1 and 100")
	}
	cfg.CatalogPageSize = pageSize

	fee, err := decimal.NewFromString(strings.TrimSpace(v.GetString("delivery_fee")))
	if err != nil || fee.IsNegative() {
		return Config{}, fmt.Errorf("DELIVERY_FEE must be a non-negative amount")
	}
	cfg.DeliveryFee = fee

	if cfg.RedisDB < 0 {
		return Config{}, fmt.Errorf("REDIS_DB must not be negative")
	}
	return cfg, nil
}

// Observability returns the telemetry settings for the named process.
func (c Config) Observability(serviceName string) platformobservability.Settings {
	return platformobservability.Settings{
		ServiceName:     serviceName,
		Environment:     c.Environment,
		DefaultLanguage: c.DefaultLanguage.String(),
		OTLPEndpoint:    c.OTLPEndpoint,
		OTLPInsecure:    c.OTLPInsecure,
		LogLevel:        c.LogLevel,
	}
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

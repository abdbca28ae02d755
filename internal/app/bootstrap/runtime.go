package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/tirechange-hub/internal/api/router"
	"github.com/wolfman30/tirechange-hub/internal/availability"
	"github.com/wolfman30/tirechange-hub/internal/booking"
	"github.com/wolfman30/tirechange-hub/internal/catalog"
	appconfig "github.com/wolfman30/tirechange-hub/internal/config"
	"github.com/wolfman30/tirechange-hub/internal/observability/metrics"
	"github.com/wolfman30/tirechange-hub/internal/vendor"
	"github.com/wolfman30/tirechange-hub/pkg/logging"
)

// Runtime is the fully wired HTTP service.
type Runtime struct {
	Catalog *catalog.Catalog
	Handler http.Handler
	redis   *redis.Client
}

// Close releases connections held by the runtime.
func (rt *Runtime) Close() error {
	if rt == nil || rt.redis == nil {
		return nil
	}
	return rt.redis.Close()
}

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, availability cache disabled", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildAvailabilityCache returns the Redis availability cache, or nil when
// caching is disabled or Redis is unreachable.
func BuildAvailabilityCache(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*availability.RedisCache, *redis.Client) {
	if cfg == nil || !cfg.CacheEnabled() {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	client := BuildRedisClient(ctx, cfg, logger, true)
	if client == nil {
		return nil, nil
	}
	logger.Info("availability cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.AvailabilityCacheTTL.String())
	return availability.NewRedisCache(client, cfg.AvailabilityCacheTTL), client
}

// Build loads the vendor catalog and wires every component behind the HTTP
// router. A missing services directory is returned as an error.
func Build(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, reg *prometheus.Registry) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	cat, err := catalog.Load(cfg.ServicesDir,
		catalog.WithLogger(logger.Component("catalog")),
		catalog.WithSideTableFile(cfg.ServiceInfoFile),
	)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	vendorMetrics := metrics.NewVendorMetrics(reg)
	client := vendor.NewClient(
		vendor.WithLogger(logger.Component("vendor")),
		vendor.WithMetrics(vendorMetrics),
		vendor.WithTimeout(cfg.VendorHTTPTimeout),
		vendor.WithWindowDays(cfg.AvailabilityWindowDays),
		vendor.WithPageSize(cfg.AvailabilityPageSize),
		vendor.WithRateLimit(cfg.VendorRateLimitRPS, 1),
	)

	aggOpts := []availability.AggregatorOption{
		availability.WithParallel(cfg.AggregatorParallel),
		availability.WithMetrics(vendorMetrics),
	}
	cache, redisClient := BuildAvailabilityCache(ctx, cfg, logger)
	if cache != nil {
		aggOpts = append(aggOpts, availability.WithCache(cache))
	}
	agg := availability.NewAggregator(cat, client, logger.Component("aggregator"), aggOpts...)

	dispatcher := booking.NewDispatcher(cat, client, logger.Component("booking"),
		booking.WithInvalidator(agg),
		booking.WithMetrics(vendorMetrics),
	)

	handler := router.New(&router.Config{
		Logger:              logger,
		Catalog:             cat,
		AvailabilityHandler: availability.NewHandler(agg, logger),
		BookingHandler:      booking.NewHandler(dispatcher, logger),
		LocationsHandler:    catalog.NewHandler(cat, logger),
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitRPS:        cfg.RateLimitRPS,
		RateLimitBurst:      cfg.RateLimitBurst,
		TrustProxyHeaders:   cfg.TrustProxyHeaders,
	})

	return &Runtime{Catalog: cat, Handler: handler, redis: redisClient}, nil
}

package setup

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-cashout-service/internal/config"
	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/LavaJover/shvark-cashout-service/internal/infrastructure/coingecko"
	"github.com/LavaJover/shvark-cashout-service/internal/infrastructure/feedcache"
	"github.com/LavaJover/shvark-cashout-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-cashout-service/internal/infrastructure/metrics"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// QuoteEventPublisher is the degraded-quote sink together with its shutdown hook.
type QuoteEventPublisher interface {
	domain.QuoteEventPublisher
	Close() error
}

type Dependencies struct {
	Config    *config.CashoutConfig
	Registry  *prometheus.Registry
	Metrics   *metrics.QuoteMetrics
	Redis     *redis.Client
	Feed      domain.PriceFeed
	Fallback  domain.FallbackPriceTable
	Publisher QuoteEventPublisher
}

func InitializeDependencies(cfg *config.CashoutConfig) (*Dependencies, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	quoteMetrics := metrics.NewQuoteMetrics(registry)

	overrides, err := cfg.FallbackOverrides()
	if err != nil {
		return nil, fmt.Errorf("fallback prices: %w", err)
	}
	fallback := domain.DefaultFallbackPrices().WithOverrides(overrides)

	deps := &Dependencies{
		Config:   cfg,
		Registry: registry,
		Metrics:  quoteMetrics,
		Fallback: fallback,
	}

	cache, err := deps.initFeedCache()
	if err != nil {
		return nil, fmt.Errorf("feed cache: %w", err)
	}

	deps.Feed = coingecko.NewClient(coingecko.Options{
		BaseURL:           cfg.PriceFeed.BaseURL,
		APIKey:            cfg.PriceFeed.APIKey,
		Timeout:           cfg.PriceFeed.Timeout,
		RequestsPerSecond: cfg.PriceFeed.RequestsPerSecond,
		Burst:             cfg.PriceFeed.Burst,
		Cache:             cache,
		Metrics:           quoteMetrics,
	})
	deps.Publisher = initQuotePublisher(cfg)

	return deps, nil
}

func (d *Dependencies) initFeedCache() (feedcache.Cache, error) {
	cfg := d.Config.FeedCache
	switch cfg.Driver {
	case "redis":
		rdb, err := feedcache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		d.Redis = rdb
		slog.Info("feed cache: redis", "retention", cfg.Retention)
		return feedcache.NewRedisCache(rdb, cfg.Retention), nil
	case "none":
		slog.Info("feed cache disabled")
		return feedcache.Nop{}, nil
	default:
		slog.Info("feed cache: memory", "retention", cfg.Retention)
		return feedcache.NewMemoryCache(cfg.Retention), nil
	}
}

func initQuotePublisher(cfg *config.CashoutConfig) QuoteEventPublisher {
	if !cfg.KafkaService.Enabled {
		slog.Info("kafka disabled, degraded quote events are not published")
		return kafka.NopQuotePublisher{}
	}
	slog.Info("publishing degraded quote events", "brokers", cfg.KafkaService.Brokers, "topic", cfg.KafkaService.Topic)
	return kafka.NewQuotePublisher(kafka.NewPublisher(cfg.KafkaService.Brokers, cfg.KafkaService.Topic))
}

// Close releases the connections opened by InitializeDependencies.
func (d *Dependencies) Close() error {
	var errs []error
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close dependencies: %v", errs)
	}
	return nil
}

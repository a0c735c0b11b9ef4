package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigPathEnv names the YAML file to read. Without it only the
// environment is used.
const ConfigPathEnv = "CASHOUT_CONFIG_PATH"

type CashoutConfig struct {
	Env          string `yaml:"env" env:"CASHOUT_ENV" env-default:"local" validate:"oneof=local dev prod"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	PriceFeed    `yaml:"price_feed"`
	FeedCache    `yaml:"feed_cache"`
	KafkaService `yaml:"kafka-service"`
	LogConfig    `yaml:"log_config"`

	// FallbackPrices overrides entries of the built-in USD fallback table,
	// keyed by token symbol or asset id.
	FallbackPrices map[string]float64 `yaml:"fallback_prices" env:"CASHOUT_FALLBACK_PRICES" env-separator:","`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080" validate:"required,numeric"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s" validate:"gt=0"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50061" validate:"required,numeric"`
}

type PriceFeed struct {
	BaseURL           string        `yaml:"base_url" env:"FEED_BASE_URL" env-default:"https://api.coingecko.com/api/v3" validate:"required,url"`
	APIKey            string        `yaml:"api_key" env:"FEED_API_KEY"`
	Timeout           time.Duration `yaml:"timeout" env:"FEED_TIMEOUT" env-default:"5s" validate:"gt=0"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"FEED_RPS" env-default:"0.5" validate:"gt=0"`
	Burst             int           `yaml:"burst" env:"FEED_BURST" env-default:"5" validate:"gte=1"`
	LiveMaxAge        time.Duration `yaml:"live_max_age" env:"FEED_LIVE_MAX_AGE" env-default:"30s" validate:"gt=0"`
	FallbackMaxAge    time.Duration `yaml:"fallback_max_age" env:"FEED_FALLBACK_MAX_AGE" env-default:"60s" validate:"gt=0"`
	ProbeInterval     time.Duration `yaml:"probe_interval" env:"FEED_PROBE_INTERVAL" env-default:"1m" validate:"gt=0"`
}

type FeedCache struct {
	Driver    string        `yaml:"driver" env:"CACHE_DRIVER" env-default:"memory" validate:"oneof=memory redis none"`
	RedisURL  string        `yaml:"redis_url" env:"CACHE_REDIS_URL" validate:"required_if=Driver redis"`
	Retention time.Duration `yaml:"retention" env:"CACHE_RETENTION" env-default:"5m" validate:"gt=0"`
}

type KafkaService struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," validate:"required_if=Enabled true"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"quote-degraded" validate:"required"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json" validate:"oneof=json text tint"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

// Load reads the config file named by CASHOUT_CONFIG_PATH, then the
// environment, and validates the result.
func Load() (*CashoutConfig, error) {
	var cfg CashoutConfig

	configPath := os.Getenv(ConfigPathEnv)
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env config: %w", err)
		}
	} else {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *CashoutConfig {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v\n", err)
	}
	return cfg
}

func (c *CashoutConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.FallbackMaxAge < c.LiveMaxAge {
		return errors.New("invalid config: fallback_max_age must not be shorter than live_max_age")
	}
	if _, err := c.FallbackOverrides(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FallbackOverrides resolves the configured fallback prices to asset ids.
func (c *CashoutConfig) FallbackOverrides() (map[domain.AssetID]float64, error) {
	overrides := make(map[domain.AssetID]float64, len(c.FallbackPrices))
	for key, price := range c.FallbackPrices {
		asset, err := domain.ParseAsset(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("fallback_prices: %w", err)
		}
		if !domain.UsableRate(price) {
			return nil, fmt.Errorf("fallback_prices: %s price must be positive, got %v", asset, price)
		}
		overrides[asset] = price
	}
	return overrides, nil
}

func (h HTTPServer) Addr() string {
	return h.Host + ":" + h.Port
}

func (g GRPCServer) Addr() string {
	return g.Host + ":" + g.Port
}

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr          string
	StorefrontBaseURL string
	SnowflakeNode     int64

	SeedDemoData     bool
	DefaultStoreSlug string

	LogLevel  string
	LogFormat string

	OtelEnabled       bool
	OTLPEndpoint      string
	OTLPProtocol      string
	OtelSamplingRatio float64

	RateLimit RateLimitConfig
}

// RateLimitConfig throttles the unauthenticated endpoints per client IP.
// Buckets live in Redis when RedisAddr is set and in process memory otherwise.
type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LoginRate     float64
	LoginBurst    int
	CheckoutRate  float64
	CheckoutBurst int
	WebhookRate   float64
	WebhookBurst  int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:           getenv("APP_SERVICE", "vitrine"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		StorefrontBaseURL: strings.TrimRight(strings.TrimSpace(getenv("STOREFRONT_BASE_URL", "http://localhost:8080")), "/"),
		SnowflakeNode:     getenvInt64("SNOWFLAKE_NODE", 1),
		SeedDemoData:      getenvBool("SEED_DEMO_DATA", true),
		DefaultStoreSlug:  getenv("DEFAULT_STORE_SLUG", "moda-style"),
		LogLevel:          strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
		LogFormat:         strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
		OtelEnabled:       getenvBool("OTEL_ENABLED", false),
		OTLPEndpoint:      strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")),
		OTLPProtocol:      strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
		OtelSamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", true),
			RedisAddr:     strings.TrimSpace(os.Getenv("RATE_LIMIT_REDIS_ADDR")),
			RedisPassword: os.Getenv("RATE_LIMIT_REDIS_PASSWORD"),
			RedisDB:       int(getenvInt64("RATE_LIMIT_REDIS_DB", 0)),
			LoginRate:     getenvFloat("RATE_LIMIT_LOGIN_RATE", 1),
			LoginBurst:    int(getenvInt64("RATE_LIMIT_LOGIN_BURST", 5)),
			CheckoutRate:  getenvFloat("RATE_LIMIT_CHECKOUT_RATE", 0.5),
			CheckoutBurst: int(getenvInt64("RATE_LIMIT_CHECKOUT_BURST", 10)),
			WebhookRate:   getenvFloat("RATE_LIMIT_WEBHOOK_RATE", 20),
			WebhookBurst:  int(getenvInt64("RATE_LIMIT_WEBHOOK_BURST", 50)),
		},
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewSubscriptionConfigHolder),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

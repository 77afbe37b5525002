package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Event store backends.
const (
	EventStoreMemory     = "memory"
	EventStorePostgres   = "postgres"
	EventStoreClickHouse = "clickhouse"
)

// Config holds all configuration for the marketing analytics service.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	ClickHouse ClickHouseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
	Metrics    MetricsConfig

	// EventStore selects the email event log backend: memory, postgres
	// or clickhouse.
	EventStore string
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// Addr returns the ClickHouse native protocol address.
func (c ClickHouseConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig controls the caller-side metric cache. The analytics core
// itself never caches.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type AuthConfig struct {
	Enabled   bool
	MasterKey string
	SkipPaths []string
}

type RateLimitConfig struct {
	Enabled      bool
	RPS          float64
	Burst        int
	WebhookRPS   float64
	WebhookBurst int
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("MARKETING_HTTP_ADDR", ":8080"),
			Env:             getEnv("MARKETING_ENV", "development"),
			ShutdownTimeout: getDurationEnv("MARKETING_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("MARKETING_DB_HOST", "localhost"),
			Port:     getIntEnv("MARKETING_DB_PORT", 5432),
			User:     getEnv("MARKETING_DB_USER", "marketing"),
			Password: getEnv("MARKETING_DB_PASSWORD", "marketing_secret"),
			DBName:   getEnv("MARKETING_DB_NAME", "marketing"),
			SSLMode:  getEnv("MARKETING_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("MARKETING_DB_MAX_CONNS", 25),
			MinConns: getIntEnv("MARKETING_DB_MIN_CONNS", 5),
		},
		ClickHouse: ClickHouseConfig{
			Host:     getEnv("MARKETING_CLICKHOUSE_HOST", "localhost"),
			Port:     getIntEnv("MARKETING_CLICKHOUSE_PORT", 9000),
			Database: getEnv("MARKETING_CLICKHOUSE_DB", "marketing"),
			User:     getEnv("MARKETING_CLICKHOUSE_USER", "default"),
			Password: getEnv("MARKETING_CLICKHOUSE_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("MARKETING_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("MARKETING_REDIS_PASSWORD", ""),
			DB:       getIntEnv("MARKETING_REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Enabled: getBoolEnv("MARKETING_CACHE_ENABLED", true),
			TTL:     getDurationEnv("MARKETING_CACHE_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			Enabled:   getBoolEnv("MARKETING_AUTH_ENABLED", true),
			MasterKey: getEnv("MARKETING_API_KEY_MASTER", ""),
			SkipPaths: getSliceEnv("MARKETING_AUTH_SKIP_PATHS", []string{"/health", "/metrics", "/webhooks/email-events"}),
		},
		RateLimit: RateLimitConfig{
			Enabled:      getBoolEnv("MARKETING_RATE_LIMIT_ENABLED", true),
			RPS:          getFloatEnv("MARKETING_RATE_LIMIT_RPS", 100),
			Burst:        getIntEnv("MARKETING_RATE_LIMIT_BURST", 20),
			WebhookRPS:   getFloatEnv("MARKETING_RATE_LIMIT_WEBHOOK_RPS", 1000),
			WebhookBurst: getIntEnv("MARKETING_RATE_LIMIT_WEBHOOK_BURST", 100),
		},
		Log: LogConfig{
			Level:  getEnv("MARKETING_LOG_LEVEL", "info"),
			Format: getEnv("MARKETING_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("MARKETING_METRICS_ENABLED", true),
			Path:    getEnv("MARKETING_METRICS_PATH", "/metrics"),
		},
		EventStore: getEnv("MARKETING_EVENT_STORE", EventStorePostgres),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Auth.Enabled && c.Auth.MasterKey == "" {
		return fmt.Errorf("MARKETING_API_KEY_MASTER is required when auth is enabled")
	}
	switch c.EventStore {
	case EventStoreMemory, EventStorePostgres, EventStoreClickHouse:
	default:
		return fmt.Errorf("unknown MARKETING_EVENT_STORE value: %s", c.EventStore)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getSliceEnv(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return def
}

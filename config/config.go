package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Upstream UpstreamConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Price    PriceConfig
	Sync     SyncConfig
}

type AppConfig struct {
	Environment string `validate:"oneof=development production"`
	LogLevel    string `validate:"omitempty,oneof=debug info warn error"`
}

type ServerConfig struct {
	Host            string
	Port            string `validate:"required,numeric"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// UpstreamConfig points at the Uniswap v2 subgraph.
type UpstreamConfig struct {
	URL     string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`

	// RateLimitRPS caps outbound requests per second. 0 disables the limiter.
	RateLimitRPS int `validate:"gte=0"`
}

type DatabaseConfig struct {
	Driver string `validate:"oneof=sqlite postgres"`
	Path   string `validate:"required_if=Driver sqlite"`
	DSN    string `validate:"required_if=Driver postgres"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"gte=0"`
}

type PriceConfig struct {
	CacheBackend string        `validate:"oneof=memory redis"`
	CacheTTL     time.Duration `validate:"gt=0"`
}

type SyncConfig struct {
	Interval     time.Duration `validate:"gt=0"`
	RunOnStart   bool
	SnapshotPath string
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", ""),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 45*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Upstream: UpstreamConfig{
			URL:          getEnv("UNISWAP_API_URL", ""),
			Timeout:      getDurationEnv("UPSTREAM_TIMEOUT", 30*time.Second),
			RateLimitRPS: getIntEnv("UPSTREAM_RATE_LIMIT_RPS", 10),
		},
		Database: DatabaseConfig{
			Driver: getEnv("STORE_DRIVER", "sqlite"),
			Path:   getEnv("DB_PATH", "./data/tokens.db"),
			DSN:    getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Price: PriceConfig{
			CacheBackend: getEnv("PRICE_CACHE_BACKEND", "memory"),
			CacheTTL:     getDurationEnv("PRICE_CACHE_TTL", 30*time.Second),
		},
		Sync: SyncConfig{
			Interval:     getDurationEnv("SYNC_INTERVAL", 30*time.Minute),
			RunOnStart:   getBoolEnv("SYNC_RUN_ON_START", true),
			SnapshotPath: getEnv("SYNC_SNAPSHOT_PATH", ""),
		},
	}
}

// Validate checks struct tags and the rules that span groups.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid configuration: %s failed %s", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Price.CacheBackend == "redis" && c.Redis.Addr == "" {
		return errors.New("invalid configuration: REDIS_ADDR is required when PRICE_CACHE_BACKEND=redis")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

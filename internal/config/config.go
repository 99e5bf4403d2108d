package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MinSecretLength is the shortest JWT_SECRET accepted at startup.
const MinSecretLength = 32

// ErrMissingSecret is returned when JWT_SECRET is not set.
var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Revocation store backends.
const (
	RevocationNone  = "none"
	RevocationSQL   = "sql"
	RevocationRedis = "redis"
)

// Config holds the application configuration.
type Config struct {
	ServerPort  int
	Environment string
	LogLevel    string

	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseURL    string

	JWTSecret []byte

	AllowedOrigins []string

	RevocationStore string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	LoginRatePerMinute int
	LoginRateBurst     int

	EventRetentionDays int
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load loads configuration from environment variables or sets defaults.
// Unlike the other settings, JWT_SECRET has no default: startup fails without it.
func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	ratePerMinute, err := getEnvInt("LOGIN_RATE_PER_MINUTE", 10)
	if err != nil {
		return nil, err
	}
	rateBurst, err := getEnvInt("LOGIN_RATE_BURST", 5)
	if err != nil {
		return nil, err
	}
	retention, err := getEnvInt("EVENT_RETENTION_DAYS", 90)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:         port,
		Environment:        getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseDriver:     strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:        getEnv("DATABASE_URL", "./folio.db"),
		JWTSecret:          []byte(strings.TrimSpace(os.Getenv("JWT_SECRET"))),
		AllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		RevocationStore:    strings.ToLower(getEnv("REVOCATION_STORE", RevocationNone)),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            redisDB,
		LoginRatePerMinute: ratePerMinute,
		LoginRateBurst:     rateBurst,
		EventRetentionDays: retention,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no safe default.
func (c *Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return ErrMissingSecret
	}
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes, got %d", MinSecretLength, len(c.JWTSecret))
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.RevocationStore {
	case RevocationNone, RevocationSQL, RevocationRedis:
	default:
		return fmt.Errorf("unsupported REVOCATION_STORE %q", c.RevocationStore)
	}
	if c.LoginRatePerMinute <= 0 || c.LoginRateBurst <= 0 {
		return errors.New("login rate limits must be positive")
	}
	if c.EventRetentionDays <= 0 {
		return errors.New("EVENT_RETENTION_DAYS must be positive")
	}
	return nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "APP_ENV", "LOG_LEVEL", "DATABASE_DRIVER", "DATABASE_URL", "JWT_SECRET",
		"CORS_ALLOWED_ORIGINS", "REVOCATION_STORE", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"LOGIN_RATE_PER_MINUTE", "LOGIN_RATE_BURST", "EVENT_RETENTION_DAYS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "./folio.db", cfg.DatabaseURL)
	assert.Equal(t, RevocationNone, cfg.RevocationStore)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, []byte(testSecret), cfg.JWTSecret)
	assert.Equal(t, 90, cfg.EventRetentionDays)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingSecretFailsStartup(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSecret))
}

func TestLoad_ShortSecretRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/folio")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("REVOCATION_STORE", "redis")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, RevocationRedis, cfg.RevocationStore)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"port":       {"PORT": "eighty"},
		"driver":     {"DATABASE_DRIVER": "mysql"},
		"revocation": {"REVOCATION_STORE": "memcached"},
		"rate":       {"LOGIN_RATE_PER_MINUTE": "-1"},
		"retention":  {"EVENT_RETENTION_DAYS": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", strings.Repeat("k", MinSecretLength))
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

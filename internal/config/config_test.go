package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable FromEnv reads so the host environment
// cannot leak into a test
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORE_BACKEND", "DATABASE_URL", "FIRESTORE_PROJECT_ID", "BOLT_PATH",
		"TOKEN_SECRET", "TOKEN_TTL", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_REQUESTS",
		"RATE_LIMIT_WINDOW", "LOG_LEVEL", "LOG_FORMAT", "PAGE_SIZE", "IS_DEV_ENV", "METRICS_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_DevDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("IS_DEV_ENV", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.NotEmpty(t, cfg.DatabaseURL)
	assert.NotEmpty(t, cfg.TokenSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("PAGE_SIZE", "10")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "s3cret", cfg.TokenSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10, cfg.PageSize)
	assert.False(t, cfg.MetricsEnabled)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		env  map[string]string
		name string
	}{
		{name: "missing secret outside dev", env: map[string]string{"STORE_BACKEND": "memory"}},
		{name: "missing database url outside dev", env: map[string]string{"TOKEN_SECRET": "x"}},
		{name: "firestore without project", env: map[string]string{"STORE_BACKEND": "firestore", "TOKEN_SECRET": "x"}},
		{name: "unknown backend", env: map[string]string{"STORE_BACKEND": "mysql", "TOKEN_SECRET": "x"}},
		{name: "bad ttl", env: map[string]string{"STORE_BACKEND": "memory", "TOKEN_SECRET": "x", "TOKEN_TTL": "soon"}},
		{name: "negative page size", env: map[string]string{"STORE_BACKEND": "memory", "TOKEN_SECRET": "x", "PAGE_SIZE": "-1"}},
		{name: "bad log level", env: map[string]string{"STORE_BACKEND": "memory", "TOKEN_SECRET": "x", "LOG_LEVEL": "loud"}},
		{name: "bad log format", env: map[string]string{"STORE_BACKEND": "memory", "TOKEN_SECRET": "x", "LOG_FORMAT": "xml"}},
		{name: "bad bool", env: map[string]string{"STORE_BACKEND": "memory", "TOKEN_SECRET": "x", "IS_DEV_ENV": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

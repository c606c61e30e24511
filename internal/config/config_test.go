package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vetdesign/checkout-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"REDIS_URL":            "redis://localhost:6379/0",
		"APP_ENV":              "",
		"PORT":                 "",
		"SESSION_COOKIE_NAME":  "",
		"SESSION_TTL":          "",
		"CATALOG_CACHE_TTL":    "",
		"RATE_LIMIT_WINDOW":    "",
		"RATE_LIMIT_MAX":       "",
		"CORS_ALLOWED_ORIGINS": "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "sid", cfg.SessionCookieName)
	require.Equal(t, 4320*time.Hour, cfg.SessionTTL)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoadRequiresRedisURL(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"REDIS_URL": ""})
	require.Error(t, err)
	require.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"REDIS_URL":             "redis://localhost:6379/1",
		"PORT":                  "9090",
		"SESSION_COOKIE_SECURE": "true",
		"CORS_ALLOWED_ORIGINS":  "https://vetdesign.pl, https://www.vetdesign.pl",
		"CATALOG_BASE_URL":      "https://store.vetdesign.pl",
		"RATE_LIMIT_MAX":        "30",
		"OTEL_SAMPLING_RATIO":   "0.25",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.True(t, cfg.SessionCookieSecure)
	require.Equal(t, []string{"https://vetdesign.pl", "https://www.vetdesign.pl"}, cfg.CORSAllowedOrigins)
	require.Equal(t, "https://store.vetdesign.pl", cfg.CatalogBaseURL)
	require.Equal(t, 30, cfg.RateLimitMax)
	require.Equal(t, 0.25, cfg.TracingSamplingRatio)
}

func TestInvalidDurationsFallBack(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"REDIS_URL":           "redis://localhost:6379/0",
		"CATALOG_CACHE_TTL":   "soon",
		"RATE_LIMIT_MAX":      "-5",
		"OTEL_SAMPLING_RATIO": "2.5",
	})
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.Equal(t, 1.0, cfg.TracingSamplingRatio)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "secret", cfg.Auth.APIKey)
	assert.Equal(t, "X-API-Key", cfg.Auth.HeaderName)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, time.Hour, cfg.Cache.TTL)

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Hour, cfg.RateLimit.Window)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests["youtube"])
	assert.Equal(t, 50, cfg.RateLimit.MaxRequests["tiktok"])
	assert.Equal(t, 30, cfg.RateLimit.MaxRequests["reels"])
	assert.Equal(t, 100, cfg.RateLimit.DefaultMaxRequests)

	assert.False(t, cfg.Transcribe.Enabled)
	assert.Equal(t, "whisper-1", cfg.Transcribe.Model)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_KEY", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("RATE_LIMIT_YOUTUBE", "10")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("TRANSCRIBE_FALLBACK_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr())
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.RateLimit.MaxRequests["youtube"])
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Transcribe.Enabled)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("API_KEY", "secret")
	t.Setenv("REDIS_PORT", "not-a-number")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestProductionMiddleware(t *testing.T) {
	t.Setenv("API_KEY", "secret")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Middleware.EnableTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth:         AuthConfig{APIKey: "secret"},
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			Cache:        CacheConfig{TTL: time.Hour},
			RateLimit:    RateLimitConfig{Window: time.Hour, DefaultMaxRequests: 100},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Cache.TTL = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.RateLimit.DefaultMaxRequests = 0
	assert.Error(t, cfg.Validate())
}

package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"transcript-gateway/cache"
	"transcript-gateway/config"
	"transcript-gateway/errors"
)

// Limiter enforces a fixed-window request ceiling per (provider, client)
// pair, counted in the shared store. Store failures fail open: a request
// is never rejected because the counter backend is down.
type Limiter struct {
	store  cache.Store
	config config.RateLimitConfig
	logger zerolog.Logger
}

func NewLimiter(store cache.Store, cfg config.RateLimitConfig, logger zerolog.Logger) *Limiter {
	return &Limiter{
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "ratelimit").Logger(),
	}
}

// Key returns the window counter key for a provider and client address.
func Key(provider, clientIP string) string {
	return fmt.Sprintf("rate_limit:%s:%s", provider, clientIP)
}

// ceiling returns the per-window maximum for a provider, falling back to
// the default for unlisted providers.
func (l *Limiter) ceiling(provider string) int {
	if max, ok := l.config.MaxRequests[provider]; ok {
		return max
	}
	return l.config.DefaultMaxRequests
}

// Allow records one request and returns RateLimitExceeded once the
// provider's ceiling is reached within the current window. The counter
// is not incremented past the ceiling, so a rejected request does not
// extend the caller's penalty.
func (l *Limiter) Allow(ctx context.Context, provider, clientIP string) error {
	const op = "Limiter.Allow"

	if !l.config.Enabled {
		return nil
	}

	key := Key(provider, clientIP)

	val, ok, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Store error reading rate window, failing open")
		return nil
	}

	count := 0
	if ok {
		if count, err = strconv.Atoi(val); err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("Corrupt rate window counter, failing open")
			return nil
		}
	}

	if count >= l.ceiling(provider) {
		return errors.RateLimited(op, nil, fmt.Sprintf("Rate limit exceeded for provider %s", provider))
	}

	if _, err := l.store.IncrementAndExpire(ctx, key, l.config.Window); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Store error incrementing rate window, failing open")
	}

	return nil
}

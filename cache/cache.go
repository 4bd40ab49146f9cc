package cache

import (
	"context"
	"time"
)

// Store is the key-value contract shared by the response cache and the
// rate limiter. Both backings implement it; callers must not care which
// one is active beyond durability.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Increment atomically increments the counter at key and returns
	// the new value. A missing key counts from zero.
	Increment(ctx context.Context, key string) (int64, error)

	// Expire sets the TTL on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// IncrementAndExpire increments key and, if this is the first
	// increment of the window, applies the TTL — as a single grouped
	// operation so two concurrent callers cannot leave the key without
	// an expiry.
	IncrementAndExpire(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

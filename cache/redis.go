package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"transcript-gateway/config"
)

type redisStore struct {
	rdb *redis.Client
}

// New connects to Redis and returns a Redis-backed Store. If Redis is
// unreachable at startup it logs a warning and returns the process-local
// memory store instead, so the gateway stays available without the
// shared backing. The substitution is visible only in the startup log.
func New(cfg config.RedisConfig, logger zerolog.Logger) Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		DB:       cfg.DB,
		Password: cfg.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().
			Err(err).
			Str("addr", cfg.Addr()).
			Msg("Redis unreachable, falling back to in-memory store")
		_ = rdb.Close()
		return NewMemory(logger)
	}

	logger.Info().Str("addr", cfg.Addr()).Msg("Connected to Redis")
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Increment(ctx context.Context, key string) (int64, error) {
	return s.rdb.Incr(ctx, key).Result()
}

func (s *redisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.rdb.Expire(ctx, key, ttl).Err()
}

func (s *redisStore) IncrementAndExpire(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	// Pipelined INCR + EXPIRE NX: the expiry lands only on the increment
	// that created the key, and no interleaving can leave the counter
	// without a TTL.
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.rdb.Close()
}

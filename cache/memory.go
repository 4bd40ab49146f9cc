package cache

import (
	"context"
	"strconv"
	"sync"

	"time"

	"github.com/rs/zerolog"
)

// memoryStore is the process-local stand-in used when Redis is not
// reachable. Expiry is a no-op: entries live for the process lifetime.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemory returns a non-persistent in-memory Store.
func NewMemory(logger zerolog.Logger) Store {
	logger.Warn().Msg("Using in-memory store - data will not persist between restarts")
	return &memoryStore{entries: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.entries[key]
	return val, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memoryStore) Increment(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incrementLocked(key)
}

func (s *memoryStore) incrementLocked(key string) (int64, error) {
	count, err := strconv.ParseInt(s.entries[key], 10, 64)
	if s.entries[key] != "" && err != nil {
		return 0, err
	}
	count++
	s.entries[key] = strconv.FormatInt(count, 10)
	return count, nil
}

func (s *memoryStore) Expire(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func (s *memoryStore) IncrementAndExpire(_ context.Context, key string, _ time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incrementLocked(key)
}

func (s *memoryStore) Ping(_ context.Context) error {
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

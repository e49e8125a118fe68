package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// IdempotencyStore remembers which booking a creation key produced, so a
// retried request after a timed-out write returns the original booking
// instead of creating a duplicate.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (bookingID string, ok bool, err error)
	Put(ctx context.Context, key, bookingID string) error
}

type redisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIdempotencyStore builds a Redis-backed store. Keys expire after
// ttl; the sparse unique index on the ledger remains the durable backstop.
func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisIdempotencyStore{client: client, ttl: ttl}
}

func (s *redisIdempotencyStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, "idem:"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup failed: %w", err)
	}
	return val, true, nil
}

func (s *redisIdempotencyStore) Put(ctx context.Context, key, bookingID string) error {
	// SetNX keeps the first writer's booking if two retries race.
	if err := s.client.SetNX(ctx, "idem:"+key, bookingID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency store failed: %w", err)
	}
	return nil
}

// MemoryIdempotencyStore is the in-process equivalent, used by tests.
type MemoryIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{keys: make(map[string]string)}
}

func (s *MemoryIdempotencyStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.keys[key]
	return id, ok, nil
}

func (s *MemoryIdempotencyStore) Put(_ context.Context, key, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.keys[key]; !exists {
		s.keys[key] = bookingID
	}
	return nil
}

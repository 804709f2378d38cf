package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyTTL = 24 * time.Hour
	pendingMarker = "pending"
)

// IdempotencyStore maps client Idempotency-Key values to created crop ids.
// Key format: idem:crop:<owner>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client; ttl <= 0 selects defaultKeyTTL.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultKeyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve writes a pending marker with SETNX. Losing the race returns the
// value the winner stored.
func (s *IdempotencyStore) Reserve(ctx context.Context, owner, key string) (string, bool, error) {
	k := idempotencyKey(owner, key)
	ok, err := s.client.SetNX(ctx, k, pendingMarker, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return "", true, nil
	}

	id, err := s.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// Expired or released between SETNX and GET; report it as in flight.
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	case id == pendingMarker:
		return "", false, nil
	}
	return id, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, owner, key, cropID string) error {
	if err := s.client.Set(ctx, idempotencyKey(owner, key), cropID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, owner, key string) error {
	if err := s.client.Del(ctx, idempotencyKey(owner, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func idempotencyKey(owner, key string) string {
	return "idem:crop:" + owner + ":" + key
}

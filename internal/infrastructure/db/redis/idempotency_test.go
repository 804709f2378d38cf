package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestIdempotencyKey_ScopedByOwner(t *testing.T) {
	tests := []struct {
		owner, key string
		want       string
	}{
		{"fiona", "abc", "idem:crop:fiona:abc"},
		{"gary", "abc", "idem:crop:gary:abc"},
		{"fiona", "a:b", "idem:crop:fiona:a:b"},
	}
	for _, tt := range tests {
		if got := idempotencyKey(tt.owner, tt.key); got != tt.want {
			t.Errorf("idempotencyKey(%q, %q) = %q, want %q", tt.owner, tt.key, got, tt.want)
		}
	}
	if idempotencyKey("fiona", "abc") == idempotencyKey("gary", "abc") {
		t.Fatal("different owners must not share a key")
	}
}

func TestNewIdempotencyStore_DefaultTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	if s := NewIdempotencyStore(client, 0); s.ttl != defaultKeyTTL {
		t.Errorf("ttl = %v, want %v", s.ttl, defaultKeyTTL)
	}
	if s := NewIdempotencyStore(client, time.Minute); s.ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", s.ttl)
	}
}

func TestIdempotencyStore_ReserveUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewIdempotencyStore(client, 0)
	_, reserved, err := store.Reserve(context.Background(), "fiona", "abc")
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
	if reserved {
		t.Fatal("a failed reserve must not report success")
	}
}

package ports

import "context"

// IdempotencyStore tracks which crop each farmer created for a client-supplied
// key. Keys are scoped per owner so two farmers never share an entry.
type IdempotencyStore interface {
	// Reserve claims key for owner. When the key is already held, reserved is
	// false and cropID is the stored crop id, or empty while the request that
	// holds it is still in flight.
	Reserve(ctx context.Context, owner, key string) (cropID string, reserved bool, err error)
	// Complete binds a reserved key to the crop it produced.
	Complete(ctx context.Context, owner, key, cropID string) error
	// Release drops a reservation whose create failed.
	Release(ctx context.Context, owner, key string) error
}

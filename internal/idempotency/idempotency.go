// Package idempotency deduplicates retried order placements keyed by a client-chosen key.
package idempotency

import (
	"context"
	"time"
)

// DefaultTTL bounds how long a key and its result are remembered.
const DefaultTTL = 24 * time.Hour

// Store records in-flight keys and the result they produced. Keys are scoped per owner.
type Store interface {
	// TryLock claims scope/key. It reports false when the key is already claimed.
	TryLock(ctx context.Context, scope, key string) (bool, error)
	// Remember stores the result for a claimed key.
	Remember(ctx context.Context, scope, key, value string) error
	// Recall returns the remembered result, if any.
	Recall(ctx context.Context, scope, key string) (string, bool, error)
	// Release drops a claim whose operation failed so the client may retry.
	Release(ctx context.Context, scope, key string) error
}

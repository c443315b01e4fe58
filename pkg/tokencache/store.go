package tokencache

import (
	"context"
	"time"
)

// Store is the credential store port: shared, network-reachable key/value
// storage with native per-key expiration. Implementations live under
// drivers/ (redis for production, sqlite for single-host deployments,
// memory for tests).
//
// A genuine miss is not an error: Get returns ("", false, nil). Errors are
// reserved for connectivity and protocol failures, which the Manager wraps
// in ErrStoreUnavailable.
type Store interface {
	// Get returns the value for key if present and not expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes value with no expiration, replacing any existing entry.
	Set(ctx context.Context, key, value string) error

	// SetTTL writes value expiring ttl from now, replacing any existing
	// entry and resetting its expiry. ttl must be positive.
	SetTTL(ctx context.Context, key, value string, ttl time.Duration) error
}

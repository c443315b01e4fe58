// Package redis adapts a go-redis client to the credential store port.
// Redis is the production store: it is shared by all process instances, so
// a token refreshed by one instance is immediately visible to the rest, and
// expiry is enforced server-side via SET with expiration.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Store implements the tokencache.Store port over a shared go-redis client.
// The client owns the connection pool; callers inject it (constructor
// injection) so tests can point at a throwaway server.
type Store struct {
	client *goredis.Client
}

// NewStore wraps an existing client. The Store does not close it.
func NewStore(client *goredis.Client) *Store {
	return &Store{client: client}
}

// Open connects to the store address given in redis URL form, e.g.
// redis://:password@127.0.0.1:6379/1. The address is environment-provided
// configuration; see dingsdk.LoadEnvConfig.
func Open(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *Store) SetTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

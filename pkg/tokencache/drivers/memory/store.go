// Package memory provides an in-process credential store. It exists for
// tests and single-node deployments; unlike the redis driver it is not
// shared across process instances, so every instance refreshes on its own.
package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// Store is a TTL-capable in-memory key/value store. The zero value is not
// usable; construct with NewStore or NewStoreWithClock.
type Store struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]entry
}

// NewStore returns a Store using the wall clock.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock returns a Store reading time from now, letting tests
// drive expiry deterministically.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		now:     now,
		entries: make(map[string]entry),
	}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: value}
	return nil
}

func (s *Store) SetTTL(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

// Len reports the number of live entries, expired ones included until the
// next Get touches them.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

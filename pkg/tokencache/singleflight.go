package tokencache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// SingleFlightManager coalesces concurrent Acquire calls per key so that
// only one caller performs the exchange while the rest wait for its result.
// This trades the Manager's accepted issuance stampede at expiry for a
// single remote call, without changing the external contract.
//
// The in-flight exchange runs under the winning caller's context; a waiter
// whose own context ends still receives the shared result or error.
//
// Replace is deliberately not coalesced: each authorization code is
// single-use, and collapsing two exchanges would silently discard one code.
type SingleFlightManager struct {
	manager *Manager
	group   singleflight.Group
}

// NewSingleFlightManager wraps manager with per-key issuance coalescing.
func NewSingleFlightManager(manager *Manager) *SingleFlightManager {
	return &SingleFlightManager{manager: manager}
}

// Acquire behaves like Manager.Acquire with at most one issuance in flight
// per key.
func (s *SingleFlightManager) Acquire(ctx context.Context, key string, issue IssueFunc) (string, error) {
	value, err, _ := s.group.Do(key, func() (any, error) {
		return s.manager.Acquire(ctx, key, issue)
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// Replace delegates to Manager.Replace without coalescing.
func (s *SingleFlightManager) Replace(ctx context.Context, key string, issue IssueFunc) (string, error) {
	return s.manager.Replace(ctx, key, issue)
}

// Lookup delegates to Manager.Lookup.
func (s *SingleFlightManager) Lookup(ctx context.Context, key string) (string, error) {
	return s.manager.Lookup(ctx, key)
}

var (
	_ Acquirer = (*Manager)(nil)
	_ Acquirer = (*SingleFlightManager)(nil)
)

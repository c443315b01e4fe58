package tokencache

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Key namespace prefixes. The two domains must never share a storage key:
// an app id and a corp id that happen to be the same string would otherwise
// overwrite each other's records.
const (
	appKeyPrefix  = "dingtalk:app:"
	corpKeyPrefix = "dingtalk:corp:"
)

// AppKey derives the app-domain storage key for an application id.
func AppKey(appID string) string { return appKeyPrefix + appID }

// CorpKey derives the corp-domain storage key for a corp id.
func CorpKey(corpID string) string { return corpKeyPrefix + corpID }

// DefaultMinTTL is the floor applied to remote-declared lifetimes. The
// declared TTL is remote-controlled input: a zero or negative value must not
// reach the store, where it would read as "never expires".
const DefaultMinTTL = time.Minute

// Credential is a successfully issued record together with the lifetime the
// issuer declared for it. Value is opaque to the manager; it may be a bare
// token or a serialized record carrying issuance metadata.
type Credential struct {
	Value    string
	Lifetime time.Duration
}

// IssueFunc performs the credential exchange against the remote issuer. It
// must return an error, not an empty Credential, when the exchange fails;
// the manager never writes a failed result to the store.
type IssueFunc func(ctx context.Context) (Credential, error)

// Acquirer is the contract shared by Manager and SingleFlightManager, so the
// coalescing strategy is pluggable without changing callers.
type Acquirer interface {
	Acquire(ctx context.Context, key string, issue IssueFunc) (string, error)
	Replace(ctx context.Context, key string, issue IssueFunc) (string, error)
	Lookup(ctx context.Context, key string) (string, error)
}

// Manager decides, per key, whether the cached credential is still usable
// and synchronously exchanges durable secrets for a new one when it is not.
// It performs no coalescing: concurrent acquires on the same expired key may
// each hit the issuer, last writer wins.
type Manager struct {
	store  Store
	minTTL time.Duration
	logger *slog.Logger
}

// NewManager returns a Manager backed by store. A nil logger falls back to
// slog.Default.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		minTTL: DefaultMinTTL,
		logger: logger,
	}
}

// Acquire returns the cached value for key, issuing and storing a new
// credential on a miss. The stored entry expires with the issuer-declared
// lifetime, clamped to DefaultMinTTL when the remote declares zero or less.
// A cached value is trusted for its full lifetime; there is no double-check
// against the issuer. Issuance failure propagates and nothing is written.
func (m *Manager) Acquire(ctx context.Context, key string, issue IssueFunc) (string, error) {
	value, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return "", storeError("get", key, err)
	}
	if ok {
		return value, nil
	}

	cred, err := issue(ctx)
	if err != nil {
		return "", fmt.Errorf("issue credential for %q: %w", key, err)
	}

	ttl := cred.Lifetime
	if ttl <= 0 {
		m.logger.Warn("issuer declared suspicious lifetime, clamping",
			"key", key, "declared", cred.Lifetime, "floor", m.minTTL)
		ttl = m.minTTL
	}
	if err := m.store.SetTTL(ctx, key, cred.Value, ttl); err != nil {
		return "", storeError("set", key, err)
	}

	m.logger.Debug("credential issued", "key", key, "ttl", ttl)
	return cred.Value, nil
}

// Replace unconditionally issues a new credential and writes it without a
// store-side expiry, fully replacing whatever the store held for key. It
// serves exchanges whose grant is single-use and externally supplied (the
// app-domain authorization code): a cache hit can never satisfy them, and
// the record stays valid until the next Replace overwrites it.
func (m *Manager) Replace(ctx context.Context, key string, issue IssueFunc) (string, error) {
	cred, err := issue(ctx)
	if err != nil {
		return "", fmt.Errorf("issue credential for %q: %w", key, err)
	}
	if err := m.store.Set(ctx, key, cred.Value); err != nil {
		return "", storeError("set", key, err)
	}

	m.logger.Debug("credential replaced", "key", key)
	return cred.Value, nil
}

// Lookup returns the cached value for key without ever touching the issuer.
// It returns ErrCredentialAbsent on a miss. This is the read path for
// credentials the manager cannot mint on demand.
func (m *Manager) Lookup(ctx context.Context, key string) (string, error) {
	value, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return "", storeError("get", key, err)
	}
	if !ok {
		return "", fmt.Errorf("lookup %q: %w", key, ErrCredentialAbsent)
	}
	return value, nil
}

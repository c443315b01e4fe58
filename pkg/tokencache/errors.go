package tokencache

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable reports that the credential store could not be
	// reached or the operation failed at the transport level. There is no
	// in-process fallback: the current acquisition fails and is not retried.
	ErrStoreUnavailable = errors.New("tokencache: credential store unavailable")

	// ErrCredentialAbsent reports that a read-only lookup found nothing in
	// the store. Only Lookup returns it; Acquire issues on a miss instead.
	ErrCredentialAbsent = errors.New("tokencache: credential absent")
)

// storeError wraps a driver failure so callers can match ErrStoreUnavailable
// while keeping the underlying error inspectable.
func storeError(op, key string, err error) error {
	return fmt.Errorf("%s %q: %w", op, key, errors.Join(ErrStoreUnavailable, err))
}

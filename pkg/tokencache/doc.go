// Package tokencache implements the access-token acquisition-and-cache
// subsystem for the DingTalk open platform.
//
// Two credential domains share the same machinery but are keyed into
// disjoint namespaces:
//
//   - the app domain holds one record per application, written without a
//     store-side expiry and replaced on each authorization-code exchange
//     (see Manager.Replace and Manager.Lookup);
//   - the corp domain holds one token per (application, corp) pair, written
//     with the lifetime declared by the remote issuer (see Manager.Acquire).
//
// The Manager trusts the Store's expiration: a value read back is served for
// its full advertised lifetime with no re-validation against the issuer.
// Refresh is purely demand driven; the next caller to observe a miss pays
// for the exchange. Concurrent callers racing on the same expired key may
// each issue independently (last write wins). Wrap the Manager in a
// SingleFlightManager when duplicate issuance at expiry is unacceptable.
package tokencache

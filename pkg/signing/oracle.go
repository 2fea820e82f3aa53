package signing

import "context"

// KeyRef identifies a signing key held by the oracle.
type KeyRef struct {
	// Name is the oracle-side key identifier.
	Name string

	// DerivationPath is the key derivation path. The record service always
	// uses an empty path; multi-tenant derivation is out of scope.
	DerivationPath [][]byte
}

// Oracle is the external signing capability. It holds or derives the
// private key and produces a public key and message signatures on request.
//
// Both calls are remote round trips in the reference deployment; callers
// must treat them as cancellable, suspending operations and must not commit
// any state until both have succeeded.
type Oracle interface {
	// PublicKey retrieves the public key for the referenced key, encoded in
	// PKIX DER form.
	PublicKey(ctx context.Context, ref KeyRef) ([]byte, error)

	// Sign signs the given message digest (SHA-256) with the referenced key
	// and returns an ASN.1 DER encoded signature.
	Sign(ctx context.Context, ref KeyRef, digest []byte) ([]byte, error)
}

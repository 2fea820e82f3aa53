// Package signing implements the cryptographic signing protocol for
// committed records.
//
// # Protocol
//
// Every record carries a signature over a canonical message derived from
// the classification result:
//
//	diagnosis|confidence|timestamp|anonymizedID
//
// The Client obtains the signature in two steps against an Oracle
// capability: retrieve the public key, then sign the SHA-256 digest of the
// message. Both steps must succeed before anything is persisted; a failure
// in either step aborts record creation with a SigningError.
//
// # Oracles
//
// Oracle is the boundary to the external signing service. LocalOracle is an
// in-process implementation backed by an ECDSA P-256 key, suitable for
// single-node deployments and tests. The key file can be rotated at runtime
// via KeyWatcher without restarting the service.
package signing

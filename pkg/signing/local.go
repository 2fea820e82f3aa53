package signing

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// LocalOracle is an in-process Oracle backed by an ECDSA P-256 key. It
// stands in for the external signing oracle in single-node deployments and
// in tests, while keeping the two-step protocol shape.
//
// The key can be hot-reloaded (see KeyWatcher), so all access goes through
// a read lock.
type LocalOracle struct {
	mu     sync.RWMutex
	key    *ecdsa.PrivateKey
	logger *slog.Logger
}

// NewLocalOracle creates a local oracle with a freshly generated P-256 key.
func NewLocalOracle() (*LocalOracle, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	return &LocalOracle{
		key:    key,
		logger: slog.Default().With("component", "signing.local"),
	}, nil
}

// NewLocalOracleFromFile creates a local oracle with the private key loaded
// from a PEM file.
func NewLocalOracleFromFile(path string) (*LocalOracle, error) {
	key, err := loadPrivateKey(path)
	if err != nil {
		return nil, err
	}

	o := &LocalOracle{
		key:    key,
		logger: slog.Default().With("component", "signing.local"),
	}
	o.logger.Info("signing key loaded", "path", path)

	return o, nil
}

// PublicKey returns the PKIX DER encoding of the active public key.
func (o *LocalOracle) PublicKey(_ context.Context, _ KeyRef) ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	der, err := x509.MarshalPKIXPublicKey(&o.key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return der, nil
}

// Sign signs the digest with the active key and returns the ASN.1 DER
// encoded signature.
func (o *LocalOracle) Sign(_ context.Context, _ KeyRef, digest []byte) ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	sig, err := ecdsa.SignASN1(rand.Reader, o.key, digest)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}
	return sig, nil
}

// Reload replaces the active key with the key loaded from path. Used by the
// key watcher on rotation; in-flight signatures finish with the old key.
func (o *LocalOracle) Reload(path string) error {
	key, err := loadPrivateKey(path)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.key = key
	o.mu.Unlock()

	o.logger.Info("signing key reloaded", "path", path)
	return nil
}

// loadPrivateKey reads an ECDSA private key from a PEM file. Both SEC 1
// ("EC PRIVATE KEY") and PKCS#8 ("PRIVATE KEY") blocks are accepted.
func loadPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %q: %w", path, err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in %q", path)
	}

	switch block.Type {
	case "EC PRIVATE KEY":
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse EC private key: %w", err)
		}
		return key, nil

	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
		}
		ecKey, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("key in %q is %T, want *ecdsa.PrivateKey", path, key)
		}
		return ecKey, nil

	default:
		return nil, fmt.Errorf("unsupported PEM block type %q in %q", block.Type, path)
	}
}

package signing

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"caduceus-hq/veritas/pkg/record"
)

// DefaultKeyName is the oracle-side key identifier used when none is
// configured. It matches the reference deployment's test key.
const DefaultKeyName = "dfx_test_key"

// messageDelimiter joins the canonical message fields. The composition is a
// compatibility contract with downstream signature consumers and must not
// change.
const messageDelimiter = "|"

// CanonicalMessage builds the fixed-format string that is signed as proof
// of a record's integrity: diagnosis, confidence, creation timestamp
// (nanoseconds), and anonymized patient ID, joined with "|".
//
// The confidence is formatted with the shortest decimal representation that
// round-trips, so the message is reproducible bit-for-bit from the stored
// record.
func CanonicalMessage(diagnosis string, confidence float64, createdAt time.Time, anonymizedID string) string {
	return strings.Join([]string{
		diagnosis,
		strconv.FormatFloat(confidence, 'g', -1, 64),
		strconv.FormatInt(createdAt.UnixNano(), 10),
		anonymizedID,
	}, messageDelimiter)
}

// Config contains configuration for the signing client.
type Config struct {
	// KeyName is the oracle-side key identifier.
	// Default: "dfx_test_key"
	KeyName string

	// Timeout bounds each oracle round trip. A stalled oracle call fails
	// with a SigningError instead of stalling the creation request.
	// Default: 10 seconds
	Timeout time.Duration
}

// DefaultConfig returns the default signing client configuration.
func DefaultConfig() *Config {
	return &Config{
		KeyName: DefaultKeyName,
		Timeout: 10 * time.Second,
	}
}

// Client runs the two-step signing protocol against an Oracle: first
// retrieve the public key, then request a signature over the SHA-256 digest
// of the canonical message. Either step failing yields a SigningError and
// the caller must not persist anything.
type Client struct {
	oracle Oracle
	keyRef KeyRef
	config *Config
	logger *slog.Logger
}

// NewClient creates a signing client for the given oracle.
func NewClient(oracle Oracle, config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.KeyName == "" {
		config.KeyName = DefaultKeyName
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &Client{
		oracle: oracle,
		keyRef: KeyRef{Name: config.KeyName, DerivationPath: nil},
		config: config,
		logger: slog.Default().With("component", "signing.client"),
	}
}

// SignMessage obtains (signature, publicKey) for the canonical message.
// Both oracle calls are bounded by the configured timeout.
func (c *Client) SignMessage(ctx context.Context, message string) (signature, publicKey []byte, err error) {
	// Step 1: retrieve the public key.
	pkCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	publicKey, err = c.oracle.PublicKey(pkCtx, c.keyRef)
	if err != nil {
		return nil, nil, record.NewSigningError("public_key", err)
	}

	// Step 2: sign the SHA-256 digest of the message.
	digest := sha256.Sum256([]byte(message))

	signCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	signature, err = c.oracle.Sign(signCtx, c.keyRef, digest[:])
	if err != nil {
		return nil, nil, record.NewSigningError("sign", err)
	}

	c.logger.Debug("message signed",
		"key_name", c.keyRef.Name,
		"signature_bytes", len(signature),
		"public_key_bytes", len(publicKey),
	)

	return signature, publicKey, nil
}

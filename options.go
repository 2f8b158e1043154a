package webpush

import (
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/vaultsandbox/webpush/webcrypto"
)

const (
	// DefaultTTL is the TTL header value used when none is given.
	DefaultTTL = 60 * time.Second

	// DefaultJWTTTL is the VAPID token lifetime used when none is given.
	DefaultJWTTTL = 24 * time.Hour

	// MaxPaddingSize is the largest random padding added to a payload.
	MaxPaddingSize = 100

	// MaxPaddedPayloadSize bounds the padding prefix, padding and payload
	// together. With the 16-byte tag the body stays within 4096 bytes.
	MaxPaddedPayloadSize = 4078

	// MaxPayloadSize is the largest payload accepted: the padded size less
	// the 2-byte padding prefix.
	MaxPayloadSize = MaxPaddedPayloadSize - 2

	// DefaultBatchConcurrency bounds parallel work in BuildBatch.
	DefaultBatchConcurrency = 8
)

// PaddingSource returns a padding length. Results outside
// [0, MaxPaddingSize] are clamped.
type PaddingSource func() int

// defaultPadding picks a padding length uniformly in [0, MaxPaddingSize].
// Padding length does not need to be unpredictable, so this is not a CSPRNG.
func defaultPadding() int {
	return rand.IntN(MaxPaddingSize + 1)
}

// clientConfig holds configuration for the client.
type clientConfig struct {
	provider         webcrypto.Provider
	providerSet      bool
	ttl              time.Duration
	jwtTTL           time.Duration
	now              func() time.Time
	padding          PaddingSource
	logger           *slog.Logger
	httpClient       *http.Client
	httpTimeout      time.Duration
	batchConcurrency int
}

// Option configures the client.
type Option func(*clientConfig)

// WithProvider sets the crypto provider. Without it the client uses the
// process default installed with SetCryptoProvider.
func WithProvider(p webcrypto.Provider) Option {
	return func(c *clientConfig) {
		c.provider = p
		c.providerSet = true
	}
}

// WithTTL sets the default TTL header, the time a push service may hold an
// undelivered message.
// Default: 60 seconds
func WithTTL(ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.ttl = ttl
	}
}

// WithJWTTTL sets the default lifetime of VAPID tokens.
// Default: 24 hours
func WithJWTTTL(ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.jwtTTL = ttl
	}
}

// WithClock sets the time source used for the VAPID exp claim.
func WithClock(now func() time.Time) Option {
	return func(c *clientConfig) {
		c.now = now
	}
}

// WithPaddingSource overrides how padding lengths are chosen.
func WithPaddingSource(src PaddingSource) Option {
	return func(c *clientConfig) {
		c.padding = src
	}
}

// WithLogger enables debug logging of pipeline stages. Key material,
// salts and payloads are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithHTTPClient sets the HTTP client used by Send.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithHTTPTimeout sets the timeout of the HTTP client used by Send.
// Ignored when WithHTTPClient is given.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.httpTimeout = timeout
	}
}

// WithBatchConcurrency bounds how many requests BuildBatch builds at once.
// Default: 8
func WithBatchConcurrency(n int) Option {
	return func(c *clientConfig) {
		c.batchConcurrency = n
	}
}

package webpush

import (
	"context"
	"log/slog"
	"time"

	"github.com/vaultsandbox/webpush/internal/pushapi"
	"github.com/vaultsandbox/webpush/webcrypto"
)

// userAgent is sent with every delivery.
const userAgent = "vaultsandbox-webpush-go"

// Client builds and delivers Web Push requests. It holds no per-message
// state and is safe for concurrent use.
type Client struct {
	provider         webcrypto.Provider
	ttl              time.Duration
	jwtTTL           time.Duration
	now              func() time.Time
	padding          PaddingSource
	logger           *slog.Logger
	push             *pushapi.Client
	batchConcurrency int
}

// New creates a client. The crypto provider is fixed at construction; a
// later SetCryptoProvider does not affect it.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		ttl:              DefaultTTL,
		jwtTTL:           DefaultJWTTTL,
		now:              time.Now,
		padding:          defaultPadding,
		batchConcurrency: DefaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	provider := cfg.provider
	if !cfg.providerSet {
		provider = CryptoProvider()
	}
	provider, err := resolveProvider(provider)
	if err != nil {
		return nil, err
	}

	if cfg.ttl < 0 {
		return nil, &ConfigurationError{Message: "TTL must not be negative"}
	}
	if cfg.jwtTTL <= 0 {
		return nil, &ConfigurationError{Message: "JWT TTL must be positive"}
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	if cfg.padding == nil {
		cfg.padding = defaultPadding
	}
	if cfg.batchConcurrency <= 0 {
		cfg.batchConcurrency = DefaultBatchConcurrency
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		provider: provider,
		ttl:      cfg.ttl,
		jwtTTL:   cfg.jwtTTL,
		now:      cfg.now,
		padding:  cfg.padding,
		logger:   logger,
		push: pushapi.NewClient(pushapi.Config{
			HTTPClient: cfg.httpClient,
			Timeout:    cfg.httpTimeout,
			Logger:     logger,
			UserAgent:  userAgent,
		}),
		batchConcurrency: cfg.batchConcurrency,
	}, nil
}

// Provider returns the crypto provider the client was built with.
func (c *Client) Provider() webcrypto.Provider {
	return c.provider
}

// GeneratePushHTTPRequest builds a request with a client using the process
// default provider.
func GeneratePushHTTPRequest(ctx context.Context, opts PushOptions) (*PushRequest, error) {
	c, err := New()
	if err != nil {
		return nil, err
	}
	return c.GeneratePushHTTPRequest(ctx, opts)
}

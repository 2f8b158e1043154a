package pushapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the HTTP client timeout used when none is configured.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 4 << 10
)

// Message is one request to deliver. Headers are applied in order.
type Message struct {
	Endpoint string
	Headers  [][2]string
	Body     []byte
}

// Response is the push service's answer to a delivered message.
type Response struct {
	StatusCode int
	// Location is the message resource URL some push services return.
	Location string
	Header   http.Header
}

// Config holds configuration for the push client.
type Config struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
	UserAgent  string
}

// Client delivers messages to push services.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// NewClient creates a client from an explicit configuration.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		userAgent:  cfg.UserAgent,
	}
}

// NewRequest builds the HTTP POST for msg. Header names are stored exactly
// as given rather than canonicalized, so "TTL" stays "TTL" on the wire.
func NewRequest(ctx context.Context, msg *Message) (*http.Request, error) {
	if msg == nil || msg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, msg.Endpoint, bytes.NewReader(msg.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for _, h := range msg.Headers {
		if h[0] == "Content-Length" {
			continue
		}
		req.Header[h[0]] = []string{h[1]}
	}
	req.ContentLength = int64(len(msg.Body))

	return req, nil
}

// Send POSTs msg to its endpoint once.
func (c *Client) Send(ctx context.Context, msg *Message) (*Response, error) {
	req, err := NewRequest(ctx, msg)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err, Endpoint: msg.Endpoint}
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "push delivered",
		slog.String("host", req.URL.Host),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(bytes.TrimSpace(body)),
			Endpoint:   msg.Endpoint,
		}
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	return &Response{
		StatusCode: resp.StatusCode,
		Location:   resp.Header.Get("Location"),
		Header:     resp.Header,
	}, nil
}

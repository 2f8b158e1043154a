package webpush

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/vaultsandbox/webpush/webcrypto"
)

func TestDefaultConstants(t *testing.T) {
	if DefaultTTL != 60*time.Second {
		t.Errorf("DefaultTTL = %v, want 60s", DefaultTTL)
	}
	if DefaultJWTTTL != 86400*time.Second {
		t.Errorf("DefaultJWTTTL = %v, want 86400s", DefaultJWTTTL)
	}
	if MaxPaddedPayloadSize != 4078 {
		t.Errorf("MaxPaddedPayloadSize = %d, want 4078", MaxPaddedPayloadSize)
	}
	if MaxPayloadSize != 4076 {
		t.Errorf("MaxPayloadSize = %d, want 4076", MaxPayloadSize)
	}
}

func TestOptions(t *testing.T) {
	cfg := &clientConfig{}
	p := webcrypto.NewCircl()
	now := func() time.Time { return time.Unix(1000, 0) }
	logger := slog.New(slog.DiscardHandler)
	httpClient := &http.Client{Timeout: 9 * time.Second}

	for _, opt := range []Option{
		WithProvider(p),
		WithTTL(30 * time.Second),
		WithJWTTTL(time.Hour),
		WithClock(now),
		WithPaddingSource(fixedPadding(7)),
		WithLogger(logger),
		WithHTTPClient(httpClient),
		WithHTTPTimeout(3 * time.Second),
		WithBatchConcurrency(2),
	} {
		opt(cfg)
	}

	if cfg.provider != p || !cfg.providerSet {
		t.Error("provider was not set")
	}
	if cfg.ttl != 30*time.Second {
		t.Errorf("ttl = %v, want 30s", cfg.ttl)
	}
	if cfg.jwtTTL != time.Hour {
		t.Errorf("jwtTTL = %v, want 1h", cfg.jwtTTL)
	}
	if cfg.now().Unix() != 1000 {
		t.Error("clock was not set")
	}
	if cfg.padding() != 7 {
		t.Error("padding source was not set")
	}
	if cfg.logger != logger {
		t.Error("logger was not set")
	}
	if cfg.httpClient != httpClient {
		t.Error("httpClient was not set")
	}
	if cfg.httpTimeout != 3*time.Second {
		t.Errorf("httpTimeout = %v, want 3s", cfg.httpTimeout)
	}
	if cfg.batchConcurrency != 2 {
		t.Errorf("batchConcurrency = %d, want 2", cfg.batchConcurrency)
	}
}

func TestDefaultPadding_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		if n := defaultPadding(); n < 0 || n > MaxPaddingSize {
			t.Fatalf("defaultPadding() = %d, out of [0, %d]", n, MaxPaddingSize)
		}
	}
}

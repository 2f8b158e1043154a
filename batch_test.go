package webpush

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/goleak"
)

func TestBuildBatch(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := testClient(t, WithBatchConcurrency(3))

	bad := testSubscription()
	bad.Keys.Auth = "AAAA"

	targets := []Subscription{testSubscription(), bad, testSubscription(), testSubscription(), bad}

	results, err := c.BuildBatch(context.Background(), PushOptions{
		Payload:      []byte("batched"),
		Keys:         testKeys(t),
		AdminContact: "ops@example.com",
	}, targets)
	if err != nil {
		t.Fatalf("BuildBatch() error = %v", err)
	}
	if len(results) != len(targets) {
		t.Fatalf("got %d results, want %d", len(results), len(targets))
	}

	salts := map[string]bool{}
	for i, r := range results {
		if r.Target != targets[i] {
			t.Errorf("result %d: target out of order", i)
		}

		if targets[i] == bad {
			if !errors.Is(r.Err, ErrValidation) || r.Request != nil {
				t.Errorf("result %d: got (%v, %v), want validation failure", i, r.Request, r.Err)
			}
			continue
		}

		if r.Err != nil {
			t.Errorf("result %d: unexpected error %v", i, r.Err)
			continue
		}
		payload, _ := decryptPush(t, r.Request, testClientScalar, testAuth)
		if string(payload) != "batched" {
			t.Errorf("result %d: payload = %q", i, payload)
		}
		salts[r.Request.Headers.Get("Encryption")] = true
	}

	if len(salts) != 3 {
		t.Errorf("got %d distinct salts for 3 requests", len(salts))
	}
}

func TestBuildBatch_Empty(t *testing.T) {
	c := testClient(t)

	results, err := c.BuildBatch(context.Background(), PushOptions{}, nil)
	if err != nil || len(results) != 0 {
		t.Errorf("got (%v, %v), want empty", results, err)
	}
}

func TestBuildBatch_ContextCanceled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := testClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	targets := []Subscription{testSubscription(), testSubscription()}
	results, err := c.BuildBatch(ctx, PushOptions{
		Payload:      []byte("x"),
		Keys:         testKeys(t),
		AdminContact: "ops@example.com",
	}, targets)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	for i, r := range results {
		if r.Request != nil || !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d: got (%v, %v)", i, r.Request, r.Err)
		}
	}
}

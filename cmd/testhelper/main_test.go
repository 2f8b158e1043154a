package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func runJSON(t *testing.T, stdin any, args ...string) []byte {
	t.Helper()

	var in bytes.Buffer
	if stdin != nil {
		if err := json.NewEncoder(&in).Encode(stdin); err != nil {
			t.Fatal(err)
		}
	}
	var out bytes.Buffer
	cfg := Config{Stdin: &in, Stdout: &out, Stderr: &bytes.Buffer{}}

	if err := run(append([]string{"testhelper"}, args...), cfg); err != nil {
		t.Fatalf("run(%v) error = %v", args, err)
	}
	return out.Bytes()
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Stdin != os.Stdin {
		t.Error("DefaultConfig().Stdin should be os.Stdin")
	}
	if cfg.Stdout != os.Stdout {
		t.Error("DefaultConfig().Stdout should be os.Stdout")
	}
	if cfg.Stderr != os.Stderr {
		t.Error("DefaultConfig().Stderr should be os.Stderr")
	}
}

func TestRun_EncryptDecrypt(t *testing.T) {
	var sub SubscriptionOutput
	if err := json.Unmarshal(runJSON(t, nil, "new-subscription", "https://push.example.com/x"), &sub); err != nil {
		t.Fatal(err)
	}
	if sub.Subscription.Endpoint != "https://push.example.com/x" {
		t.Errorf("Endpoint = %q", sub.Subscription.Endpoint)
	}

	var req RequestOutput
	out := runJSON(t, encryptInput{Subscription: sub.Subscription, Payload: "interop"}, "encrypt")
	if err := json.Unmarshal(out, &req); err != nil {
		t.Fatal(err)
	}
	if req.Headers["Content-Encoding"] != "aesgcm" {
		t.Errorf("Content-Encoding = %q", req.Headers["Content-Encoding"])
	}
	if !strings.Contains(req.Headers["Crypto-Key"], "p256ecdsa="+req.PublicKey) {
		t.Errorf("Crypto-Key = %q, want VAPID key %q", req.Headers["Crypto-Key"], req.PublicKey)
	}

	var got DecryptOutput
	out = runJSON(t, decryptInput{
		PrivateKey: sub.PrivateKey,
		Auth:       sub.Subscription.Keys.Auth,
		Headers:    req.Headers,
		Body:       req.Body,
	}, "decrypt")
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got.Payload != "interop" {
		t.Errorf("Payload = %q", got.Payload)
	}
	if got.PaddingSize < 0 || got.PaddingSize > 100 {
		t.Errorf("PaddingSize = %d", got.PaddingSize)
	}
}

func TestRun_Errors(t *testing.T) {
	cfg := Config{Stdin: strings.NewReader("{"), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	if err := run([]string{"testhelper"}, cfg); err == nil {
		t.Error("missing command accepted")
	}
	if err := run([]string{"testhelper", "bogus"}, cfg); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("unknown command: error = %v", err)
	}
	if err := run([]string{"testhelper", "encrypt"}, cfg); err == nil {
		t.Error("invalid JSON accepted")
	}
}

func TestHeaderHelpers(t *testing.T) {
	h := map[string]string{"crypto-key": "dh=abc; p256ecdsa=def"}

	if got := cryptoKeyParam(header(h, "Crypto-Key"), "p256ecdsa"); got != "def" {
		t.Errorf("p256ecdsa = %q", got)
	}
	if got := cryptoKeyParam(header(h, "Crypto-Key"), "dh"); got != "abc" {
		t.Errorf("dh = %q", got)
	}
	if got := header(h, "Encryption"); got != "" {
		t.Errorf("missing header = %q", got)
	}
}

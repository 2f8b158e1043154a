// Command testhelper exchanges push messages with other Web Push
// implementations over stdin and stdout JSON, for cross-implementation
// tests.
//
//	testhelper new-subscription [endpoint]   print a subscriber identity
//	testhelper encrypt                       stdin encryptInput, stdout requestOutput
//	testhelper decrypt                       stdin decryptInput, stdout decryptOutput
package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vaultsandbox/webpush"
	"github.com/vaultsandbox/webpush/internal/crypto"
	"github.com/vaultsandbox/webpush/internal/receiver"
)

const defaultEndpoint = "https://push.example.com/send/testhelper"

// Config holds the streams used by run.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns the process streams.
func DefaultConfig() Config {
	return Config{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// SubscriptionOutput is a subscriber identity. PrivateKey is the raw
// base64url P-256 scalar the decrypt command needs.
type SubscriptionOutput struct {
	Subscription webpush.Subscription `json:"subscription"`
	PrivateKey   string               `json:"privateKey"`
}

type encryptInput struct {
	Subscription webpush.Subscription    `json:"subscription"`
	Keys         *webpush.SerializedKeys `json:"keys,omitempty"`
	Payload      string                  `json:"payload"`
	Contact      string                  `json:"contact"`
}

// RequestOutput is an encrypted request. Body is base64url.
type RequestOutput struct {
	Endpoint string            `json:"endpoint"`
	Headers  map[string]string `json:"headers"`
	Body     string            `json:"body"`
	// PublicKey is the VAPID key that signed Authorization.
	PublicKey string `json:"publicKey"`
}

type decryptInput struct {
	PrivateKey string            `json:"privateKey"`
	Auth       string            `json:"auth"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// DecryptOutput is a decrypted message.
type DecryptOutput struct {
	Payload     string `json:"payload"`
	PaddingSize int    `json:"paddingSize"`
}

func run(args []string, cfg Config) error {
	if len(args) < 2 {
		return errors.New("usage: testhelper <new-subscription|encrypt|decrypt>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[1] {
	case "new-subscription":
		endpoint := defaultEndpoint
		if len(args) > 2 {
			endpoint = args[2]
		}
		return newSubscription(cfg, endpoint)
	case "encrypt":
		return encrypt(ctx, cfg)
	case "decrypt":
		return decrypt(cfg)
	default:
		return fmt.Errorf("unknown command: %s", args[1])
	}
}

func newSubscription(cfg Config, endpoint string) error {
	scalar, public, err := crypto.GenerateP256(nil)
	if err != nil {
		return err
	}
	auth := make([]byte, crypto.AuthSecretSize)
	if _, err := rand.Read(auth); err != nil {
		return err
	}

	return writeJSON(cfg.Stdout, SubscriptionOutput{
		Subscription: webpush.Subscription{
			Endpoint: endpoint,
			Keys: webpush.SubscriptionKeys{
				P256dh: crypto.ToBase64URL(public),
				Auth:   crypto.ToBase64URL(auth),
			},
		},
		PrivateKey: crypto.ToBase64URL(scalar),
	})
}

func encrypt(ctx context.Context, cfg Config) error {
	var in encryptInput
	if err := readJSON(cfg.Stdin, &in); err != nil {
		return err
	}

	var (
		keys *webpush.ApplicationServerKeys
		err  error
	)
	if in.Keys != nil {
		keys, err = webpush.ApplicationServerKeysFromJSON(nil, *in.Keys)
	} else {
		keys, err = webpush.GenerateApplicationServerKeys(nil)
	}
	if err != nil {
		return fmt.Errorf("keys: %w", err)
	}

	contact := in.Contact
	if contact == "" {
		contact = "mailto:testhelper@example.com"
	}

	req, err := webpush.GeneratePushHTTPRequest(ctx, webpush.PushOptions{
		Payload:      []byte(in.Payload),
		Keys:         keys,
		Target:       in.Subscription,
		AdminContact: contact,
	})
	if err != nil {
		return err
	}

	return writeJSON(cfg.Stdout, RequestOutput{
		Endpoint:  req.Endpoint,
		Headers:   req.Headers.Map(),
		Body:      crypto.ToBase64URL(req.Body),
		PublicKey: keys.PublicKeyBase64(),
	})
}

func decrypt(cfg Config) error {
	var in decryptInput
	if err := readJSON(cfg.Stdin, &in); err != nil {
		return err
	}

	scalar, err := crypto.DecodeBase64(in.PrivateKey)
	if err != nil {
		return fmt.Errorf("privateKey: %w", err)
	}
	auth, err := crypto.DecodeBase64(in.Auth)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	sub, err := receiver.NewSubscriber(scalar, auth)
	if err != nil {
		return err
	}

	salt, err := crypto.DecodeBase64(strings.TrimPrefix(header(in.Headers, "Encryption"), "salt="))
	if err != nil {
		return fmt.Errorf("encryption header: %w", err)
	}
	dh, err := crypto.DecodeBase64(cryptoKeyParam(header(in.Headers, "Crypto-Key"), "dh"))
	if err != nil {
		return fmt.Errorf("crypto-key header: %w", err)
	}
	body, err := crypto.DecodeBase64(in.Body)
	if err != nil {
		return fmt.Errorf("body: %w", err)
	}

	payload, pad, err := sub.Decrypt(salt, dh, body)
	if err != nil {
		return err
	}
	return writeJSON(cfg.Stdout, DecryptOutput{Payload: string(payload), PaddingSize: pad})
}

func header(h map[string]string, name string) string {
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func cryptoKeyParam(value, name string) string {
	for _, part := range strings.Split(value, ";") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(part), name+"="); ok {
			return v
		}
	}
	return ""
}

func readJSON(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

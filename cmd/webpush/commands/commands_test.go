package commands

import (
	"bytes"
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsandbox/webpush"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		KeysFile:     filepath.Join(t.TempDir(), "keys.json"),
		AdminContact: "ops@example.com",
		TTL:          webpush.DefaultTTL,
		JWTTTL:       webpush.DefaultJWTTTL,
		HTTPTimeout:  10 * time.Second,
		LogLevel:     "error",
	}
}

func run(t *testing.T, cfg Config, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand(cfg, &out, &errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeSubscription(t *testing.T, endpoint string) string {
	t.Helper()

	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	data, err := json.Marshal(map[string]any{
		"endpoint": endpoint,
		"keys": map[string]string{
			"p256dh": base64.RawURLEncoding.EncodeToString(priv.PublicKey().Bytes()),
			"auth":   base64.RawURLEncoding.EncodeToString(auth),
		},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "subscription.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestKeysCommands(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, cfg, "", "keys", "generate")
	require.NoError(t, err)
	public := strings.TrimSpace(out)
	raw, err := base64.RawURLEncoding.DecodeString(public)
	require.NoError(t, err)
	assert.Len(t, raw, 65)

	_, err = run(t, cfg, "", "keys", "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	out, err = run(t, cfg, "", "keys", "show")
	require.NoError(t, err)
	assert.Equal(t, public, strings.TrimSpace(out))

	out, err = run(t, cfg, "", "keys", "show", "--private")
	require.NoError(t, err)
	var serialized webpush.SerializedKeys
	require.NoError(t, json.Unmarshal([]byte(out), &serialized))
	assert.Equal(t, public, serialized.PublicKey)
	assert.NotEmpty(t, serialized.PrivateKey)

	out, err = run(t, cfg, "", "keys", "generate", "--force")
	require.NoError(t, err)
	assert.NotEqual(t, public, strings.TrimSpace(out))
}

func TestKeysCommands_Sealed(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cfg := testConfig(t)
	keeperURL := "base64key://" + base64.URLEncoding.EncodeToString(key)

	out, err := run(t, cfg, "", "--keeper-url", keeperURL, "keys", "generate")
	require.NoError(t, err)
	public := strings.TrimSpace(out)

	raw, err := os.ReadFile(cfg.KeysFile)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "privateKey")

	out, err = run(t, cfg, "", "--keeper-url", keeperURL, "keys", "show")
	require.NoError(t, err)
	assert.Equal(t, public, strings.TrimSpace(out))

	_, err = run(t, cfg, "", "keys", "show")
	assert.Error(t, err, "sealed file should not load without the keeper")
}

func TestKeysShow_NoKeys(t *testing.T) {
	_, err := run(t, testConfig(t), "", "keys", "show")
	assert.Error(t, err)
}

func TestRequestCommand(t *testing.T) {
	cfg := testConfig(t)
	sub := writeSubscription(t, "https://push.example.com/send/abc")

	out, err := run(t, cfg, "", "request", "--subscription", sub, "--payload", "Hello")
	require.NoError(t, err)

	var got requestOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "https://push.example.com/send/abc", got.Endpoint)

	names := make([]string, 0, len(got.Headers))
	for _, h := range got.Headers {
		names = append(names, h[0])
	}
	assert.Equal(t, []string{"Encryption", "Crypto-Key", "Content-Length", "Content-Type", "Content-Encoding", "TTL", "Authorization"}, names)

	body, err := base64.RawURLEncoding.DecodeString(got.Body)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(body), 2+5+16)

	_, err = os.Stat(cfg.KeysFile)
	assert.NoError(t, err, "keys should be generated on first use")
}

func TestRequestCommand_Stdin(t *testing.T) {
	cfg := testConfig(t)
	data, err := os.ReadFile(writeSubscription(t, "https://push.example.com/send/abc"))
	require.NoError(t, err)

	out, err := run(t, cfg, string(data), "request", "--subscription", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"aesgcm"`)
}

func TestRequestCommand_Errors(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, cfg, "", "request")
	assert.Error(t, err, "subscription flag is required")

	_, err = run(t, cfg, "", "request", "--subscription", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	cfg.AdminContact = ""
	_, err = run(t, cfg, "", "request", "--subscription", writeSubscription(t, "https://push.example.com/x"))
	assert.ErrorIs(t, err, webpush.ErrValidation)
}

func TestSendCommand(t *testing.T) {
	var received http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Clone()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := testConfig(t)
	sub := writeSubscription(t, srv.URL+"/push")

	out, err := run(t, cfg, "", "send", "--subscription", sub, "--payload", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "201", strings.TrimSpace(out))
	assert.Equal(t, "aesgcm", received.Get("Content-Encoding"))
	assert.True(t, strings.HasPrefix(received.Get("Authorization"), "WebPush "))
}

func TestSendCommand_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	cfg := testConfig(t)
	_, err := run(t, cfg, "", "send", "--subscription", writeSubscription(t, srv.URL+"/push"), "--payload", "x")
	assert.ErrorIs(t, err, webpush.ErrPushRejected)
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	cfg := testConfig(t)
	_, err := run(t, cfg, "", "--log-level", "loud", "keys", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}

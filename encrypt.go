package webpush

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vaultsandbox/webpush/internal/crypto"
	"github.com/vaultsandbox/webpush/webcrypto"
)

// Header values fixed by the aesgcm content encoding.
const (
	ContentEncoding = "aesgcm"
	ContentType     = "application/octet-stream"
)

// PushOptions describes one message.
type PushOptions struct {
	// Payload is the plaintext, at most MaxPayloadSize bytes. It may be empty.
	Payload []byte

	// Keys is the sender's VAPID identity.
	Keys *ApplicationServerKeys

	// Target is the recipient subscription.
	Target Subscription

	// AdminContact becomes the VAPID sub claim. A bare e-mail address is
	// turned into a mailto: URI.
	AdminContact string

	// TTL is the TTL header. Zero uses the client default.
	TTL time.Duration

	// JWTTTL is the VAPID token lifetime. Zero uses the client default.
	JWTTTL time.Duration
}

// encrypted is the output of one run of the content encryption.
type encrypted struct {
	ciphertext     []byte
	salt           []byte
	localPublicKey []byte
	paddingSize    int
}

// GeneratePushHTTPRequest encrypts opts.Payload for opts.Target and returns
// the headers and body to POST to the subscription endpoint.
//
// Every call uses a fresh ephemeral key, salt and padding length, so two
// calls never produce the same output. The context is checked between
// steps; a cancelled call returns ctx.Err() and discards its state.
func (c *Client) GeneratePushHTTPRequest(ctx context.Context, opts PushOptions) (*PushRequest, error) {
	if opts.Keys == nil {
		return nil, validationErr("applicationServerKeys", "is required")
	}
	if err := opts.Target.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Payload) > MaxPayloadSize {
		return nil, validationErr("payload", fmt.Sprintf("is %d bytes, at most %d allowed", len(opts.Payload), MaxPayloadSize))
	}

	claims, err := vapidClaims(opts.Target.Endpoint, opts.AdminContact)
	if err != nil {
		return nil, err
	}
	if err := claims.Validate(); err != nil {
		return nil, err
	}

	ttl := opts.TTL
	if ttl == 0 {
		ttl = c.ttl
	}
	if ttl < 0 {
		return nil, validationErr("ttl", "must not be negative")
	}

	jwtTTL := opts.JWTTTL
	if jwtTTL <= 0 {
		jwtTTL = c.jwtTTL
	}

	enc, err := c.encrypt(ctx, opts.Target.Keys, opts.Payload)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, err := createJWT(c.provider, c.now(), opts.Keys, claims, jwtTTL)
	if err != nil {
		return nil, err
	}

	headers := Headers{
		{Name: "Encryption", Value: "salt=" + crypto.ToBase64URL(enc.salt)},
		{Name: "Crypto-Key", Value: "dh=" + crypto.ToBase64URL(enc.localPublicKey) + "; p256ecdsa=" + opts.Keys.PublicKeyBase64()},
		{Name: "Content-Length", Value: strconv.Itoa(len(enc.ciphertext))},
		{Name: "Content-Type", Value: ContentType},
		{Name: "Content-Encoding", Value: ContentEncoding},
		{Name: "TTL", Value: strconv.FormatInt(int64(ttl/time.Second), 10)},
		{Name: "Authorization", Value: "WebPush " + token},
	}

	c.logger.DebugContext(ctx, "push request built",
		slog.String("audience", claims.Audience),
		slog.Int("payload_size", len(opts.Payload)),
		slog.Int("padding_size", enc.paddingSize),
		slog.Int("body_size", len(enc.ciphertext)),
	)

	return &PushRequest{
		Headers:  headers,
		Body:     enc.ciphertext,
		Endpoint: opts.Target.Endpoint,
	}, nil
}

// encrypt runs the aesgcm content encryption for one message.
func (c *Client) encrypt(ctx context.Context, keys SubscriptionKeys, payload []byte) (*encrypted, error) {
	p := c.provider

	auth, err := crypto.DecodeBase64(keys.Auth)
	if err != nil || len(auth) != crypto.AuthSecretSize {
		return nil, &ValidationError{Field: "keys.auth", Message: "invalid auth length", Err: err}
	}
	defer crypto.Wipe(auth)

	rawClient, err := crypto.DecodeBase64(keys.P256dh)
	if err != nil {
		return nil, &CryptoImportError{Key: "p256dh", Err: err}
	}
	clientKey, err := p.ImportECDHPublicKey(rawClient)
	if err != nil {
		return nil, &CryptoImportError{Key: "p256dh", Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	local, err := p.GenerateECDHKeyPair()
	if err != nil {
		return nil, operationErr("generate ecdh key", err)
	}
	defer local.Destroy()

	shared, err := p.DeriveECDHBits(local, clientKey, crypto.P256SharedSecretSize*8)
	if err != nil {
		return nil, operationErr("ecdh", err)
	}
	defer shared.Destroy()

	prkBits, err := p.HKDFDeriveBits(shared, auth, crypto.AuthInfo, crypto.PRKSize*8)
	if err != nil {
		return nil, operationErr("hkdf prk", err)
	}
	prk := webcrypto.NewHKDFKey(prkBits)
	crypto.Wipe(prkBits)
	defer prk.Destroy()

	localPublic, err := p.ExportRawPublicKey(local)
	if err != nil {
		return nil, operationErr("export public key", err)
	}
	clientPublic, err := p.ExportRawPublicKey(clientKey)
	if err != nil {
		return nil, operationErr("export public key", err)
	}
	keyContext := crypto.KeyContext(clientPublic, localPublic)

	salt, err := p.RandomBytes(crypto.SaltSize)
	if err != nil {
		return nil, operationErr("random salt", err)
	}
	if len(salt) != crypto.SaltSize {
		return nil, operationErr("random salt", fmt.Errorf("got %d bytes, want %d", len(salt), crypto.SaltSize))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nonce, err := p.HKDFDeriveBits(prk, salt, crypto.Concat(crypto.NonceInfo, keyContext), crypto.AESNonceSize*8)
	if err != nil {
		return nil, operationErr("hkdf nonce", err)
	}
	defer crypto.Wipe(nonce)

	cekBits, err := p.HKDFDeriveBits(prk, salt, crypto.Concat(crypto.CEKInfo, keyContext), crypto.AESKeySize*8)
	if err != nil {
		return nil, operationErr("hkdf cek", err)
	}
	cek, err := webcrypto.NewAESKey(cekBits)
	crypto.Wipe(cekBits)
	if err != nil {
		return nil, operationErr("hkdf cek", err)
	}
	defer cek.Destroy()

	padded, paddingSize := padPayload(payload, c.padding())
	defer crypto.Wipe(padded)

	ciphertext, err := p.AESGCMEncrypt(cek, nonce, padded)
	if err != nil {
		return nil, operationErr("aes-gcm encrypt", err)
	}

	return &encrypted{
		ciphertext:     ciphertext,
		salt:           salt,
		localPublicKey: localPublic,
		paddingSize:    paddingSize,
	}, nil
}

// padPayload prefixes payload with a 16-bit big-endian padding length and
// that many zero bytes. pad is clamped to [0, MaxPaddingSize] and shrunk so
// the result fits MaxPaddedPayloadSize. payload must already fit.
func padPayload(payload []byte, pad int) ([]byte, int) {
	pad = max(0, min(pad, MaxPaddingSize))
	if room := MaxPaddedPayloadSize - 2 - len(payload); pad > room {
		pad = max(0, room)
	}

	padded := make([]byte, 2+pad+len(payload))
	binary.BigEndian.PutUint16(padded, uint16(pad))
	copy(padded[2+pad:], payload)
	return padded, pad
}

// vapidClaims derives aud from the endpoint origin and sub from the
// contact.
func vapidClaims(endpoint, contact string) (Claims, error) {
	aud, err := audience(endpoint)
	if err != nil {
		return Claims{}, err
	}

	contact = strings.TrimSpace(contact)
	if contact == "" {
		return Claims{}, validationErr("adminContact", "is required")
	}
	if !strings.Contains(contact, ":") && strings.Contains(contact, "@") {
		contact = "mailto:" + contact
	}

	return Claims{Audience: aud, Subject: contact}, nil
}

// audience returns the origin of endpoint: lowercased scheme and host, with
// the default port dropped.
func audience(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", &ValidationError{Field: "endpoint", Message: "must be an absolute URL", Err: err}
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "https" && scheme != "http" {
		return "", validationErr("endpoint", "must use http or https")
	}

	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "https" && port == "443") || (scheme == "http" && port == "80") {
		port = ""
	}

	switch {
	case port != "":
		host = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		host = "[" + host + "]"
	}
	return scheme + "://" + host, nil
}

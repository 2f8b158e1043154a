package webpush

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vaultsandbox/webpush/internal/crypto"
	"github.com/vaultsandbox/webpush/webcrypto"
)

// SerializedKeys is the stored form of ApplicationServerKeys. Both fields
// are base64url without padding: the uncompressed public point and the raw
// 32-byte private scalar.
type SerializedKeys struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// ApplicationServerKeys is the sender's VAPID identity: a P-256 key pair
// whose public point is published as the application server key and whose
// private key signs VAPID tokens. It is immutable and safe for concurrent
// use.
type ApplicationServerKeys struct {
	pair      *webcrypto.ECDSAKeyPair
	publicB64 string
}

// GenerateApplicationServerKeys creates a new key pair with p, or with the
// default provider when p is nil.
func GenerateApplicationServerKeys(p webcrypto.Provider) (*ApplicationServerKeys, error) {
	if p == nil {
		p = CryptoProvider()
	}
	p, err := resolveProvider(p)
	if err != nil {
		return nil, err
	}

	pair, err := p.GenerateECDSAKeyPair()
	if err != nil {
		return nil, operationErr("generate ecdsa key", err)
	}

	public, err := p.ExportRawPublicKey(pair)
	if err != nil {
		return nil, operationErr("export public key", err)
	}

	return &ApplicationServerKeys{
		pair:      pair,
		publicB64: crypto.ToBase64URL(public),
	}, nil
}

// ApplicationServerKeysFromJSON reconstructs keys from their stored form
// with p, or with the default provider when p is nil. The private key may
// also be a PKCS#8 or SEC 1 DER export.
func ApplicationServerKeysFromJSON(p webcrypto.Provider, s SerializedKeys) (*ApplicationServerKeys, error) {
	if p == nil {
		p = CryptoProvider()
	}
	p, err := resolveProvider(p)
	if err != nil {
		return nil, err
	}

	if s.PublicKey == "" {
		return nil, validationErr("publicKey", "is required")
	}
	if s.PrivateKey == "" {
		return nil, validationErr("privateKey", "is required")
	}

	public, err := crypto.DecodeBase64(s.PublicKey)
	if err != nil {
		return nil, &ValidationError{Field: "publicKey", Message: "must be base64url", Err: err}
	}

	private, err := crypto.DecodeBase64(s.PrivateKey)
	if err != nil {
		return nil, &ValidationError{Field: "privateKey", Message: "must be base64url", Err: err}
	}
	defer crypto.Wipe(private)

	scalar := private
	if len(private) != crypto.P256ScalarSize {
		scalar, err = crypto.P256ScalarFromDER(private)
		if err != nil {
			return nil, &ValidationError{Field: "privateKey", Message: "must be a raw P-256 scalar or a PKCS#8 key", Err: err}
		}
		defer crypto.Wipe(scalar)
	}

	pair, err := p.ImportECDSAKeyPair(scalar, public)
	switch {
	case err == nil:
	case errors.Is(err, crypto.ErrKeyMismatch):
		return nil, &ValidationError{Field: "publicKey", Message: "does not match private key", Err: err}
	case errors.Is(err, crypto.ErrInvalidPublicKey):
		return nil, &ValidationError{Field: "publicKey", Message: "must be an uncompressed P-256 point", Err: err}
	case errors.Is(err, crypto.ErrInvalidPrivateKey):
		return nil, &ValidationError{Field: "privateKey", Message: "must be a P-256 scalar", Err: err}
	default:
		return nil, operationErr("import ecdsa key", err)
	}

	return &ApplicationServerKeys{
		pair:      pair,
		publicB64: crypto.ToBase64URL(public),
	}, nil
}

// ToJSON returns the stored form of the keys.
func (k *ApplicationServerKeys) ToJSON() SerializedKeys {
	private := k.pair.PrivateKeyBytes()
	defer crypto.Wipe(private)

	return SerializedKeys{
		PublicKey:  k.publicB64,
		PrivateKey: crypto.ToBase64URL(private),
	}
}

// PublicKey returns the uncompressed public point, the value browsers take
// as applicationServerKey.
func (k *ApplicationServerKeys) PublicKey() []byte {
	return k.pair.RawPublicKey()
}

// PublicKeyBase64 returns the base64url public point, as used in the
// p256ecdsa field of Crypto-Key.
func (k *ApplicationServerKeys) PublicKeyBase64() string {
	return k.publicB64
}

// String never includes the private key.
func (k *ApplicationServerKeys) String() string {
	return fmt.Sprintf("ApplicationServerKeys(%s)", k.publicB64)
}

// MarshalJSON implements json.Marshaler with the SerializedKeys shape.
func (k *ApplicationServerKeys) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.ToJSON())
}

// UnmarshalJSON implements json.Unmarshaler using the default provider.
func (k *ApplicationServerKeys) UnmarshalJSON(data []byte) error {
	var s SerializedKeys
	if err := json.Unmarshal(data, &s); err != nil {
		return &ValidationError{Message: "invalid key JSON", Err: err}
	}

	parsed, err := ApplicationServerKeysFromJSON(nil, s)
	if err != nil {
		return err
	}
	*k = *parsed
	return nil
}

// GenerateKeys creates a new key pair with the client's provider.
func (c *Client) GenerateKeys() (*ApplicationServerKeys, error) {
	return GenerateApplicationServerKeys(c.provider)
}

// KeysFromJSON reconstructs keys with the client's provider.
func (c *Client) KeysFromJSON(s SerializedKeys) (*ApplicationServerKeys, error) {
	return ApplicationServerKeysFromJSON(c.provider, s)
}

package webpush

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	validation "github.com/jellydator/validation"

	"github.com/vaultsandbox/webpush/internal/crypto"
	"github.com/vaultsandbox/webpush/webcrypto"
)

// Claims are the caller-supplied VAPID claims. exp is computed from the
// token lifetime.
type Claims struct {
	// Audience is the push service origin, scheme://host[:port].
	Audience string `json:"aud"`
	// Subject is the sender contact, a mailto: or https: URI.
	Subject string `json:"sub"`
}

// Validate checks that aud is an origin and sub a contact URI.
func (c Claims) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Audience, validation.Required, origin),
		validation.Field(&c.Subject, validation.Required, contactURI),
	)
	return fromValidation("", err)
}

// signingMethodProvider signs ES256 tokens through a webcrypto.Provider so
// the private key never leaves the provider's key type.
type signingMethodProvider struct {
	provider webcrypto.Provider
}

func (m *signingMethodProvider) Alg() string {
	return jwt.SigningMethodES256.Alg()
}

func (m *signingMethodProvider) Sign(signingString string, key interface{}) ([]byte, error) {
	pair, ok := key.(*webcrypto.ECDSAKeyPair)
	if !ok {
		return nil, jwt.ErrInvalidKeyType
	}
	return m.provider.Sign(pair, []byte(signingString))
}

func (m *signingMethodProvider) Verify(signingString string, sig []byte, key interface{}) error {
	k, ok := key.(webcrypto.Exportable)
	if !ok {
		return jwt.ErrInvalidKeyType
	}
	if err := crypto.VerifyES256(k.RawPublicKey(), []byte(signingString), sig); err != nil {
		return jwt.ErrTokenSignatureInvalid
	}
	return nil
}

// CreateJWT signs a VAPID token with the default provider. ttl <= 0 uses
// DefaultJWTTTL.
func CreateJWT(keys *ApplicationServerKeys, claims Claims, ttl time.Duration) (string, error) {
	p, err := resolveProvider(CryptoProvider())
	if err != nil {
		return "", err
	}
	return createJWT(p, time.Now(), keys, claims, ttl)
}

// CreateJWT signs a VAPID token with the client's provider and clock.
// ttl <= 0 uses the client's JWT lifetime.
func (c *Client) CreateJWT(keys *ApplicationServerKeys, claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.jwtTTL
	}
	return createJWT(c.provider, c.now(), keys, claims, ttl)
}

func createJWT(p webcrypto.Provider, now time.Time, keys *ApplicationServerKeys, claims Claims, ttl time.Duration) (string, error) {
	if keys == nil {
		return "", validationErr("applicationServerKeys", "is required")
	}
	if err := claims.Validate(); err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultJWTTTL
	}

	token := jwt.NewWithClaims(&signingMethodProvider{provider: p}, jwt.MapClaims{
		"aud": claims.Audience,
		"exp": now.Add(ttl).Unix(),
		"sub": claims.Subject,
	})

	signed, err := token.SignedString(keys.pair)
	if err != nil {
		if errors.Is(err, jwt.ErrInvalidKeyType) {
			return "", &ConfigurationError{Message: "provider cannot sign with application server keys"}
		}
		return "", operationErr("sign", err)
	}
	return signed, nil
}

// Package receiver decrypts aesgcm push messages the way a user agent does.
// It backs interop tooling and tests; senders never need it.
package receiver

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vaultsandbox/webpush/internal/crypto"
)

var (
	// ErrInvalidSalt is returned when the salt is not 16 bytes.
	ErrInvalidSalt = errors.New("receiver: salt must be 16 bytes")
	// ErrInvalidAuth is returned when the auth secret is not 16 bytes.
	ErrInvalidAuth = errors.New("receiver: auth secret must be 16 bytes")
	// ErrInvalidPadding is returned when the padding prefix is malformed.
	ErrInvalidPadding = errors.New("receiver: invalid padding")
)

// Subscriber holds the user agent side of a subscription.
type Subscriber struct {
	scalar []byte
	public []byte
	auth   []byte
}

// NewSubscriber validates a P-256 private scalar and auth secret.
func NewSubscriber(scalar, auth []byte) (*Subscriber, error) {
	if len(auth) != crypto.AuthSecretSize {
		return nil, ErrInvalidAuth
	}
	public, err := crypto.P256PublicKey(scalar)
	if err != nil {
		return nil, err
	}
	return &Subscriber{
		scalar: append([]byte(nil), scalar...),
		public: public,
		auth:   append([]byte(nil), auth...),
	}, nil
}

// PublicKey returns the uncompressed p256dh point.
func (s *Subscriber) PublicKey() []byte {
	return append([]byte(nil), s.public...)
}

// Auth returns the auth secret.
func (s *Subscriber) Auth() []byte {
	return append([]byte(nil), s.auth...)
}

// Decrypt opens body using the salt from the Encryption header and the
// sender's ephemeral dh key. It returns the payload and the padding length.
func (s *Subscriber) Decrypt(salt, senderPublic, body []byte) ([]byte, int, error) {
	if len(salt) != crypto.SaltSize {
		return nil, 0, ErrInvalidSalt
	}

	shared, err := crypto.SharedSecret(s.scalar, senderPublic)
	if err != nil {
		return nil, 0, err
	}
	defer crypto.Wipe(shared)

	prk, err := crypto.DeriveKey(shared, s.auth, crypto.AuthInfo, crypto.PRKSize)
	if err != nil {
		return nil, 0, err
	}
	defer crypto.Wipe(prk)

	keyContext := crypto.KeyContext(s.public, senderPublic)
	nonce, err := crypto.DeriveKey(prk, salt, crypto.Concat(crypto.NonceInfo, keyContext), crypto.AESNonceSize)
	if err != nil {
		return nil, 0, err
	}
	cek, err := crypto.DeriveKey(prk, salt, crypto.Concat(crypto.CEKInfo, keyContext), crypto.AESKeySize)
	if err != nil {
		return nil, 0, err
	}
	defer crypto.Wipe(cek)

	padded, err := crypto.DecryptAESGCM(cek, nonce, body)
	if err != nil {
		return nil, 0, err
	}
	return unpad(padded)
}

func unpad(padded []byte) ([]byte, int, error) {
	if len(padded) < 2 {
		return nil, 0, fmt.Errorf("%w: %d bytes", ErrInvalidPadding, len(padded))
	}
	pad := int(binary.BigEndian.Uint16(padded))
	if 2+pad > len(padded) {
		return nil, 0, fmt.Errorf("%w: length %d exceeds plaintext", ErrInvalidPadding, pad)
	}
	for _, b := range padded[2 : 2+pad] {
		if b != 0 {
			return nil, 0, fmt.Errorf("%w: non-zero padding byte", ErrInvalidPadding)
		}
	}
	return padded[2+pad:], pad, nil
}

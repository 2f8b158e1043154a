package webcrypto

import (
	"bytes"
	"fmt"

	"github.com/vaultsandbox/webpush/internal/crypto"
)

// Exportable is implemented by every key that carries a P-256 public point.
type Exportable interface {
	RawPublicKey() []byte
}

// ECDHPublicKey is a P-256 public point usable as an ECDH peer.
type ECDHPublicKey struct {
	raw []byte
}

// NewECDHPublicKey wraps an uncompressed SEC1 point. Only the encoding shape
// is checked here; providers validate the point when importing.
func NewECDHPublicKey(raw []byte) (*ECDHPublicKey, error) {
	if len(raw) != crypto.P256PublicKeySize || raw[0] != 0x04 {
		return nil, fmt.Errorf("%w: expected %d-byte uncompressed point", crypto.ErrInvalidPublicKey, crypto.P256PublicKeySize)
	}
	return &ECDHPublicKey{raw: bytes.Clone(raw)}, nil
}

// RawPublicKey returns a copy of the uncompressed point.
func (k *ECDHPublicKey) RawPublicKey() []byte {
	return bytes.Clone(k.raw)
}

// Bytes is an alias for RawPublicKey.
func (k *ECDHPublicKey) Bytes() []byte {
	return k.RawPublicKey()
}

// ECDHPrivateKey is an ephemeral P-256 key used only for key agreement.
type ECDHPrivateKey struct {
	scalar []byte
	public *ECDHPublicKey
}

// NewECDHPrivateKey builds a private key from a raw 32-byte scalar and
// derives its public point.
func NewECDHPrivateKey(scalar []byte) (*ECDHPrivateKey, error) {
	public, err := crypto.P256PublicKey(scalar)
	if err != nil {
		return nil, err
	}
	return &ECDHPrivateKey{
		scalar: bytes.Clone(scalar),
		public: &ECDHPublicKey{raw: public},
	}, nil
}

// PublicKey returns the public half of the key.
func (k *ECDHPrivateKey) PublicKey() *ECDHPublicKey {
	return k.public
}

// RawPublicKey returns a copy of the uncompressed public point.
func (k *ECDHPrivateKey) RawPublicKey() []byte {
	return k.public.RawPublicKey()
}

// Scalar returns a copy of the private scalar.
func (k *ECDHPrivateKey) Scalar() []byte {
	return bytes.Clone(k.scalar)
}

// Destroy zeroes the private scalar. The key must not be used afterwards.
func (k *ECDHPrivateKey) Destroy() {
	crypto.Wipe(k.scalar)
	k.scalar = nil
}

// ECDSAKeyPair is a long-lived P-256 signing key with its public point.
type ECDSAKeyPair struct {
	scalar []byte
	public []byte
}

// NewECDSAKeyPair pairs a raw 32-byte scalar with its uncompressed public
// point. It fails with crypto.ErrKeyMismatch when the two do not belong
// together.
func NewECDSAKeyPair(scalar, public []byte) (*ECDSAKeyPair, error) {
	if err := crypto.ValidateP256Pair(scalar, public); err != nil {
		return nil, err
	}
	return &ECDSAKeyPair{
		scalar: bytes.Clone(scalar),
		public: bytes.Clone(public),
	}, nil
}

// RawPublicKey returns a copy of the uncompressed public point.
func (k *ECDSAKeyPair) RawPublicKey() []byte {
	return bytes.Clone(k.public)
}

// PrivateKeyBytes returns a copy of the raw private scalar.
func (k *ECDSAKeyPair) PrivateKeyBytes() []byte {
	return bytes.Clone(k.scalar)
}

// HKDFKey is input keying material. It can only be fed to
// [Provider.HKDFDeriveBits].
type HKDFKey struct {
	secret []byte
}

// NewHKDFKey copies secret into a derivation-only key.
func NewHKDFKey(secret []byte) *HKDFKey {
	return &HKDFKey{secret: bytes.Clone(secret)}
}

// Destroy zeroes the key material.
func (k *HKDFKey) Destroy() {
	crypto.Wipe(k.secret)
	k.secret = nil
}

// AESKey is an AES-128-GCM content encryption key.
type AESKey struct {
	key []byte
}

// NewAESKey copies a 16-byte key.
func NewAESKey(key []byte) (*AESKey, error) {
	if len(key) != crypto.AESKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidAESKey, len(key), crypto.AESKeySize)
	}
	return &AESKey{key: bytes.Clone(key)}, nil
}

// Destroy zeroes the key material.
func (k *AESKey) Destroy() {
	crypto.Wipe(k.key)
	k.key = nil
}

package webcrypto

import (
	cryptorand "crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/vaultsandbox/webpush/internal/crypto"
)

// Standard implements [Provider] with the Go standard library and
// golang.org/x/crypto/hkdf.
type Standard struct {
	// Rand is the entropy source. Nil means crypto/rand.
	Rand io.Reader
}

// NewStandard returns a Standard provider reading from crypto/rand.
func NewStandard() *Standard {
	return &Standard{}
}

var _ Provider = (*Standard)(nil)

func (p *Standard) rand() io.Reader {
	if p == nil || p.Rand == nil {
		return cryptorand.Reader
	}
	return p.Rand
}

// GenerateECDHKeyPair implements [Provider].
func (p *Standard) GenerateECDHKeyPair() (*ECDHPrivateKey, error) {
	scalar, public, err := crypto.GenerateP256(p.rand())
	if err != nil {
		return nil, err
	}
	return &ECDHPrivateKey{scalar: scalar, public: &ECDHPublicKey{raw: public}}, nil
}

// ImportECDHPrivateKey reconstructs an agreement key from a raw scalar.
func (p *Standard) ImportECDHPrivateKey(scalar []byte) (*ECDHPrivateKey, error) {
	return NewECDHPrivateKey(scalar)
}

// GenerateECDSAKeyPair implements [Provider].
func (p *Standard) GenerateECDSAKeyPair() (*ECDSAKeyPair, error) {
	scalar, public, err := crypto.GenerateP256(p.rand())
	if err != nil {
		return nil, err
	}
	return &ECDSAKeyPair{scalar: scalar, public: public}, nil
}

// ImportECDHPublicKey implements [Provider].
func (p *Standard) ImportECDHPublicKey(raw []byte) (*ECDHPublicKey, error) {
	if err := crypto.ValidateP256Point(raw); err != nil {
		return nil, err
	}
	return &ECDHPublicKey{raw: append([]byte(nil), raw...)}, nil
}

// ImportECDSAKeyPair implements [Provider].
func (p *Standard) ImportECDSAKeyPair(scalar, public []byte) (*ECDSAKeyPair, error) {
	return NewECDSAKeyPair(scalar, public)
}

// DeriveECDHBits implements [Provider].
func (p *Standard) DeriveECDHBits(priv *ECDHPrivateKey, peer *ECDHPublicKey, bitLength int) (*HKDFKey, error) {
	if priv == nil || peer == nil || priv.scalar == nil {
		return nil, ErrNilKey
	}
	n, err := byteLength(bitLength, crypto.P256SharedSecretSize)
	if err != nil {
		return nil, err
	}

	shared, err := crypto.SharedSecret(priv.scalar, peer.raw)
	if err != nil {
		return nil, err
	}
	return &HKDFKey{secret: shared[:n]}, nil
}

// HKDFDeriveBits implements [Provider].
func (p *Standard) HKDFDeriveBits(base *HKDFKey, salt, info []byte, bitLength int) ([]byte, error) {
	if base == nil || base.secret == nil {
		return nil, ErrNilKey
	}
	if bitLength <= 0 || bitLength%8 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBitLength, bitLength)
	}
	return crypto.DeriveKey(base.secret, salt, info, bitLength/8)
}

// Sign implements [Provider].
func (p *Standard) Sign(key *ECDSAKeyPair, data []byte) ([]byte, error) {
	if key == nil || key.scalar == nil {
		return nil, ErrNilKey
	}
	return crypto.SignES256(p.rand(), key.scalar, data)
}

// AESGCMEncrypt implements [Provider].
func (p *Standard) AESGCMEncrypt(key *AESKey, iv, plaintext []byte) ([]byte, error) {
	if key == nil || key.key == nil {
		return nil, ErrNilKey
	}
	return crypto.EncryptAESGCM(key.key, iv, plaintext)
}

// RandomBytes implements [Provider].
func (p *Standard) RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidBitLength, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(p.rand(), b); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
		}
		return nil, err
	}
	return b, nil
}

// ExportRawPublicKey implements [Provider].
func (p *Standard) ExportRawPublicKey(key Exportable) ([]byte, error) {
	if key == nil {
		return nil, ErrNilKey
	}
	raw := key.RawPublicKey()
	if len(raw) != crypto.P256PublicKeySize {
		return nil, fmt.Errorf("%w: %d bytes", crypto.ErrInvalidPublicKey, len(raw))
	}
	return raw, nil
}

// byteLength converts a bit length into bytes, bounded by max.
func byteLength(bitLength, max int) (int, error) {
	if bitLength <= 0 || bitLength%8 != 0 || bitLength/8 > max {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBitLength, bitLength)
	}
	return bitLength / 8, nil
}

package webcrypto

import (
	"fmt"

	"github.com/cloudflare/circl/group"

	"github.com/vaultsandbox/webpush/internal/crypto"
)

// Circl implements [Provider] with ECDH on the circl P-256 group. Signing,
// derivation and encryption are inherited from the embedded [Standard].
type Circl struct {
	Standard
}

// NewCircl returns a Circl provider reading from crypto/rand.
func NewCircl() *Circl {
	return &Circl{}
}

var _ Provider = (*Circl)(nil)

// GenerateECDHKeyPair implements [Provider].
func (p *Circl) GenerateECDHKeyPair() (*ECDHPrivateKey, error) {
	k := group.P256.RandomNonZeroScalar(p.rand())

	scalar, err := k.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode scalar: %w", err)
	}

	public, err := group.P256.NewElement().MulGen(k).MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode point: %w", err)
	}

	return &ECDHPrivateKey{scalar: scalar, public: &ECDHPublicKey{raw: public}}, nil
}

// ImportECDHPublicKey implements [Provider].
func (p *Circl) ImportECDHPublicKey(raw []byte) (*ECDHPublicKey, error) {
	if len(raw) != crypto.P256PublicKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", crypto.ErrInvalidPublicKey, len(raw), crypto.P256PublicKeySize)
	}

	el := group.P256.NewElement()
	if err := el.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", crypto.ErrInvalidPublicKey, err)
	}
	if el.IsIdentity() {
		return nil, fmt.Errorf("%w: point at infinity", crypto.ErrInvalidPublicKey)
	}

	return &ECDHPublicKey{raw: append([]byte(nil), raw...)}, nil
}

// DeriveECDHBits implements [Provider].
func (p *Circl) DeriveECDHBits(priv *ECDHPrivateKey, peer *ECDHPublicKey, bitLength int) (*HKDFKey, error) {
	if priv == nil || peer == nil || priv.scalar == nil {
		return nil, ErrNilKey
	}
	n, err := byteLength(bitLength, crypto.P256SharedSecretSize)
	if err != nil {
		return nil, err
	}

	k := group.P256.NewScalar()
	if err := k.UnmarshalBinary(priv.scalar); err != nil {
		return nil, fmt.Errorf("%w: %v", crypto.ErrInvalidPrivateKey, err)
	}

	el := group.P256.NewElement()
	if err := el.UnmarshalBinary(peer.raw); err != nil {
		return nil, fmt.Errorf("%w: %v", crypto.ErrInvalidPublicKey, err)
	}

	point, err := group.P256.NewElement().Mul(el, k).MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode shared point: %w", err)
	}
	if len(point) != crypto.P256PublicKeySize {
		return nil, fmt.Errorf("%w: degenerate shared point", crypto.ErrInvalidPublicKey)
	}

	// x coordinate only.
	secret := append([]byte(nil), point[1:1+n]...)
	crypto.Wipe(point)
	return &HKDFKey{secret: secret}, nil
}

package crypto

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	cryptorand "crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"crypto/x509"
	"fmt"
	"io"
	"math/big"
)

// GenerateP256 creates a new P-256 scalar and its uncompressed public point.
// A nil reader uses crypto/rand.
func GenerateP256(rand io.Reader) (scalar, public []byte, err error) {
	if rand == nil {
		rand = cryptorand.Reader
	}

	priv, err := ecdh.P256().GenerateKey(rand)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate P-256 key: %w", err)
	}

	return priv.Bytes(), priv.PublicKey().Bytes(), nil
}

// P256PublicKey derives the uncompressed public point for a scalar.
func P256PublicKey(scalar []byte) ([]byte, error) {
	if len(scalar) != P256ScalarSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPrivateKey, len(scalar), P256ScalarSize)
	}

	priv, err := ecdh.P256().NewPrivateKey(scalar)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	return priv.PublicKey().Bytes(), nil
}

// ValidateP256Point checks that public is an uncompressed point on P-256
// other than the point at infinity.
func ValidateP256Point(public []byte) error {
	if len(public) != P256PublicKeySize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPublicKey, len(public), P256PublicKeySize)
	}

	if _, err := ecdh.P256().NewPublicKey(public); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	return nil
}

// ValidateP256Pair checks that public is the point belonging to scalar.
func ValidateP256Pair(scalar, public []byte) error {
	derived, err := P256PublicKey(scalar)
	if err != nil {
		return err
	}

	if err := ValidateP256Point(public); err != nil {
		return err
	}

	if subtle.ConstantTimeCompare(derived, public) != 1 {
		return ErrKeyMismatch
	}

	return nil
}

// SharedSecret computes the ECDH shared secret (the x coordinate of
// scalar * peer).
func SharedSecret(scalar, peer []byte) ([]byte, error) {
	priv, err := ecdh.P256().NewPrivateKey(scalar)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	pub, err := ecdh.P256().NewPublicKey(peer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	return priv.ECDH(pub)
}

// SignES256 signs data with ECDSA P-256 over SHA-256 and returns the raw
// 64-byte r||s signature used by JWS.
func SignES256(rand io.Reader, scalar, data []byte) ([]byte, error) {
	if rand == nil {
		rand = cryptorand.Reader
	}

	priv, err := ecdsa.ParseRawPrivateKey(elliptic.P256(), scalar)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	digest := sha256.Sum256(data)
	r, s, err := ecdsa.Sign(rand, priv, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}

	// r and s are left padded to 32 bytes each.
	sig := make([]byte, ES256SignatureSize)
	r.FillBytes(sig[:ES256SignatureSize/2])
	s.FillBytes(sig[ES256SignatureSize/2:])

	return sig, nil
}

// VerifyES256 verifies a raw r||s ES256 signature against an uncompressed
// P-256 public key.
func VerifyES256(public, data, sig []byte) error {
	if len(sig) != ES256SignatureSize {
		return fmt.Errorf("%w: signature is %d bytes, want %d", ErrSignatureVerificationFailed, len(sig), ES256SignatureSize)
	}

	pub, err := ecdsa.ParseUncompressedPublicKey(elliptic.P256(), public)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	r := new(big.Int).SetBytes(sig[:ES256SignatureSize/2])
	s := new(big.Int).SetBytes(sig[ES256SignatureSize/2:])
	digest := sha256.Sum256(data)

	if !ecdsa.Verify(pub, digest[:], r, s) {
		return ErrSignatureVerificationFailed
	}

	return nil
}

// P256ScalarFromDER extracts the raw scalar from a PKCS#8 or SEC 1 DER
// encoded P-256 private key.
func P256ScalarFromDER(der []byte) ([]byte, error) {
	var priv *ecdsa.PrivateKey

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err == nil {
		var ok bool
		priv, ok = key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: PKCS#8 key is %T, not ECDSA", ErrInvalidPrivateKey, key)
		}
	} else {
		priv, err = x509.ParseECPrivateKey(der)
		if err != nil {
			return nil, fmt.Errorf("%w: not a PKCS#8 or SEC 1 key", ErrInvalidPrivateKey)
		}
	}

	if priv.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: curve %s, want P-256", ErrInvalidPrivateKey, priv.Curve.Params().Name)
	}

	scalar, err := priv.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return scalar, nil
}

package crypto

import "errors"

var (
	// ErrInvalidPublicKey is returned when bytes do not encode a P-256 point.
	ErrInvalidPublicKey = errors.New("invalid P-256 public key")

	// ErrInvalidPrivateKey is returned when bytes do not encode a P-256 scalar.
	ErrInvalidPrivateKey = errors.New("invalid P-256 private key")

	// ErrKeyMismatch is returned when a public key does not belong to the
	// private key it was paired with.
	ErrKeyMismatch = errors.New("public key does not match private key")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrDecryptionFailed is returned when decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidLength is returned when a requested derivation length is not
	// a positive whole number of bytes.
	ErrInvalidLength = errors.New("invalid derivation length")

	// ErrSignatureVerificationFailed is returned when signature verification fails.
	ErrSignatureVerificationFailed = errors.New("signature verification failed")
)

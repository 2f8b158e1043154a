package webcrypto

import "errors"

var (
	// ErrNilKey is returned when a nil key is passed to a provider.
	ErrNilKey = errors.New("nil key")

	// ErrInvalidBitLength is returned when a requested bit length is not a
	// positive multiple of 8 or exceeds what the operation can produce.
	ErrInvalidBitLength = errors.New("invalid bit length")

	// ErrInvalidAESKey is returned when AES key material has the wrong size.
	ErrInvalidAESKey = errors.New("invalid AES key")

	// ErrShortRead is returned when the random source produced fewer bytes
	// than requested.
	ErrShortRead = errors.New("random source exhausted")
)

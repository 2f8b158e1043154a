package webcrypto

// Provider is the capability set the push pipeline needs. Implementations
// must be safe for concurrent use.
type Provider interface {
	// GenerateECDHKeyPair creates a single-use P-256 agreement key.
	GenerateECDHKeyPair() (*ECDHPrivateKey, error)

	// GenerateECDSAKeyPair creates a P-256 signing key.
	GenerateECDSAKeyPair() (*ECDSAKeyPair, error)

	// ImportECDHPublicKey validates an uncompressed P-256 point.
	ImportECDHPublicKey(raw []byte) (*ECDHPublicKey, error)

	// ImportECDSAKeyPair reconstructs a signing key from a raw scalar and
	// its uncompressed public point.
	ImportECDSAKeyPair(scalar, public []byte) (*ECDSAKeyPair, error)

	// DeriveECDHBits runs ECDH and returns the first bitLength bits of the
	// shared secret as derivation-only key material.
	DeriveECDHBits(priv *ECDHPrivateKey, peer *ECDHPublicKey, bitLength int) (*HKDFKey, error)

	// HKDFDeriveBits runs HKDF-SHA-256 over base.
	HKDFDeriveBits(base *HKDFKey, salt, info []byte, bitLength int) ([]byte, error)

	// Sign returns a raw r||s ES256 signature over data.
	Sign(key *ECDSAKeyPair, data []byte) ([]byte, error)

	// AESGCMEncrypt encrypts with AES-GCM and no additional data. The tag is
	// appended to the ciphertext.
	AESGCMEncrypt(key *AESKey, iv, plaintext []byte) ([]byte, error)

	// RandomBytes returns n bytes from a CSPRNG.
	RandomBytes(n int) ([]byte, error)

	// ExportRawPublicKey returns the uncompressed public point of key.
	ExportRawPublicKey(key Exportable) ([]byte, error)
}

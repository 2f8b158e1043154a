package crypto

const (
	// CurveName is the curve label embedded in the key derivation context.
	CurveName = "P-256"

	// P256PublicKeySize is the size of an uncompressed SEC1 P-256 point.
	P256PublicKeySize = 65
	// P256ScalarSize is the size of a P-256 private scalar.
	P256ScalarSize = 32
	// P256SharedSecretSize is the size of the ECDH shared secret (the x coordinate).
	P256SharedSecretSize = 32
	// ES256SignatureSize is the size of a raw r||s ES256 signature.
	ES256SignatureSize = 64

	// AuthSecretSize is the size of the subscription auth secret.
	AuthSecretSize = 16
	// SaltSize is the size of the per-message salt.
	SaltSize = 16
	// PRKSize is the size of the pseudorandom key derived from the shared secret.
	PRKSize = 32

	// AESKeySize is the size of an AES-128 content encryption key in bytes.
	AESKeySize = 16
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16
)

// HKDF info labels. Each is NUL terminated on the wire.
var (
	AuthInfo  = []byte("Content-Encoding: auth\x00")
	NonceInfo = []byte("Content-Encoding: nonce\x00")
	CEKInfo   = []byte("Content-Encoding: aesgcm\x00")
)

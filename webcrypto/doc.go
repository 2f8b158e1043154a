// Package webcrypto defines the cryptographic capability set used by the
// webpush pipeline and its default implementations.
//
// Keys are distinct types per role so that, for example, an [HKDFKey]
// produced by ECDH cannot be handed to [Provider.AESGCMEncrypt], and an
// [ECDHPrivateKey] cannot be used to sign.
//
// Two adapters are provided:
//
//   - [Standard] uses crypto/ecdh, crypto/ecdsa, crypto/aes and
//     golang.org/x/crypto/hkdf.
//   - [Circl] performs the ECDH operations on the P-256 group from
//     github.com/cloudflare/circl and delegates everything else to
//     [Standard].
//
// Package webcryptotest provides a deterministic provider for fixture tests.
package webcrypto

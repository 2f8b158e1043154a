// Package crypto provides the low-level primitives behind the Web Push
// message encryption scheme (the "aesgcm" content encoding) and VAPID
// request signing.
//
// # Algorithm Suite
//
//   - ECDH on NIST P-256: agreement between the application server's
//     ephemeral key and the subscription's p256dh key. Public keys are the
//     65-byte uncompressed SEC1 encoding.
//
//   - HKDF-SHA-256 (RFC 5869): derives the pseudorandom key from the shared
//     secret and the subscription auth secret, then the nonce and the content
//     encryption key from the pseudorandom key and the per-message salt.
//
//   - AES-128-GCM: encrypts the padded payload. The 16-byte tag is appended
//     to the ciphertext and no additional data is authenticated.
//
//   - ECDSA P-256 with SHA-256 (ES256): signs VAPID tokens. Signatures use
//     the fixed-width r||s form required by JWS, never ASN.1 DER.
//
// # Security Notes
//
// A salt and an ephemeral key MUST NOT be reused across two messages. The
// nonce and key are derived from both, so reuse repeats the AES-GCM nonce
// under the same key, which breaks confidentiality and integrity.
//
// Derived secrets should be released with [Wipe] once they are no longer
// needed.
//
// # Base64 Encoding
//
// Every protocol value (keys, salts, signatures, token segments) is encoded
// with [ToBase64URL]: URL-safe alphabet, no padding (RFC 4648 §5).
// [DecodeBase64] accepts the padded and standard-alphabet variants too, since
// subscriptions produced by different user agents are not consistent.
package crypto

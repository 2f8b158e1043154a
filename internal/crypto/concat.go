package crypto

import "encoding/binary"

// Concat joins byte slices into a newly allocated slice.
func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// AppendLengthPrefixed appends a 16-bit big-endian length followed by data.
func AppendLengthPrefixed(dst, data []byte) []byte {
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(data)))
	return append(dst, data...)
}

// KeyContext builds the derivation context shared by the nonce and CEK info
// strings:
//
//	"P-256" || 0x00 || len(client) || client || len(server) || server
//
// Both lengths are 16-bit big-endian.
func KeyContext(clientPublicKey, serverPublicKey []byte) []byte {
	ctx := make([]byte, 0, len(CurveName)+1+2+len(clientPublicKey)+2+len(serverPublicKey))
	ctx = append(ctx, CurveName...)
	ctx = append(ctx, 0x00)
	ctx = AppendLengthPrefixed(ctx, clientPublicKey)
	ctx = AppendLengthPrefixed(ctx, serverPublicKey)
	return ctx
}

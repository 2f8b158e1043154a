package webpush

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/vaultsandbox/webpush/internal/crypto"
)

// Client key pair: scalar 0x01..0x20. Local key pair: scalar 0x21..0x40.
const (
	testClientScalar = "AQIDBAUGBwgJCgsMDQ4PEBESExQVFhcYGRobHB0eHyA"
	testClientPublic = "BFFcPW6545a5BNP-yn9U_c0MwemXvzddylFa0KbDtANfRTa-OlDzGPv5pUdZAqIhUCvvDVfgjFOyzApW8X2fk1Q"
	testLocalScalar  = "ISIjJCUmJygpKissLS4vMDEyMzQ1Njc4OTo7PD0-P0A"
	testLocalPublic  = "BB8UAUa_sbJR-E9N2-DUzc_Xev2YSpUg41eUAh-DErue7JlaCLH6dwTfPcwLUKlmUmP7dxH5X5-KRJxQluR8iSs"
	testAuth         = "EBESExQVFhcYGRobHB0eHw"
	testSalt         = "oKGio6SlpqeoqaqrrK2urw"
	testNonceHex     = "7bc021e36128a3178f8289c0"
	testCEKHex       = "adb91d1bd1ecffd868f1d07887b0bf20"

	// VAPID identity in raw and PKCS#8 form.
	testVAPIDPublic  = "BMf2aoDR-3RFmyZotqsvjDUQxxxqTXCsuI9RDQ-TQXxLCPO0myKSawoVcQApPsRSNgpKEf-kYgAu0oK6WwIpEXI"
	testVAPIDPrivate = "nam-YxVQY8a4JimkVh6Y_Pwgup3nsNFaGbcIBJvdhPA"
	testVAPIDPKCS8   = "MIGHAgEAMBMGByqGSM49AgEGCCqGSM49AwEHBG0wawIBAQQgnam-YxVQY8a4JimkVh6Y_Pwgup3nsNFaGbcIBJvdhPChRANCAATH9mqA0ft0RZsmaLarL4w1EMccak1wrLiPUQ0Pk0F8SwjztJsikmsKFXEAKT7EUjYKShH_pGIALtKCulsCKRFy"

	testEndpoint = "https://fcm.googleapis.com/fcm/send/abc123"
)

func testSubscription() Subscription {
	return Subscription{
		Endpoint: testEndpoint,
		Keys: SubscriptionKeys{
			P256dh: testClientPublic,
			Auth:   testAuth,
		},
	}
}

func testKeys(t *testing.T) *ApplicationServerKeys {
	t.Helper()
	keys, err := ApplicationServerKeysFromJSON(nil, SerializedKeys{
		PublicKey:  testVAPIDPublic,
		PrivateKey: testVAPIDPrivate,
	})
	if err != nil {
		t.Fatalf("ApplicationServerKeysFromJSON() error = %v", err)
	}
	return keys
}

func mustDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := crypto.DecodeBase64(s)
	if err != nil {
		t.Fatalf("DecodeBase64(%q) error = %v", s, err)
	}
	return b
}

// cryptoKeyField extracts name=value from a "dh=..; p256ecdsa=.." header.
func cryptoKeyField(header, name string) string {
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, name+"="); ok {
			return v
		}
	}
	return ""
}

// decryptPush reverses the aesgcm encoding from the recipient side and
// returns the payload and the padding length.
func decryptPush(t *testing.T, req *PushRequest, clientScalarB64, authB64 string) ([]byte, int) {
	t.Helper()

	clientScalar := mustDecode(t, clientScalarB64)
	auth := mustDecode(t, authB64)

	salt := mustDecode(t, strings.TrimPrefix(req.Headers.Get("Encryption"), "salt="))
	localPublic := mustDecode(t, cryptoKeyField(req.Headers.Get("Crypto-Key"), "dh"))

	clientPublic, err := crypto.P256PublicKey(clientScalar)
	if err != nil {
		t.Fatal(err)
	}
	shared, err := crypto.SharedSecret(clientScalar, localPublic)
	if err != nil {
		t.Fatalf("SharedSecret() error = %v", err)
	}

	prk, err := crypto.DeriveKey(shared, auth, crypto.AuthInfo, crypto.PRKSize)
	if err != nil {
		t.Fatal(err)
	}
	keyContext := crypto.KeyContext(clientPublic, localPublic)
	nonce, err := crypto.DeriveKey(prk, salt, crypto.Concat(crypto.NonceInfo, keyContext), crypto.AESNonceSize)
	if err != nil {
		t.Fatal(err)
	}
	cek, err := crypto.DeriveKey(prk, salt, crypto.Concat(crypto.CEKInfo, keyContext), crypto.AESKeySize)
	if err != nil {
		t.Fatal(err)
	}

	padded, err := crypto.DecryptAESGCM(cek, nonce, req.Body)
	if err != nil {
		t.Fatalf("DecryptAESGCM() error = %v", err)
	}
	if len(padded) < 2 {
		t.Fatalf("padded plaintext too short: %d", len(padded))
	}

	pad := int(binary.BigEndian.Uint16(padded))
	if 2+pad > len(padded) {
		t.Fatalf("padding length %d exceeds plaintext %d", pad, len(padded))
	}
	for i, b := range padded[2 : 2+pad] {
		if b != 0 {
			t.Fatalf("padding byte %d = %#x, want 0", i, b)
		}
	}
	return padded[2+pad:], pad
}

func fixedPadding(n int) PaddingSource {
	return func() int { return n }
}

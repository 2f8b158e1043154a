package webpush

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vaultsandbox/webpush/internal/crypto"
	"github.com/vaultsandbox/webpush/webcrypto"
	"github.com/vaultsandbox/webpush/webcrypto/webcryptotest"
)

func TestGenerateApplicationServerKeys(t *testing.T) {
	keys, err := GenerateApplicationServerKeys(nil)
	if err != nil {
		t.Fatalf("GenerateApplicationServerKeys() error = %v", err)
	}

	public := keys.PublicKey()
	if len(public) != crypto.P256PublicKeySize || public[0] != 0x04 {
		t.Errorf("public key is not an uncompressed point: %x", public)
	}
	if keys.PublicKeyBase64() != crypto.ToBase64URL(public) {
		t.Error("PublicKeyBase64() does not match PublicKey()")
	}

	s := keys.ToJSON()
	if len(mustDecode(t, s.PrivateKey)) != crypto.P256ScalarSize {
		t.Errorf("private key is not a raw scalar: %q", s.PrivateKey)
	}
	if strings.ContainsAny(s.PublicKey+s.PrivateKey, "+/=") {
		t.Error("serialized keys are not unpadded base64url")
	}
}

func TestGenerateApplicationServerKeys_ProviderFailure(t *testing.T) {
	_, err := GenerateApplicationServerKeys(webcryptotest.NewFailing(webcryptotest.OpGenerateECDSA))

	var opErr *CryptoOperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected *CryptoOperationError, got %T: %v", err, err)
	}
	if !errors.Is(err, webcryptotest.ErrInjected) {
		t.Error("cause was not preserved")
	}
}

func TestApplicationServerKeys_JSONRoundTrip(t *testing.T) {
	original, err := GenerateApplicationServerKeys(webcrypto.NewStandard())
	if err != nil {
		t.Fatal(err)
	}

	restored, err := ApplicationServerKeysFromJSON(webcrypto.NewStandard(), original.ToJSON())
	if err != nil {
		t.Fatalf("ApplicationServerKeysFromJSON() error = %v", err)
	}

	if restored.ToJSON() != original.ToJSON() {
		t.Error("keys did not round trip")
	}
	if !bytes.Equal(restored.PublicKey(), original.PublicKey()) {
		t.Error("public key changed")
	}
}

func TestApplicationServerKeysFromJSON_PKCS8(t *testing.T) {
	keys, err := ApplicationServerKeysFromJSON(nil, SerializedKeys{
		PublicKey:  testVAPIDPublic,
		PrivateKey: testVAPIDPKCS8,
	})
	if err != nil {
		t.Fatalf("ApplicationServerKeysFromJSON() error = %v", err)
	}

	// Re-exported in the canonical raw form.
	if got := keys.ToJSON().PrivateKey; got != testVAPIDPrivate {
		t.Errorf("PrivateKey = %s, want %s", got, testVAPIDPrivate)
	}
}

func TestApplicationServerKeysFromJSON_Invalid(t *testing.T) {
	otherPublic := testClientPublic

	tests := []struct {
		name  string
		input SerializedKeys
		field string
	}{
		{"missing public", SerializedKeys{PrivateKey: testVAPIDPrivate}, "publicKey"},
		{"missing private", SerializedKeys{PublicKey: testVAPIDPublic}, "privateKey"},
		{"public not base64", SerializedKeys{PublicKey: "!!!", PrivateKey: testVAPIDPrivate}, "publicKey"},
		{"private not base64", SerializedKeys{PublicKey: testVAPIDPublic, PrivateKey: "!!!"}, "privateKey"},
		{"public not a point", SerializedKeys{PublicKey: crypto.ToBase64URL(make([]byte, 65)), PrivateKey: testVAPIDPrivate}, "publicKey"},
		{"short public", SerializedKeys{PublicKey: "BAEC", PrivateKey: testVAPIDPrivate}, "publicKey"},
		{"private not a key", SerializedKeys{PublicKey: testVAPIDPublic, PrivateKey: crypto.ToBase64URL([]byte("short"))}, "privateKey"},
		{"zero scalar", SerializedKeys{PublicKey: testVAPIDPublic, PrivateKey: crypto.ToBase64URL(make([]byte, 32))}, "privateKey"},
		{"mismatched pair", SerializedKeys{PublicKey: otherPublic, PrivateKey: testVAPIDPrivate}, "publicKey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplicationServerKeysFromJSON(nil, tt.input)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestApplicationServerKeys_MarshalJSON(t *testing.T) {
	keys := testKeys(t)

	data, err := json.Marshal(keys)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	want := `{"publicKey":"` + testVAPIDPublic + `","privateKey":"` + testVAPIDPrivate + `"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}

	var restored ApplicationServerKeys
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if restored.PublicKeyBase64() != testVAPIDPublic {
		t.Errorf("PublicKeyBase64() = %s", restored.PublicKeyBase64())
	}

	err = json.Unmarshal([]byte(`{"publicKey":""}`), &restored)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestApplicationServerKeys_StringHidesPrivateKey(t *testing.T) {
	keys := testKeys(t)

	s := keys.String()
	if strings.Contains(s, testVAPIDPrivate) {
		t.Error("String() leaks the private key")
	}
	if !strings.Contains(s, testVAPIDPublic) {
		t.Error("String() should include the public key")
	}
}

func TestClient_KeysFromJSON(t *testing.T) {
	c, err := New(WithProvider(webcrypto.NewCircl()))
	if err != nil {
		t.Fatal(err)
	}

	generated, err := c.GenerateKeys()
	if err != nil {
		t.Fatalf("GenerateKeys() error = %v", err)
	}
	restored, err := c.KeysFromJSON(generated.ToJSON())
	if err != nil {
		t.Fatalf("KeysFromJSON() error = %v", err)
	}
	if restored.PublicKeyBase64() != generated.PublicKeyBase64() {
		t.Error("public key changed")
	}
}

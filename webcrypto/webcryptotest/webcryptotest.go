// Package webcryptotest provides deterministic and failing
// [webcrypto.Provider] implementations for tests.
package webcryptotest

import (
	"errors"
	"sync"

	"github.com/vaultsandbox/webpush/webcrypto"
)

// Fixed wraps a base provider and pins the ephemeral ECDH key and the bytes
// returned by RandomBytes. Every other operation is delegated to Base.
//
// Reusing a fixed ephemeral key and salt breaks the security of the scheme;
// Fixed exists only to reproduce known vectors.
type Fixed struct {
	Base webcrypto.Provider

	// ECDHScalar is the raw scalar returned by GenerateECDHKeyPair.
	ECDHScalar []byte

	// Random is returned, truncated or cycled to length, by RandomBytes.
	// Nil delegates to Base.
	Random []byte
}

var _ webcrypto.Provider = (*Fixed)(nil)

// NewFixed returns a Fixed provider over [webcrypto.Standard].
func NewFixed(ecdhScalar, random []byte) *Fixed {
	return &Fixed{
		Base:       webcrypto.NewStandard(),
		ECDHScalar: ecdhScalar,
		Random:     random,
	}
}

func (f *Fixed) base() webcrypto.Provider {
	if f.Base == nil {
		return webcrypto.NewStandard()
	}
	return f.Base
}

// GenerateECDHKeyPair returns a key built from ECDHScalar.
func (f *Fixed) GenerateECDHKeyPair() (*webcrypto.ECDHPrivateKey, error) {
	if f.ECDHScalar == nil {
		return f.base().GenerateECDHKeyPair()
	}
	return webcrypto.NewECDHPrivateKey(f.ECDHScalar)
}

// GenerateECDSAKeyPair delegates to Base.
func (f *Fixed) GenerateECDSAKeyPair() (*webcrypto.ECDSAKeyPair, error) {
	return f.base().GenerateECDSAKeyPair()
}

// ImportECDHPublicKey delegates to Base.
func (f *Fixed) ImportECDHPublicKey(raw []byte) (*webcrypto.ECDHPublicKey, error) {
	return f.base().ImportECDHPublicKey(raw)
}

// ImportECDSAKeyPair delegates to Base.
func (f *Fixed) ImportECDSAKeyPair(scalar, public []byte) (*webcrypto.ECDSAKeyPair, error) {
	return f.base().ImportECDSAKeyPair(scalar, public)
}

// DeriveECDHBits delegates to Base.
func (f *Fixed) DeriveECDHBits(priv *webcrypto.ECDHPrivateKey, peer *webcrypto.ECDHPublicKey, bitLength int) (*webcrypto.HKDFKey, error) {
	return f.base().DeriveECDHBits(priv, peer, bitLength)
}

// HKDFDeriveBits delegates to Base.
func (f *Fixed) HKDFDeriveBits(key *webcrypto.HKDFKey, salt, info []byte, bitLength int) ([]byte, error) {
	return f.base().HKDFDeriveBits(key, salt, info, bitLength)
}

// Sign delegates to Base.
func (f *Fixed) Sign(key *webcrypto.ECDSAKeyPair, data []byte) ([]byte, error) {
	return f.base().Sign(key, data)
}

// AESGCMEncrypt delegates to Base.
func (f *Fixed) AESGCMEncrypt(key *webcrypto.AESKey, iv, plaintext []byte) ([]byte, error) {
	return f.base().AESGCMEncrypt(key, iv, plaintext)
}

// RandomBytes returns Random cycled to n bytes.
func (f *Fixed) RandomBytes(n int) ([]byte, error) {
	if len(f.Random) == 0 {
		return f.base().RandomBytes(n)
	}
	out := make([]byte, 0, n)
	for len(out) < n {
		out = append(out, f.Random[:min(len(f.Random), n-len(out))]...)
	}
	return out, nil
}

// ExportRawPublicKey delegates to Base.
func (f *Fixed) ExportRawPublicKey(key webcrypto.Exportable) ([]byte, error) {
	return f.base().ExportRawPublicKey(key)
}

// ErrInjected is the error returned by [Failing] for the selected operation.
var ErrInjected = errors.New("injected provider failure")

// Op names a provider operation for [Failing].
type Op string

// Provider operations.
const (
	OpGenerateECDH  Op = "GenerateECDHKeyPair"
	OpGenerateECDSA Op = "GenerateECDSAKeyPair"
	OpImportECDH    Op = "ImportECDHPublicKey"
	OpImportECDSA   Op = "ImportECDSAKeyPair"
	OpDeriveECDH    Op = "DeriveECDHBits"
	OpHKDF          Op = "HKDFDeriveBits"
	OpSign          Op = "Sign"
	OpAESGCMEncrypt Op = "AESGCMEncrypt"
	OpRandomBytes   Op = "RandomBytes"
	OpExport        Op = "ExportRawPublicKey"
)

// Failing delegates to Base but returns ErrInjected for the operation named
// by Fail. It records every call so tests can assert on ordering.
type Failing struct {
	Base webcrypto.Provider
	Fail Op

	mu    sync.Mutex
	calls []Op
}

var _ webcrypto.Provider = (*Failing)(nil)

// NewFailing returns a Failing provider over [webcrypto.Standard].
func NewFailing(op Op) *Failing {
	return &Failing{Base: webcrypto.NewStandard(), Fail: op}
}

// Calls returns the operations invoked so far, in order.
func (f *Failing) Calls() []Op {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Op(nil), f.calls...)
}

func (f *Failing) enter(op Op) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.mu.Unlock()
	if op == f.Fail {
		return ErrInjected
	}
	return nil
}

func (f *Failing) GenerateECDHKeyPair() (*webcrypto.ECDHPrivateKey, error) {
	if err := f.enter(OpGenerateECDH); err != nil {
		return nil, err
	}
	return f.Base.GenerateECDHKeyPair()
}

func (f *Failing) GenerateECDSAKeyPair() (*webcrypto.ECDSAKeyPair, error) {
	if err := f.enter(OpGenerateECDSA); err != nil {
		return nil, err
	}
	return f.Base.GenerateECDSAKeyPair()
}

func (f *Failing) ImportECDHPublicKey(raw []byte) (*webcrypto.ECDHPublicKey, error) {
	if err := f.enter(OpImportECDH); err != nil {
		return nil, err
	}
	return f.Base.ImportECDHPublicKey(raw)
}

func (f *Failing) ImportECDSAKeyPair(scalar, public []byte) (*webcrypto.ECDSAKeyPair, error) {
	if err := f.enter(OpImportECDSA); err != nil {
		return nil, err
	}
	return f.Base.ImportECDSAKeyPair(scalar, public)
}

func (f *Failing) DeriveECDHBits(priv *webcrypto.ECDHPrivateKey, peer *webcrypto.ECDHPublicKey, bitLength int) (*webcrypto.HKDFKey, error) {
	if err := f.enter(OpDeriveECDH); err != nil {
		return nil, err
	}
	return f.Base.DeriveECDHBits(priv, peer, bitLength)
}

func (f *Failing) HKDFDeriveBits(key *webcrypto.HKDFKey, salt, info []byte, bitLength int) ([]byte, error) {
	if err := f.enter(OpHKDF); err != nil {
		return nil, err
	}
	return f.Base.HKDFDeriveBits(key, salt, info, bitLength)
}

func (f *Failing) Sign(key *webcrypto.ECDSAKeyPair, data []byte) ([]byte, error) {
	if err := f.enter(OpSign); err != nil {
		return nil, err
	}
	return f.Base.Sign(key, data)
}

func (f *Failing) AESGCMEncrypt(key *webcrypto.AESKey, iv, plaintext []byte) ([]byte, error) {
	if err := f.enter(OpAESGCMEncrypt); err != nil {
		return nil, err
	}
	return f.Base.AESGCMEncrypt(key, iv, plaintext)
}

func (f *Failing) RandomBytes(n int) ([]byte, error) {
	if err := f.enter(OpRandomBytes); err != nil {
		return nil, err
	}
	return f.Base.RandomBytes(n)
}

func (f *Failing) ExportRawPublicKey(key webcrypto.Exportable) ([]byte, error) {
	if err := f.enter(OpExport); err != nil {
		return nil, err
	}
	return f.Base.ExportRawPublicKey(key)
}

package webpush

import (
	"sync/atomic"

	"github.com/vaultsandbox/webpush/webcrypto"
)

type providerBox struct {
	p webcrypto.Provider
}

var defaultProvider atomic.Pointer[providerBox]

func init() {
	defaultProvider.Store(&providerBox{p: webcrypto.NewStandard()})
}

// SetCryptoProvider replaces the process-wide default provider. Clients
// capture the provider when they are created, and the package-level helpers
// read it once per call, so a swap never affects an in-flight call.
// Passing nil removes the default; later calls then fail with a
// *ConfigurationError.
func SetCryptoProvider(p webcrypto.Provider) {
	defaultProvider.Store(&providerBox{p: p})
}

// CryptoProvider returns the process-wide default provider, or nil.
func CryptoProvider() webcrypto.Provider {
	return defaultProvider.Load().p
}

func resolveProvider(p webcrypto.Provider) (webcrypto.Provider, error) {
	if p == nil {
		return nil, &ConfigurationError{Message: "no crypto provider configured"}
	}
	return p, nil
}

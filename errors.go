package webpush

import (
	"errors"
	"fmt"

	"github.com/vaultsandbox/webpush/internal/pushapi"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrCryptoImport matches every *CryptoImportError.
	ErrCryptoImport = errors.New("key import failed")

	// ErrCryptoOperation matches every *CryptoOperationError.
	ErrCryptoOperation = errors.New("crypto operation failed")

	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrPushRejected matches every *APIError.
	ErrPushRejected = errors.New("push service rejected the message")
)

// WebPushError is implemented by all errors returned from this package.
type WebPushError interface {
	error
	WebPushError() // marker method
}

// ValidationError reports malformed or out-of-contract input.
type ValidationError struct {
	// Field is the offending input, dotted for nested values
	// (for example "keys.auth"). It may be empty.
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// WebPushError implements the WebPushError interface.
func (e *ValidationError) WebPushError() {}

// CryptoImportError reports a key that does not decode to a valid key for
// its algorithm and curve.
type CryptoImportError struct {
	Key string // "p256dh", "publicKey", ...
	Err error
}

func (e *CryptoImportError) Error() string {
	return fmt.Sprintf("failed to import %s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *CryptoImportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *CryptoImportError) Is(target error) bool {
	return target == ErrCryptoImport
}

// WebPushError implements the WebPushError interface.
func (e *CryptoImportError) WebPushError() {}

// CryptoOperationError reports a provider failure while generating,
// deriving, signing or encrypting.
type CryptoOperationError struct {
	Op  string // "ecdh", "hkdf", "sign", ...
	Err error
}

func (e *CryptoOperationError) Error() string {
	return fmt.Sprintf("crypto operation %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *CryptoOperationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *CryptoOperationError) Is(target error) bool {
	return target == ErrCryptoOperation
}

// WebPushError implements the WebPushError interface.
func (e *CryptoOperationError) WebPushError() {}

// ConfigurationError reports a missing or unusable configuration, such as
// no crypto provider.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// WebPushError implements the WebPushError interface.
func (e *ConfigurationError) WebPushError() {}

// APIError is a non-2xx response from a push service. The status code and
// body are reported as received.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("push service error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("push service error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	return target == ErrPushRejected
}

// WebPushError implements the WebPushError interface.
func (e *APIError) WebPushError() {}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err      error
	Endpoint string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// WebPushError implements the WebPushError interface.
func (e *NetworkError) WebPushError() {}

// wrapError converts transport errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *pushapi.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Endpoint:   apiErr.Endpoint,
		}
	}

	var netErr *pushapi.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:      netErr.Err,
			Endpoint: netErr.Endpoint,
		}
	}

	return err
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func operationErr(op string, err error) error {
	return &CryptoOperationError{Op: op, Err: err}
}

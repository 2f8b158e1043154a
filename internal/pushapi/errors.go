package pushapi

import (
	"errors"
	"fmt"
)

// ErrMissingEndpoint is returned when a message has no endpoint.
var ErrMissingEndpoint = errors.New("push endpoint is required")

// APIError represents a non-2xx response from a push service.
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

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err      error
	Endpoint string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

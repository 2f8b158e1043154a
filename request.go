package webpush

import (
	"context"
	"net/http"
	"strings"

	"github.com/vaultsandbox/webpush/internal/pushapi"
)

// Header is one HTTP header of a push request.
type Header struct {
	Name  string
	Value string
}

// Headers keeps push request headers in emission order.
type Headers []Header

// Get returns the first value for name, compared case-insensitively.
func (h Headers) Get(name string) string {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Value
		}
	}
	return ""
}

// Map returns the headers as a map keyed by their exact names.
func (h Headers) Map() map[string]string {
	m := make(map[string]string, len(h))
	for _, hdr := range h {
		m[hdr.Name] = hdr.Value
	}
	return m
}

// PushRequest is the encrypted request to deliver to Endpoint.
type PushRequest struct {
	Headers  Headers
	Body     []byte
	Endpoint string
}

func (r *PushRequest) message() *pushapi.Message {
	headers := make([][2]string, len(r.Headers))
	for i, h := range r.Headers {
		headers[i] = [2]string{h.Name, h.Value}
	}
	return &pushapi.Message{
		Endpoint: r.Endpoint,
		Headers:  headers,
		Body:     r.Body,
	}
}

// HTTPRequest returns the POST to send to the push service. Header names
// are kept exactly as listed in Headers.
func (r *PushRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	req, err := pushapi.NewRequest(ctx, r.message())
	if err != nil {
		return nil, &ValidationError{Field: "endpoint", Message: "cannot build HTTP request", Err: err}
	}
	return req, nil
}

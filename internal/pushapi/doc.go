// Package pushapi delivers encrypted Web Push messages to a push service.
//
// It issues a single POST per message with the headers and body produced by
// the webpush package and reports the push service's status code. It does
// not retry and does not interpret push-service-specific status codes; any
// non-2xx response is returned as an [*APIError] carrying the raw body.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use.
package pushapi

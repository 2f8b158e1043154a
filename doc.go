// Package webpush builds encrypted Web Push requests using the "aesgcm"
// content encoding and VAPID (ES256) sender authentication.
//
// The package produces the headers and body a sender POSTs to a push
// service endpoint so that the subscribed browser can decrypt the payload.
// It also offers a thin Send for delivering that request once.
//
// Basic usage:
//
//	keys, err := webpush.GenerateApplicationServerKeys(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := webpush.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	req, err := client.GeneratePushHTTPRequest(ctx, webpush.PushOptions{
//	    Payload:      []byte("Hello"),
//	    Keys:         keys,
//	    Target:       subscription,
//	    AdminContact: "ops@example.com",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := client.Send(ctx, req)
//
// # Crypto Providers
//
// All cryptography goes through a [webcrypto.Provider]. [New] captures the
// process default (see [SetCryptoProvider]) unless [WithProvider] is given.
//
// # Errors
//
// Errors implement [WebPushError]. Most match one of the sentinels with
// errors.Is: [ErrValidation], [ErrCryptoImport], [ErrCryptoOperation],
// [ErrConfiguration] or [ErrPushRejected]. Transport failures are
// [*NetworkError]. A cancelled context yields ctx.Err() unchanged.
package webpush

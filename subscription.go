package webpush

import (
	"encoding/json"

	validation "github.com/jellydator/validation"
)

// SubscriptionKeys is the key material of a push subscription, base64url
// encoded as browsers report it.
type SubscriptionKeys struct {
	// P256dh is the client's uncompressed P-256 ECDH public key.
	P256dh string `json:"p256dh"`
	// Auth is the client's 16-byte authentication secret.
	Auth string `json:"auth"`
}

// UnmarshalJSON accepts the legacy "p256" name for the client key.
func (k *SubscriptionKeys) UnmarshalJSON(data []byte) error {
	var raw struct {
		P256dh string `json:"p256dh"`
		P256   string `json:"p256"`
		Auth   string `json:"auth"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	k.P256dh = raw.P256dh
	if k.P256dh == "" {
		k.P256dh = raw.P256
	}
	k.Auth = raw.Auth
	return nil
}

// Validate checks that both keys are present.
func (k SubscriptionKeys) Validate() error {
	return validation.ValidateStruct(&k,
		validation.Field(&k.P256dh, validation.Required),
		validation.Field(&k.Auth, validation.Required),
	)
}

// Subscription is a push subscription in the shape of the browser's
// PushSubscription.toJSON().
type Subscription struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

// Validate checks the subscription shape. Key contents are checked when a
// message is encrypted.
func (s Subscription) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Endpoint, validation.Required, httpURL),
		validation.Field(&s.Keys),
	)
	return fromValidation("", err)
}

// ParseSubscription decodes a JSON subscription and validates it.
func ParseSubscription(data []byte) (Subscription, error) {
	var s Subscription
	if err := json.Unmarshal(data, &s); err != nil {
		return Subscription{}, &ValidationError{Field: "subscription", Message: "invalid JSON", Err: err}
	}
	if err := s.Validate(); err != nil {
		return Subscription{}, err
	}
	return s, nil
}

package webpush

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	validation "github.com/jellydator/validation"
)

// httpURL requires an absolute http or https URL with a host.
var httpURL = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_url_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return validation.NewError("validation_url", "must be an absolute URL")
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	}
	return validation.NewError("validation_url_scheme", "must use http or https")
})

// origin requires scheme://host[:port] with nothing after it.
var origin = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if err := httpURL.Validate(s); err != nil {
		return err
	}
	u, _ := url.Parse(s)
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return validation.NewError("validation_origin", "must be an origin without path, query or credentials")
	}
	return nil
})

// contactURI requires a mailto: address or an https: URL.
var contactURI = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "mailto:"):
		if !strings.Contains(s[len("mailto:"):], "@") {
			return validation.NewError("validation_mailto", "must be a mailto: address")
		}
		return nil
	case strings.HasPrefix(lower, "https:"):
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			return nil
		}
	}
	return validation.NewError("validation_contact", "must be a mailto: or https: URI")
})

// fromValidation flattens a validation.Errors tree into a *ValidationError
// naming the first failing field, dotted for nested structs.
func fromValidation(prefix string, err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	var errs validation.Errors
	if errors.As(err, &errs) && len(errs) > 0 {
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		field := keys[0]
		if prefix != "" {
			field = prefix + "." + field
		}

		inner := errs[keys[0]]
		var nested validation.Errors
		if errors.As(inner, &nested) {
			return fromValidation(field, inner)
		}
		return &ValidationError{Field: field, Message: inner.Error(), Err: err}
	}

	return &ValidationError{Field: prefix, Message: err.Error(), Err: err}
}

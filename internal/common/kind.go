package common

import "errors"

// Kind is the tag a core error is recovered into at the service boundary.
// Transports map a Kind to their own status codes.
type Kind string

const (
	KindNone                Kind = ""
	KindMissingFields       Kind = "missing_fields"
	KindValidation          Kind = "validation"
	KindInvalidCredentials  Kind = "invalid_credentials"
	KindEmailNotVerified    Kind = "email_not_verified"
	KindMalformedAuthHeader Kind = "malformed_auth_header"
	KindTokenInvalid        Kind = "token_invalid"
	KindTokenExpired        Kind = "token_expired"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindStoreUnavailable    Kind = "store_unavailable"
	KindConfiguration       Kind = "configuration"
	KindInternal            Kind = "internal"
)

// order matters: the first sentinel matched wins.
var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrMissingFields, KindMissingFields},
	{ErrValidation, KindValidation},
	{ErrInvalidCredentials, KindInvalidCredentials},
	{ErrEmailNotVerified, KindEmailNotVerified},
	{ErrMalformedAuthHeader, KindMalformedAuthHeader},
	{ErrTokenExpired, KindTokenExpired},
	{ErrTokenInvalid, KindTokenInvalid},
	{ErrNotFound, KindNotFound},
	{ErrConflict, KindConflict},
	{ErrStoreUnavailable, KindStoreUnavailable},
	{ErrConfiguration, KindConfiguration},
}

// Classify returns the Kind of err. Unknown errors are KindInternal so that an
// unexpected failure is never reported as an authentication verdict.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// IsAuthFailure reports whether err is a 401-class verdict.
func IsAuthFailure(err error) bool {
	switch Classify(err) {
	case KindInvalidCredentials, KindMalformedAuthHeader, KindTokenInvalid, KindTokenExpired:
		return true
	}
	return false
}

// ErrorFor returns the sentinel for k, the inverse of Classify. Clients use it
// to turn a wire code back into an error that works with errors.Is.
func ErrorFor(k Kind) error {
	if k == KindNone {
		return nil
	}
	for _, e := range kinds {
		if e.kind == k {
			return e.err
		}
	}
	return ErrInternal
}

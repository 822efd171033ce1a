// Package common defines the sentinel errors and small helpers shared by the
// authentication core and its transports. Callers should match errors with
// errors.Is; services wrap them with additional context using %w.
package common

import "errors"

var (
	// Input errors.
	ErrMissingFields = errors.New("missing required fields")
	ErrValidation    = errors.New("validation error")

	// Authentication verdicts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("external email not verified")

	// Bearer token verdicts. Each is distinct so clients can react differently.
	ErrMalformedAuthHeader = errors.New("malformed authorization header")
	ErrTokenInvalid        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")

	// Store errors.
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Infrastructure errors, never an authentication verdict.
	ErrInternal      = errors.New("internal error")
	ErrConfiguration = errors.New("configuration error")
)

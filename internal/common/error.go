// Package common defines shared constants and sentinel errors used across
// the accountd server, its repositories and the admin CLI. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrEmailInUse = errors.New("email already in use")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Returned for both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Auth errors (invalid, expired or malformed bearer token).
	ErrInvalidToken = errors.New("invalid token")

	// Startup errors. Not recoverable per request.
	ErrConfiguration = errors.New("configuration error")

	// Matched by every *ValidationError.
	ErrValidation = errors.New("validation error")
)

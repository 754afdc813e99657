package errors

import "errors"

// Shared application errors. Services wrap these with %w so handlers can map
// them to HTTP statuses with errors.Is.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned for authentication failures (bad token, bad credentials).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller lacks rights to the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for invalid input data.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token is expired")

	// ErrInvalidToken is returned when a token fails signature or claim checks.
	ErrInvalidToken = errors.New("invalid token")

	// ErrConflict is returned for state conflicts (duplicate keys, constraint hits).
	ErrConflict = errors.New("resource state conflict")
)

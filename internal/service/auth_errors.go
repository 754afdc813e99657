package service

import "errors"

// Auth flow specific errors used by handlers for stable error_type mapping.
var (
	// ErrInvalidCredential covers every token rejected on its own merits:
	// bad signature, wrong audience, expired, revoked, unknown subject.
	ErrInvalidCredential = errors.New("invalid_credential")

	// ErrInactiveAccount means the token was valid but the account is
	// deactivated.
	ErrInactiveAccount = errors.New("inactive_account")

	// ErrUpstreamUnavailable means the identity provider could not be
	// reached, so the credential could not be judged either way.
	ErrUpstreamUnavailable = errors.New("upstream_unavailable")
)

package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidCredentials indicates a login attempt was rejected. Unknown
	// usernames and wrong passwords both map here so callers cannot probe
	// for account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers every token rejection: missing, malformed,
	// expired, bad signature, or a subject that no longer resolves to a
	// user. The causes are deliberately not distinguished to the caller.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")
)

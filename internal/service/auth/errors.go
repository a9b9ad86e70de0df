package auth

import "errors"

// Common authentication service errors
var (
	// ErrHashingFailed indicates the password hashing primitive itself
	// failed (e.g., resource exhaustion), as opposed to a credential mismatch.
	ErrHashingFailed = errors.New("password hashing failed")

	// ErrSigningFailed indicates a token could not be signed, either because
	// the secret is unavailable or the signing operation errored.
	ErrSigningFailed = errors.New("token signing failed")

	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")
)

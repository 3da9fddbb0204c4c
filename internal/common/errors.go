package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Argument errors raised before any storage is touched.
	ErrInvalidArgument = errors.New("invalid argument")

	// Session errors.
	ErrNoSession    = errors.New("no active session")
	ErrNoUser       = errors.New("no user in session")
	ErrSessionTaken = errors.New("user already has an active session")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Crypto errors.
	ErrWrongPassword = errors.New("wrong password")
)

package token

import "errors"

var (
	// ErrEntropyFailure is returned when the system entropy source fails.
	// This is not recoverable; callers should treat it as fatal.
	ErrEntropyFailure = errors.New("token: entropy source failure")

	// ErrInvalidLength is returned when a non-positive token length is requested.
	ErrInvalidLength = errors.New("token: length must be positive")
)

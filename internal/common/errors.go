// Package common defines shared sentinel errors used across the client
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Remote-service errors (non-transient: retrying without a state
	// change will not help within the same pass).
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")

	// Session errors.
	ErrNoSession    = errors.New("no signed-in user")
	ErrInvalidToken = errors.New("invalid token")
)

package domain

import "errors"

// Sentinel errors surfaced by services and repositories. Controllers map
// these to HTTP statuses; anything else is treated as a storage failure.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrDuplicateEmail        = errors.New("email already exists")
	ErrDuplicateRegistration = errors.New("student already registered for this event")
	ErrPayloadTooLarge       = errors.New("payload too large")
)

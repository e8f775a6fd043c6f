package models

import "errors"

// Domain errors returned by services and repositories. Handlers map these
// to HTTP statuses; anything else is treated as an internal error.
var (
	ErrConflict            = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotVerified         = errors.New("account not verified")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrNotFound            = errors.New("user not found")
	ErrForbidden           = errors.New("insufficient privileges")
	ErrProviderUnavailable = errors.New("provider not configured or unavailable")
)

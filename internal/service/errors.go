package service

import "errors"

// Sentinel errors shared across services. The REST layer maps these onto
// HTTP status codes; everything else surfaces as a 500.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidState       = errors.New("invalid state")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrUpstreamFailed     = errors.New("upstream service unavailable")
)

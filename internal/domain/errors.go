package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrMissingCredential   = errors.New("provider credential missing")
	ErrProviderFailure     = errors.New("provider failure")
)

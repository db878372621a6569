package service

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccessForbidden is returned when login could not be evaluated at all.
	ErrAccessForbidden = errors.New("access forbidden")
	ErrRateLimited     = errors.New("too many failed attempts")

	// ErrForbidden means the caller does not own the account being changed.
	ErrForbidden    = errors.New("not the account owner")
	ErrNoChange     = errors.New("nothing changed")
	ErrUpdateFailed = errors.New("update failed")

	ErrSearchUnavailable = errors.New("search unavailable")
)

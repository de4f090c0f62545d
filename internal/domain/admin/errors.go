package admin

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("too many failed attempts, try again later")
	ErrNotConfigured      = errors.New("admin password is not configured")
)

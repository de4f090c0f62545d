package lead

import "errors"

var (
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrInterestRequired = errors.New("interest is required")
	ErrInvalidSource    = errors.New("invalid lead source")
	ErrLocalUnavailable = errors.New("local lead store is not available")
)

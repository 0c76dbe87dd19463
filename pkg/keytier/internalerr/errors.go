package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnknownStrategy   = errors.New("unknown strategy")
	ErrOracleUnavailable = errors.New("metrics oracle unavailable")
)

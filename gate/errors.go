package gate

import "errors"

// Sentinel errors returned by Gate.Authorize and ParseRole.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRoleLookup   = errors.New("role lookup failed")
	ErrUnknownRole  = errors.New("unknown role")
)

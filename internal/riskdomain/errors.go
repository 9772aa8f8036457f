package riskdomain

import "errors"

// Domain errors.
var (
	// ErrUnknownDomain is returned when a domain key is not registered.
	ErrUnknownDomain = errors.New("unknown domain")

	// ErrDuplicateDomain is returned when two domains share a key.
	ErrDuplicateDomain = errors.New("duplicate domain key")

	// ErrInvalidFeature is returned when a feature is unknown or out of range.
	ErrInvalidFeature = errors.New("invalid feature")
)

package shock

import "errors"

// Shock generator errors.
var (
	// ErrUnknownScenario is returned for an unknown predefined scenario name.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrUnknownShockType is returned when a filter names a type outside the generic catalog.
	ErrUnknownShockType = errors.New("unknown shock type")

	// ErrInvalidShock is returned when a shock fails validation.
	ErrInvalidShock = errors.New("invalid shock")
)

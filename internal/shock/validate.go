package shock

import (
	"fmt"
	"math"
	"slices"

	"startup-risk-lab/internal/domain"
)

// ValidateValues checks the value ranges every shock must satisfy,
// including domain-specific shock types outside the generic catalog.
func ValidateValues(s domain.Shock) error {
	switch {
	case s.Type == "":
		return fmt.Errorf("%w: empty type", ErrInvalidShock)
	case math.IsNaN(s.Intensity) || s.Intensity < 0 || s.Intensity > 1:
		return fmt.Errorf("%w: %s intensity %v outside [0, 1]", ErrInvalidShock, s.Type, s.Intensity)
	case s.DurationDays < 1:
		return fmt.Errorf("%w: %s duration %d days < 1", ErrInvalidShock, s.Type, s.DurationDays)
	case math.IsNaN(s.Confidence) || s.Confidence < 0 || s.Confidence > 1:
		return fmt.Errorf("%w: %s confidence %v outside [0, 1]", ErrInvalidShock, s.Type, s.Confidence)
	case s.StartOffsetDays < 0:
		return fmt.Errorf("%w: %s negative start offset %d", ErrInvalidShock, s.Type, s.StartOffsetDays)
	}
	return nil
}

// Validate checks a generic shock against the catalog: known type, value
// ranges, and a jurisdiction the type supports.
func Validate(s domain.Shock) error {
	spec, ok := Lookup(s.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownShockType, s.Type)
	}
	if err := ValidateValues(s); err != nil {
		return err
	}
	if !slices.Contains(spec.Jurisdictions, s.Jurisdiction) {
		return fmt.Errorf("%w: %s not supported in jurisdiction %q", ErrInvalidShock, s.Type, s.Jurisdiction)
	}
	return nil
}

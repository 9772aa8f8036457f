package simulation

import (
	"errors"
	"fmt"
)

// Engine errors
var (
	ErrInvalidParameters  = errors.New("invalid scenario parameters")
	ErrCancelled          = errors.New("scenario run cancelled")
	ErrRunAlreadyStarted  = errors.New("scenario run already started")
	ErrNotEnoughScenarios = errors.New("comparison needs at least two scenario results")
)

// IterationError reports a failure inside one Monte-Carlo iteration.
// A failed iteration aborts the whole run.
type IterationError struct {
	Index     int
	DomainKey string
	Err       error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("iteration %d (%s): %v", e.Index, e.DomainKey, e.Err)
}

func (e *IterationError) Unwrap() error {
	return e.Err
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameters}, args...)...)
}

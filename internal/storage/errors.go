package storage

import "errors"

// Errors returned by scenario result and iteration outcome stores.
// Results are immutable once written, so stores never update in place.
var (
	// ErrNotFound is returned when no result exists for the requested ID.
	ErrNotFound = errors.New("scenario result not found")

	// ErrDuplicateKey is returned when a result ID, or a (result, iteration, metric)
	// outcome key, is already stored.
	ErrDuplicateKey = errors.New("duplicate key: stored results are immutable")

	// ErrInvalidInput is returned for nil results or rows missing their key fields.
	ErrInvalidInput = errors.New("invalid store input")
)

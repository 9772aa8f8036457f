package storage

import (
	"context"

	"startup-risk-lab/internal/domain"
)

// ScenarioResultStore provides access to scenario_results storage.
type ScenarioResultStore interface {
	// Insert adds a completed result with its iteration records.
	// Returns ErrDuplicateKey if the result ID exists.
	Insert(ctx context.Context, r *domain.ScenarioResult) error

	// GetByID retrieves a result with its iteration records. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.ScenarioResult, error)

	// ListByDomain retrieves results for a domain ordered by created_at ASC, id ASC.
	// Iteration records are not loaded.
	ListByDomain(ctx context.Context, domainKey string) ([]*domain.ScenarioResult, error)
}

// IterationOutcomeStore provides access to iteration_outcomes storage (long format).
type IterationOutcomeStore interface {
	// InsertBulk adds rows for one or more results. Fails entire batch on duplicate
	// (result_id, iteration_index, metric).
	InsertBulk(ctx context.Context, rows []*domain.IterationOutcome) error

	// GetByResultID retrieves all rows of a result ordered by iteration_index ASC, metric ASC.
	GetByResultID(ctx context.Context, resultID string) ([]*domain.IterationOutcome, error)

	// GetMetricValues retrieves one metric's values of a result ordered by iteration_index ASC.
	GetMetricValues(ctx context.Context, resultID, metric string) ([]float64, error)
}

// Package cache memoizes completed scenario results keyed by parameter fingerprint
// (see idhash). Only seeded runs are cacheable: an unseeded run is not reproducible.
package cache

import (
	"context"

	"startup-risk-lab/internal/domain"
)

// ResultCache stores completed results. Implementations are safe for concurrent use
// and never hand out a value that aliases a stored one.
type ResultCache interface {
	// Get returns the cached result for key. ok is false on a miss or expiry.
	Get(ctx context.Context, key string) (r *domain.ScenarioResult, ok bool, err error)

	// Set stores r under key with the cache's TTL.
	Set(ctx context.Context, key string, r *domain.ScenarioResult) error
}

// Nop is a ResultCache that never hits.
type Nop struct{}

func (Nop) Get(context.Context, string) (*domain.ScenarioResult, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, *domain.ScenarioResult) error         { return nil }

var _ ResultCache = Nop{}

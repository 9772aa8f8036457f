// Package metrics aggregates iteration outcomes into per-metric statistics.
package metrics

import (
	"errors"
	"fmt"
	"sort"

	"startup-risk-lab/internal/domain"
)

// ErrAggregation is returned when iteration outcomes cannot be aggregated.
var ErrAggregation = errors.New("aggregation error")

// Summary is the aggregate of one run's iteration records.
type Summary struct {
	Stats       map[string]domain.MetricSummary
	Percentiles map[string]domain.Percentiles
}

// Summarize computes per-metric statistics over iteration records.
// The metric set is the union of keys seen across all records; a metric
// missing from an iteration counts as 0 for that iteration.
// Records are aggregated in iteration index order regardless of input order.
func Summarize(records []domain.IterationResult) (*Summary, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no iteration records", ErrAggregation)
	}

	ordered := make([]domain.IterationResult, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	keys := make(map[string]struct{})
	for _, r := range ordered {
		for k := range r.Outcomes {
			keys[k] = struct{}{}
		}
	}

	summary := &Summary{
		Stats:       make(map[string]domain.MetricSummary, len(keys)),
		Percentiles: make(map[string]domain.Percentiles, len(keys)),
	}

	for k := range keys {
		values := make([]float64, len(ordered))
		for i, r := range ordered {
			v := r.Outcomes[k] // zero-fill
			if !isFinite(v) {
				return nil, fmt.Errorf("%w: metric %q iteration %d is not finite", ErrAggregation, k, r.Index)
			}
			values[i] = v
		}
		stats, pct := computeSeries(values)
		summary.Stats[k] = stats
		summary.Percentiles[k] = pct
	}

	return summary, nil
}

// MetricValues returns one metric's values in iteration index order,
// zero-filling iterations that lack it.
func MetricValues(records []domain.IterationResult, metric string) []float64 {
	ordered := make([]domain.IterationResult, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})
	values := make([]float64, len(ordered))
	for i, r := range ordered {
		values[i] = r.Outcomes[metric]
	}
	return values
}

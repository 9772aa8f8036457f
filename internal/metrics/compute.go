package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"startup-risk-lab/internal/domain"
)

// computeSeries calculates summary statistics and percentiles for one metric.
// values must be non-empty and finite.
func computeSeries(values []float64) (domain.MetricSummary, domain.Percentiles) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	summary := domain.MetricSummary{
		Mean:   stat.Mean(values, nil),
		Std:    computeStddev(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Median: computePercentile(sorted, 0.50),
	}

	var pct domain.Percentiles
	for i, level := range domain.PercentileLevels {
		pct[i] = computePercentile(sorted, level)
	}
	return summary, pct
}

// computeStddev calculates population standard deviation (n denominator).
// Returns 0 for a single value.
func computeStddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	_, std := stat.PopMeanStdDev(values, nil)
	if math.IsNaN(std) {
		return 0
	}
	return std
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC.
// p is percentile (0.10 = 10th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	// Index for percentile (0-based, continuous)
	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// Percentile returns the p-quantile of values using linear interpolation.
// values need not be sorted. Returns 0 for empty input.
func Percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return computePercentile(sorted, p)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

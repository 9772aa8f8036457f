package metrics

import (
	"math"
	"testing"
)

func TestComputePercentile_SingleValue(t *testing.T) {
	sorted := []float64{0.42}
	for _, p := range []float64{0.05, 0.5, 0.95} {
		if got := computePercentile(sorted, p); got != 0.42 {
			t.Errorf("p=%v: expected 0.42, got %f", p, got)
		}
	}
}

func TestComputePercentile_LinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	// idx = 0.25 * 4 = 1.0 → 2
	if got := computePercentile(sorted, 0.25); got != 2 {
		t.Errorf("p25: expected 2, got %f", got)
	}
	// idx = 0.10 * 4 = 0.4 → 1 + 0.4*(2-1) = 1.4
	if got := computePercentile(sorted, 0.10); math.Abs(got-1.4) > 1e-12 {
		t.Errorf("p10: expected 1.4, got %f", got)
	}
	// idx = 0.95 * 4 = 3.8 → 4 + 0.8*(5-4) = 4.8
	if got := computePercentile(sorted, 0.95); math.Abs(got-4.8) > 1e-12 {
		t.Errorf("p95: expected 4.8, got %f", got)
	}
}

func TestComputePercentile_Empty(t *testing.T) {
	if got := computePercentile(nil, 0.5); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
}

func TestComputeStddev_Population(t *testing.T) {
	// mean 5, squared deviations sum 32, n=8 → variance 4
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := computeStddev(values); math.Abs(got-2) > 1e-12 {
		t.Errorf("expected 2, got %f", got)
	}
}

func TestComputeStddev_SingleValue(t *testing.T) {
	if got := computeStddev([]float64{3.5}); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestComputeSeries_MonotonicPercentiles(t *testing.T) {
	values := []float64{0.3, -0.2, 0.9, 0.1, 0.1, -0.7, 0.5, 0.05, 0.8, -0.1, 0.0}
	summary, pct := computeSeries(values)

	for i := 1; i < len(pct); i++ {
		if pct[i] < pct[i-1] {
			t.Errorf("percentiles not monotonic at %d: %v", i, pct)
		}
	}
	if summary.Min != -0.7 || summary.Max != 0.9 {
		t.Errorf("min/max mismatch: got %f/%f", summary.Min, summary.Max)
	}
	if summary.Median != pct[3] {
		t.Errorf("median %f differs from p50 %f", summary.Median, pct[3])
	}
}

func TestPercentile_Unsorted(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}
	if got := Percentile(values, 0.5); got != 3 {
		t.Errorf("expected 3, got %f", got)
	}
	// input must not be reordered
	if values[0] != 5 {
		t.Errorf("input slice mutated: %v", values)
	}
}

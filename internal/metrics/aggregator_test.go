package metrics

import (
	"errors"
	"math"
	"testing"

	"startup-risk-lab/internal/domain"
)

func TestSummarize_ZeroFillsMissingMetrics(t *testing.T) {
	records := []domain.IterationResult{
		{Index: 0, Outcomes: domain.Outcomes{"a": 1, "b": 4}},
		{Index: 1, Outcomes: domain.Outcomes{"a": 3}},
	}

	s, err := Summarize(records)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	b, ok := s.Stats["b"]
	if !ok {
		t.Fatal("metric b missing from summary")
	}
	// b values are [4, 0]
	if b.Mean != 2 || b.Min != 0 || b.Max != 4 {
		t.Errorf("b stats mismatch: %+v", b)
	}
	if _, ok := s.Percentiles["b"]; !ok {
		t.Error("metric b missing from percentiles")
	}
}

func TestSummarize_SingleIteration(t *testing.T) {
	records := []domain.IterationResult{
		{Index: 0, Outcomes: domain.Outcomes{"x": 0.25}},
	}

	s, err := Summarize(records)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	x := s.Stats["x"]
	if x.Std != 0 {
		t.Errorf("expected std 0 for n=1, got %f", x.Std)
	}
	for i, v := range s.Percentiles["x"] {
		if v != 0.25 {
			t.Errorf("percentile %d: expected 0.25, got %f", i, v)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	if !errors.Is(err, ErrAggregation) {
		t.Errorf("expected ErrAggregation, got %v", err)
	}
}

func TestSummarize_NonFinite(t *testing.T) {
	records := []domain.IterationResult{
		{Index: 0, Outcomes: domain.Outcomes{"x": math.NaN()}},
	}
	_, err := Summarize(records)
	if !errors.Is(err, ErrAggregation) {
		t.Errorf("expected ErrAggregation, got %v", err)
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	forward := []domain.IterationResult{
		{Index: 0, Outcomes: domain.Outcomes{"x": 0.1}},
		{Index: 1, Outcomes: domain.Outcomes{"x": 0.7}},
		{Index: 2, Outcomes: domain.Outcomes{"x": -0.3}},
	}
	reversed := []domain.IterationResult{forward[2], forward[1], forward[0]}

	a, err := Summarize(forward)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	b, err := Summarize(reversed)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if a.Stats["x"] != b.Stats["x"] {
		t.Errorf("stats depend on input order: %+v vs %+v", a.Stats["x"], b.Stats["x"])
	}
	if a.Percentiles["x"] != b.Percentiles["x"] {
		t.Errorf("percentiles depend on input order")
	}
}

func TestMetricValues(t *testing.T) {
	records := []domain.IterationResult{
		{Index: 1, Outcomes: domain.Outcomes{"x": 2}},
		{Index: 0, Outcomes: domain.Outcomes{"y": 5}},
	}
	got := MetricValues(records, "x")
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("unexpected values: %v", got)
	}
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioParameters_ShockCount(t *testing.T) {
	tests := []struct {
		horizon  int
		override int
		want     int
	}{
		{horizon: 1, want: 1},
		{horizon: 29, want: 1},
		{horizon: 90, want: 3},
		{horizon: 365, want: MaxShocksPerIteration},
		{horizon: 365, override: 8, want: 8},
	}
	for _, tt := range tests {
		p := ScenarioParameters{TimeHorizonDays: tt.horizon, ShocksPerIteration: tt.override}
		assert.Equal(t, tt.want, p.ShockCount(), "horizon=%d override=%d", tt.horizon, tt.override)
	}
}

func TestScenarioResult_CloneIsDeep(t *testing.T) {
	seed := int64(9)
	r := &ScenarioResult{
		ID:         "r1",
		Parameters: ScenarioParameters{Seed: &seed, BaseFeatures: map[string]float64{"a": 1}},
		WhatIf:     &WhatIfParams{IntensityMultiplier: 2, Seed: &seed},
		Results: []IterationResult{{
			Index:    0,
			Shocks:   []Shock{{Type: ShockMarketCrash, SourceRefs: []string{"x"}}},
			Features: Features{"a": 1},
			Outcomes: Outcomes{"m": 2},
		}},
		SummaryStats: map[string]MetricSummary{"m": {Mean: 2}},
		Percentiles:  map[string]Percentiles{"m": {1, 2, 3, 4, 5, 6, 7}},
	}

	c := r.Clone()
	*c.Parameters.Seed = 1
	c.Parameters.BaseFeatures["a"] = 5
	*c.WhatIf.Seed = 1
	c.Results[0].Shocks[0].SourceRefs[0] = "y"
	c.Results[0].Outcomes["m"] = 9
	c.SummaryStats["m"] = MetricSummary{Mean: 9}

	assert.Equal(t, int64(9), *r.Parameters.Seed)
	assert.Equal(t, 1.0, r.Parameters.BaseFeatures["a"])
	assert.Equal(t, int64(9), *r.WhatIf.Seed)
	assert.Equal(t, "x", r.Results[0].Shocks[0].SourceRefs[0])
	assert.Equal(t, 2.0, r.Results[0].Outcomes["m"])
	assert.Equal(t, 2.0, r.SummaryStats["m"].Mean)
}

func TestPercentiles_P(t *testing.T) {
	p := Percentiles{1, 2, 3, 4, 5, 6, 7}
	v, ok := p.P(0.95)
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = p.P(0.99)
	assert.False(t, ok)
}

func TestFlattenOutcomes(t *testing.T) {
	r := &ScenarioResult{
		ID:        "r1",
		DomainKey: "saas",
		Results: []IterationResult{
			{Index: 0, Outcomes: Outcomes{"b": 2, "a": 1}},
			{Index: 1, Outcomes: Outcomes{"a": 3}},
		},
	}
	rows := FlattenOutcomes(r)
	require.Len(t, rows, 3)
	assert.Equal(t, IterationOutcome{ResultID: "r1", DomainKey: "saas", IterationIndex: 0, Metric: "a", Value: 1}, *rows[0])
	assert.Equal(t, "b", rows[1].Metric)
	assert.Equal(t, 1, rows[2].IterationIndex)
}

func TestRunState_IsTerminal(t *testing.T) {
	assert.False(t, RunCreated.IsTerminal())
	assert.False(t, RunRunning.IsTerminal())
	assert.True(t, RunCompleted.IsTerminal())
	assert.True(t, RunFailed.IsTerminal())
	assert.True(t, RunCancelled.IsTerminal())
}

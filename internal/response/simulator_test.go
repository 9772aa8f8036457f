package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/riskdomain"
)

func TestFromScenario(t *testing.T) {
	sim := New(Options{})
	d, err := sim.Registry().Get("saas")
	require.NoError(t, err)

	shocks := []domain.Shock{{Type: "market_saturation", Intensity: 1, DurationDays: 180}}
	calm := d.SimulateResponse(mustFeatures(t, d), nil)
	hit := d.SimulateResponse(mustFeatures(t, d), shocks)

	res := &domain.ScenarioResult{
		ID:        "r1",
		DomainKey: "saas",
		Results: []domain.IterationResult{
			{Index: 0, Outcomes: calm},
			{Index: 1, Outcomes: hit},
		},
		SummaryStats: map[string]domain.MetricSummary{
			"arr_growth_delta": {Mean: -0.1},
		},
	}

	resp, err := sim.FromScenario(res)
	require.NoError(t, err)
	assert.Equal(t, -0.1, resp.Outcomes["arr_growth_delta"])
	require.Len(t, resp.Losses, 2)
	assert.Equal(t, d.LossIndex(calm), resp.Losses[0])
	assert.Equal(t, d.LossIndex(hit), resp.Losses[1])
	assert.GreaterOrEqual(t, resp.Losses[1], resp.Losses[0])
}

func TestFromScenario_Errors(t *testing.T) {
	sim := New(Options{})

	_, err := sim.FromScenario(&domain.ScenarioResult{ID: "r1", DomainKey: "saas"})
	require.Error(t, err)

	_, err = sim.FromScenario(&domain.ScenarioResult{ID: "r2", DomainKey: "nope", Results: []domain.IterationResult{{}}})
	require.ErrorIs(t, err, riskdomain.ErrUnknownDomain)
}

func mustFeatures(t *testing.T, d riskdomain.Domain) domain.Features {
	t.Helper()
	f, err := d.ExtractFeatures(nil)
	require.NoError(t, err)
	return f
}

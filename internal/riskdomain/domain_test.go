package riskdomain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup-risk-lab/internal/domain"
)

var allGeneric = []domain.ShockType{
	domain.ShockPolicyRateChange,
	domain.ShockRegulatoryChange,
	domain.ShockMarketCrash,
	domain.ShockTradeWar,
	domain.ShockPandemic,
	domain.ShockCybersecurityBreach,
	domain.ShockClimateEvent,
	domain.ShockPoliticalInstability,
}

func genericShocks(intensity float64, duration int) []domain.Shock {
	shocks := make([]domain.Shock, len(allGeneric))
	for i, t := range allGeneric {
		shocks[i] = domain.Shock{Type: t, Jurisdiction: "US", Intensity: intensity, DurationDays: duration, Confidence: 0.8}
	}
	return shocks
}

func TestBuiltin_EveryDomainReportsItsMetrics(t *testing.T) {
	for _, d := range Builtin() {
		t.Run(d.Key(), func(t *testing.T) {
			features, err := d.ExtractFeatures(nil)
			require.NoError(t, err)

			for _, shocks := range [][]domain.Shock{nil, genericShocks(0.5, 90), genericShocks(1, 365)} {
				out := d.SimulateResponse(features, shocks)
				for _, m := range d.ReportingMetrics() {
					v, ok := out[m]
					assert.True(t, ok, "missing metric %s", m)
					assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "metric %s not finite", m)
				}
				assert.Len(t, out, len(d.ReportingMetrics()))

				loss := d.LossIndex(out)
				assert.GreaterOrEqual(t, loss, 0.0)
				assert.LessOrEqual(t, loss, 1.0)
			}
		})
	}
}

func TestBuiltin_FeatureSpecSortedAndValid(t *testing.T) {
	for _, d := range Builtin() {
		spec := d.FeatureSpec()
		require.NotEmpty(t, spec, d.Key())
		for i, fd := range spec {
			if i > 0 {
				assert.Less(t, spec[i-1].Name, fd.Name, d.Key())
			}
			assert.GreaterOrEqual(t, fd.Default, fd.Min, "%s.%s", d.Key(), fd.Name)
			assert.LessOrEqual(t, fd.Default, fd.Max, "%s.%s", d.Key(), fd.Name)
		}
		assert.NotEmpty(t, d.RiskFactors(), d.Key())
		assert.NotEmpty(t, d.Name(), d.Key())
		assert.NotEmpty(t, d.Category(), d.Key())
	}
}

func TestSimulateResponse_Deterministic(t *testing.T) {
	shocks := genericShocks(0.6, 120)
	for _, d := range Builtin() {
		f, err := d.ExtractFeatures(nil)
		require.NoError(t, err)
		assert.Equal(t, d.SimulateResponse(f, shocks), d.SimulateResponse(f, shocks), d.Key())
	}
}

func TestSimulateResponse_DoesNotMutateInputs(t *testing.T) {
	features := domain.Features{"gross_churn": 0.1}
	shocks := genericShocks(0.5, 60)
	before := domain.CloneShocks(shocks)

	SaaS.SimulateResponse(features, shocks)

	assert.Equal(t, domain.Features{"gross_churn": 0.1}, features)
	assert.Equal(t, before, shocks)
}

func TestSaaS_MarketSaturation(t *testing.T) {
	f, err := SaaS.ExtractFeatures(nil)
	require.NoError(t, err)

	out := SaaS.SimulateResponse(f, []domain.Shock{
		{Type: shockMarketSaturation, Intensity: 1, DurationDays: 180, Confidence: 1},
	})
	assert.InDelta(t, -0.20, out["arr_growth_delta"], 1e-9)
	assert.InDelta(t, 0.15, out["churn_delta"], 1e-9)
	assert.InDelta(t, -3.0, out["runway_change"], 1e-9)
	assert.InDelta(t, 0.12, out["ndr_risk"], 1e-9)
	assert.InDelta(t, 0.4, SaaS.LossIndex(out), 1e-9)
}

func TestSaaS_CapsApply(t *testing.T) {
	f, err := SaaS.ExtractFeatures(nil)
	require.NoError(t, err)

	var shocks []domain.Shock
	for i := 0; i < 20; i++ {
		shocks = append(shocks, domain.Shock{Type: shockMarketSaturation, Intensity: 1, DurationDays: 365})
	}
	out := SaaS.SimulateResponse(f, shocks)
	assert.Equal(t, -0.5, out["arr_growth_delta"])
	assert.Equal(t, 0.3, out["churn_delta"])
	assert.Equal(t, -12.0, out["runway_change"])
	assert.Equal(t, 1.0, SaaS.LossIndex(out))
}

func TestSimulateResponse_UnknownShockTypeIgnored(t *testing.T) {
	f, err := VentureCapital.ExtractFeatures(nil)
	require.NoError(t, err)

	baseline := VentureCapital.SimulateResponse(f, nil)
	out := VentureCapital.SimulateResponse(f, []domain.Shock{{Type: "asteroid", Intensity: 1, DurationDays: 10}})
	assert.Equal(t, baseline, out)
	assert.InDelta(t, 0.15, out["portfolio_var"], 1e-9)
}

func TestSimulateResponse_GenericAliasesApply(t *testing.T) {
	for _, d := range Builtin() {
		f, err := d.ExtractFeatures(nil)
		require.NoError(t, err)
		baseline := d.SimulateResponse(f, nil)
		shocked := d.SimulateResponse(f, genericShocks(0.8, 180))
		assert.NotEqual(t, baseline, shocked, d.Key())
	}
}

func TestSimulateResponse_LongerShocksWeighMore(t *testing.T) {
	f, err := Fintech.ExtractFeatures(nil)
	require.NoError(t, err)

	short := Fintech.SimulateResponse(f, []domain.Shock{{Type: shockFraudSpike, Intensity: 0.5, DurationDays: 1}})
	long := Fintech.SimulateResponse(f, []domain.Shock{{Type: shockFraudSpike, Intensity: 0.5, DurationDays: 365}})
	assert.Less(t, long["tpv_growth_delta"], short["tpv_growth_delta"])
}

func TestSimulateResponse_SensitivityFromFeatures(t *testing.T) {
	low, err := SaaS.ExtractFeatures(map[string]float64{"gross_churn": 0.01})
	require.NoError(t, err)
	high, err := SaaS.ExtractFeatures(map[string]float64{"gross_churn": 0.3})
	require.NoError(t, err)

	shocks := []domain.Shock{{Type: domain.ShockMarketCrash, Intensity: 0.7, DurationDays: 180}}
	assert.Less(t, SaaS.SimulateResponse(high, shocks)["arr_growth_delta"], SaaS.SimulateResponse(low, shocks)["arr_growth_delta"])
}

func TestExtractFeatures(t *testing.T) {
	f, err := SaaS.ExtractFeatures(map[string]float64{"arr": 1_000_000, "ndr": 1.0})
	require.NoError(t, err)
	assert.Equal(t, 1_000_000.0, f["arr"])
	assert.Equal(t, 0.05, f["gross_churn"])
	assert.Len(t, f, len(SaaS.FeatureSpec()))

	tests := []struct {
		name string
		raw  map[string]float64
	}{
		{"unknown feature", map[string]float64{"tvl": 1}},
		{"ratio above one", map[string]float64{"ndr": 1.5}},
		{"negative amount", map[string]float64{"arr": -1}},
		{"fractional int", map[string]float64{"sales_cycle_days": 10.5}},
		{"nan", map[string]float64{"arr": math.NaN()}},
		{"inf", map[string]float64{"arr": math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SaaS.ExtractFeatures(tt.raw)
			assert.True(t, errors.Is(err, ErrInvalidFeature), "got %v", err)
		})
	}
}

func TestMapEventsToShocks(t *testing.T) {
	events := []domain.Event{
		{Category: "funding", Title: "Rival raises $500M", Jurisdiction: "US", Sentiment: -0.5, Confidence: 0.7, OffsetDays: 3},
		{Category: "weather", Title: "Sunny", Jurisdiction: "US", Sentiment: 0.9, Confidence: 0.9},
		{Category: "market_saturation", Title: "Consolidation", Jurisdiction: "EU", Sentiment: -2, Confidence: 0.6},
	}
	shocks := SaaS.MapEventsToShocks(events)
	require.Len(t, shocks, 2)

	assert.Equal(t, shockCompetitorMegaRound, shocks[0].Type)
	assert.InDelta(t, 0.3, shocks[0].Intensity, 1e-9)
	assert.Equal(t, 90, shocks[0].DurationDays)
	assert.Equal(t, 3, shocks[0].StartOffsetDays)
	assert.Equal(t, []string{"Rival raises $500M"}, shocks[0].SourceRefs)

	assert.Equal(t, shockMarketSaturation, shocks[1].Type)
	assert.InDelta(t, 0.7, shocks[1].Intensity, 1e-9)
	assert.Equal(t, "EU", shocks[1].Jurisdiction)
}

func TestGreentech_PolicyIsTailwind(t *testing.T) {
	f, err := Greentech.ExtractFeatures(nil)
	require.NoError(t, err)

	baseline := Greentech.SimulateResponse(f, nil)
	out := Greentech.SimulateResponse(f, []domain.Shock{{Type: shockClimatePolicyChange, Intensity: 0.8, DurationDays: 365}})
	assert.Greater(t, out["market_demand"], baseline["market_demand"])
	assert.Less(t, Greentech.LossIndex(out), Greentech.LossIndex(baseline))
}

func TestHealthtech_BaseFromFeatures(t *testing.T) {
	f, err := HealthtechBiotech.ExtractFeatures(map[string]float64{"clinical_trial_success_rate": 0.55})
	require.NoError(t, err)

	out := HealthtechBiotech.SimulateResponse(f, nil)
	assert.InDelta(t, 0.55, out["trial_success_rate"], 1e-9)
	assert.InDelta(t, 0.2, out["market_access_risk"], 1e-9)
}

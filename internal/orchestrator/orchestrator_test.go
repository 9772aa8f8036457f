package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup-risk-lab/internal/cache"
	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/riskdomain"
	"startup-risk-lab/internal/shock"
	"startup-risk-lab/internal/simulation"
	"startup-risk-lab/internal/storage"
	"startup-risk-lab/internal/storage/memory"
)

type fixture struct {
	orch     *Orchestrator
	results  *memory.ScenarioResultStore
	outcomes *memory.IterationOutcomeStore
	cache    *cache.Memory
}

func newFixture() *fixture {
	f := &fixture{
		results:  memory.NewScenarioResultStore(),
		outcomes: memory.NewIterationOutcomeStore(),
		cache:    cache.NewMemory(time.Hour, 16),
	}
	f.orch = New(Options{
		Engine:       simulation.New(simulation.Options{Workers: 2}),
		ResultStore:  f.results,
		OutcomeStore: f.outcomes,
		Cache:        f.cache,
	})
	return f
}

func seed(v int64) *int64 { return &v }

func saasParams() domain.ScenarioParameters {
	return domain.ScenarioParameters{
		Name:                   "saas-baseline",
		DomainKey:              "saas",
		NumIterations:          40,
		TimeHorizonDays:        180,
		Seed:                   seed(42),
		CorrelationProbability: 0.3,
	}
}

func testPortfolio() *domain.Portfolio {
	return &domain.Portfolio{
		ID:   "p-1",
		Name: "seed fund",
		Holdings: []domain.Holding{
			{DomainKey: "saas", Weight: 0.5, Value: decimal.NewFromInt(500_000)},
			{DomainKey: "fintech", Weight: 0.3, Value: decimal.NewFromInt(300_000)},
			{DomainKey: "greentech", Weight: 0.2, Value: decimal.NewFromInt(200_000)},
		},
	}
}

// brokenCache fails every operation.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (*domain.ScenarioResult, bool, error) {
	return nil, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, *domain.ScenarioResult) error {
	return errors.New("cache down")
}

func TestRunScenario_PersistsResultAndOutcomes(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	run, err := f.orch.RunScenario(ctx, saasParams())
	require.NoError(t, err)
	assert.False(t, run.Cached)
	assert.Equal(t, domain.RunCompleted, run.Result.State)

	stored, err := f.results.GetByID(ctx, run.Result.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Results, 40)
	assert.Equal(t, run.Result.SummaryStats, stored.SummaryStats)

	// One long-format row per (iteration, metric).
	metricCount := len(run.Result.SummaryStats)
	rows, err := f.outcomes.GetByResultID(ctx, run.Result.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 40*metricCount)

	metric := run.Result.MetricKeys()[0]
	values, err := f.outcomes.GetMetricValues(ctx, run.Result.ID, metric)
	require.NoError(t, err)
	require.Len(t, values, 40)
	assert.Equal(t, run.Result.Results[0].Outcomes[metric], values[0])
}

func TestRunScenario_SeededRunIsCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, err := f.orch.RunScenario(ctx, saasParams())
	require.NoError(t, err)
	second, err := f.orch.RunScenario(ctx, saasParams())
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result.ID, second.Result.ID)
	assert.Equal(t, 1, f.cache.Len())

	list, err := f.orch.ListResults(ctx, "saas")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRunScenario_DifferentSeedMisses(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.orch.RunScenario(ctx, saasParams())
	require.NoError(t, err)

	p := saasParams()
	p.Seed = seed(43)
	run, err := f.orch.RunScenario(ctx, p)
	require.NoError(t, err)
	assert.False(t, run.Cached)
	assert.Equal(t, 2, f.cache.Len())
}

func TestRunScenario_UnseededRunIsNotCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	p := saasParams()
	p.Seed = nil
	first, err := f.orch.RunScenario(ctx, p)
	require.NoError(t, err)
	second, err := f.orch.RunScenario(ctx, p)
	require.NoError(t, err)

	assert.False(t, second.Cached)
	assert.NotEqual(t, first.Result.ID, second.Result.ID)
	assert.Equal(t, 0, f.cache.Len())
}

func TestRunScenario_CacheHitRepersistsMissingResult(t *testing.T) {
	ctx := context.Background()
	shared := cache.NewMemory(time.Hour, 16)

	first := New(Options{Cache: shared})
	run, err := first.RunScenario(ctx, saasParams())
	require.NoError(t, err)

	// A fresh store behind the same cache, as after a restart with Redis.
	store := memory.NewScenarioResultStore()
	second := New(Options{Cache: shared, ResultStore: store})
	hit, err := second.RunScenario(ctx, saasParams())
	require.NoError(t, err)
	assert.True(t, hit.Cached)

	stored, err := store.GetByID(ctx, run.Result.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Result.Seed, stored.Seed)
}

func TestRunScenario_CacheFailureDegradesToMiss(t *testing.T) {
	ctx := context.Background()
	orch := New(Options{Cache: brokenCache{}})

	run, err := orch.RunScenario(ctx, saasParams())
	require.NoError(t, err)
	assert.False(t, run.Cached)
	assert.Equal(t, domain.RunCompleted, run.Result.State)
}

func TestRunScenario_InvalidParams(t *testing.T) {
	f := newFixture()

	p := saasParams()
	p.NumIterations = 0
	_, err := f.orch.RunScenario(context.Background(), p)
	require.ErrorIs(t, err, simulation.ErrInvalidParameters)
	assert.Equal(t, 0, f.cache.Len())
}

func TestRunNamed(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	run, err := f.orch.RunNamed(ctx, NamedRequest{
		Scenario:        shock.ScenarioBlackSwan,
		DomainKey:       "fintech",
		NumIterations:   10,
		TimeHorizonDays: 90,
		Seed:            seed(1),
	})
	require.NoError(t, err)

	want, err := shock.GenerateScenarioShocks(shock.ScenarioBlackSwan)
	require.NoError(t, err)
	desc, err := shock.ScenarioDescription(shock.ScenarioBlackSwan)
	require.NoError(t, err)

	assert.Equal(t, shock.ScenarioBlackSwan, run.Result.ScenarioName)
	assert.Equal(t, desc, run.Result.Description)
	for _, it := range run.Result.Results {
		assert.Len(t, it.Shocks, len(want))
	}

	_, err = f.orch.RunNamed(ctx, NamedRequest{Scenario: "nope", DomainKey: "fintech", NumIterations: 1, TimeHorizonDays: 1})
	require.ErrorIs(t, err, shock.ErrUnknownScenario)
}

func TestRunWhatIf(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	base, err := f.orch.RunScenario(ctx, saasParams())
	require.NoError(t, err)

	w := domain.DefaultWhatIfParams()
	w.IntensityMultiplier = 1.5
	run, err := f.orch.RunWhatIf(ctx, base.Result.ID, w)
	require.NoError(t, err)
	assert.False(t, run.Cached)
	assert.Equal(t, base.Result.ID, run.Result.BaseResultID)
	require.NotNil(t, run.Result.WhatIf)
	assert.Equal(t, 1.5, run.Result.WhatIf.IntensityMultiplier)

	again, err := f.orch.RunWhatIf(ctx, base.Result.ID, w)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, run.Result.ID, again.Result.ID)
}

func TestRunWhatIf_UnknownBase(t *testing.T) {
	f := newFixture()
	_, err := f.orch.RunWhatIf(context.Background(), "missing", domain.DefaultWhatIfParams())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCompare(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a, err := f.orch.RunScenario(ctx, saasParams())
	require.NoError(t, err)
	p := saasParams()
	p.Name = "saas-long"
	p.TimeHorizonDays = 720
	b, err := f.orch.RunScenario(ctx, p)
	require.NoError(t, err)

	cmp, err := f.orch.Compare(ctx, a.Result.ID, b.Result.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"saas-baseline", "saas-long"}, cmp.Scenarios)
	for metric, ranked := range cmp.Rankings {
		require.Len(t, ranked, 2, metric)
		assert.GreaterOrEqual(t, ranked[0].Mean, ranked[1].Mean, metric)
	}

	_, err = f.orch.Compare(ctx, a.Result.ID)
	require.ErrorIs(t, err, simulation.ErrNotEnoughScenarios)

	_, err = f.orch.Compare(ctx, a.Result.ID, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAnalyzePortfolio(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPortfolio()

	req := PortfolioRequest{
		NumIterations:          30,
		TimeHorizonDays:        180,
		Seed:                   seed(9),
		CorrelationProbability: 0.3,
		RiskTolerance:          riskdomain.RiskLow,
	}
	a, err := f.orch.AnalyzePortfolio(ctx, p, req)
	require.NoError(t, err)

	assert.Equal(t, int64(9), a.Seed)
	assert.Len(t, a.ResultIDs, 3)
	assert.Len(t, a.Risk.Domains, 3)
	assert.True(t, a.TotalValue.Equal(decimal.NewFromInt(1_000_000)))
	assert.GreaterOrEqual(t, a.Risk.VaR95, 0.0)
	assert.LessOrEqual(t, a.Risk.VaR95, 1.0)
	assert.LessOrEqual(t, a.Risk.VaR95, a.Risk.VaR99+1e-12)
	assert.True(t, a.ValueAtRisk.Equal(a.TotalValue.Mul(decimal.NewFromFloat(a.Risk.VaR95)).Round(2)))
	assert.Equal(t, riskdomain.RiskLow, a.Recommendations.RiskTolerance)

	// Every domain run saw the same sampled shocks.
	var first []domain.Shock
	for key, id := range a.ResultIDs {
		r, err := f.orch.GetResult(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, key, r.DomainKey)
		assert.Equal(t, int64(9), r.Seed)
		if first == nil {
			first = r.Results[0].Shocks
			continue
		}
		assert.Equal(t, first, r.Results[0].Shocks)
	}

	// Same seed: every domain run is served from cache.
	again, err := f.orch.AnalyzePortfolio(ctx, p, req)
	require.NoError(t, err)
	assert.Equal(t, a.ResultIDs, again.ResultIDs)
	assert.Equal(t, a.Risk.VaR95, again.Risk.VaR95)
}

func TestAnalyzePortfolio_Invalid(t *testing.T) {
	f := newFixture()
	p := testPortfolio()
	p.Holdings[0].Weight = 0.9

	_, err := f.orch.AnalyzePortfolio(context.Background(), p, PortfolioRequest{NumIterations: 1, TimeHorizonDays: 1})
	require.ErrorIs(t, err, domain.ErrInvalidPortfolio)
}

func TestAnalyzePortfolio_UnknownDomain(t *testing.T) {
	f := newFixture()
	p := &domain.Portfolio{
		Name:     "odd",
		Holdings: []domain.Holding{{DomainKey: "crypto", Weight: 1, Value: decimal.NewFromInt(1)}},
	}

	_, err := f.orch.AnalyzePortfolio(context.Background(), p, PortfolioRequest{NumIterations: 1, TimeHorizonDays: 1})
	require.ErrorIs(t, err, riskdomain.ErrUnknownDomain)
}

func TestSimulatePortfolio(t *testing.T) {
	f := newFixture()

	res, err := f.orch.SimulatePortfolio(testPortfolio(), shock.ScenarioSevereRecession)
	require.NoError(t, err)
	assert.Len(t, res.Domains, 3)
	assert.Equal(t, "fintech", res.Domains[0].DomainKey)
	assert.Positive(t, res.ShocksApplied)

	_, err = f.orch.SimulatePortfolio(testPortfolio(), "nope")
	require.ErrorIs(t, err, shock.ErrUnknownScenario)
}

func TestStressTest(t *testing.T) {
	f := newFixture()

	results, err := f.orch.StressTest(testPortfolio())
	require.NoError(t, err)
	require.Len(t, results, len(shock.StressScenarios))
	for i, sr := range results {
		assert.Equal(t, shock.StressScenarios[i], sr.Scenario)
		assert.NoError(t, sr.Err)
		assert.NotNil(t, sr.Result)
	}

	results, err = f.orch.StressTest(testPortfolio(), shock.ScenarioBlackSwan, "nope")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotNil(t, results[0].Result)
	assert.ErrorIs(t, results[1].Err, shock.ErrUnknownScenario)
}

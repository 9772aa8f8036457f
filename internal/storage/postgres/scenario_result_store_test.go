package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/storage"
)

func createTestResult(id, domainKey string, createdAt time.Time) *domain.ScenarioResult {
	seed := int64(42)
	return &domain.ScenarioResult{
		ID:              id,
		ScenarioName:    "baseline",
		Description:     "test run",
		DomainKey:       domainKey,
		NumIterations:   2,
		TimeHorizonDays: 90,
		Seed:            seed,
		State:           domain.RunCompleted,
		Parameters: domain.ScenarioParameters{
			Name:                   "baseline",
			DomainKey:              domainKey,
			NumIterations:          2,
			TimeHorizonDays:        90,
			Seed:                   &seed,
			CorrelationProbability: 0.3,
			BaseFeatures:           map[string]float64{"gross_churn": 0.05},
		},
		Results: []domain.IterationResult{
			{
				Index: 0,
				Shocks: []domain.Shock{{
					Type: domain.ShockMarketCrash, Jurisdiction: "US", Intensity: 0.5,
					DurationDays: 30, Confidence: 0.8, StartOffsetDays: 3,
				}},
				Features:   domain.Features{"gross_churn": 0.05},
				Outcomes:   domain.Outcomes{"arr": 900_000, "burn_multiple": 1.5},
				Confidence: 0.8,
			},
			{
				Index:      1,
				Shocks:     []domain.Shock{},
				Features:   domain.Features{"gross_churn": 0.05},
				Outcomes:   domain.Outcomes{"arr": 1_100_000, "burn_multiple": 1.1},
				Confidence: 1,
			},
		},
		SummaryStats: map[string]domain.MetricSummary{
			"arr":           {Mean: 1_000_000, Std: 100_000, Min: 900_000, Max: 1_100_000, Median: 1_000_000},
			"burn_multiple": {Mean: 1.3, Std: 0.2, Min: 1.1, Max: 1.5, Median: 1.3},
		},
		Percentiles: map[string]domain.Percentiles{
			"arr":           {910_000, 920_000, 950_000, 1_000_000, 1_050_000, 1_080_000, 1_090_000},
			"burn_multiple": {1.12, 1.14, 1.2, 1.3, 1.4, 1.46, 1.48},
		},
		CreatedAt:   createdAt,
		CompletedAt: createdAt.Add(time.Second),
	}
}

func TestScenarioResultStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewScenarioResultStore(pool)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := createTestResult("result-001", "saas", created)
	require.NoError(t, store.Insert(ctx, r))

	got, err := store.GetByID(ctx, "result-001")
	require.NoError(t, err)

	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.ScenarioName, got.ScenarioName)
	assert.Equal(t, r.Description, got.Description)
	assert.Equal(t, r.DomainKey, got.DomainKey)
	assert.Equal(t, r.Seed, got.Seed)
	assert.Equal(t, domain.RunCompleted, got.State)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.True(t, r.CompletedAt.Equal(got.CompletedAt))
	assert.Equal(t, r.Parameters, got.Parameters)
	assert.Equal(t, r.SummaryStats, got.SummaryStats)
	assert.Equal(t, r.Percentiles, got.Percentiles)
	assert.Empty(t, got.BaseResultID)
	assert.Nil(t, got.WhatIf)

	require.Len(t, got.Results, 2)
	assert.Equal(t, r.Results[0], got.Results[0])
	assert.Equal(t, r.Results[1].Outcomes, got.Results[1].Outcomes)
	assert.Empty(t, got.Results[1].Shocks)
}

func TestScenarioResultStore_WhatIfFields(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewScenarioResultStore(pool)

	base := createTestResult("base", "saas", time.Unix(1000, 0).UTC())
	require.NoError(t, store.Insert(ctx, base))

	w := domain.DefaultWhatIfParams()
	w.AdditionalShocks = 2
	derived := createTestResult("derived", "saas", time.Unix(2000, 0).UTC())
	derived.BaseResultID = "base"
	derived.WhatIf = &w
	require.NoError(t, store.Insert(ctx, derived))

	got, err := store.GetByID(ctx, "derived")
	require.NoError(t, err)
	assert.Equal(t, "base", got.BaseResultID)
	require.NotNil(t, got.WhatIf)
	assert.Equal(t, w, *got.WhatIf)
}

func TestScenarioResultStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewScenarioResultStore(pool)

	r := createTestResult("dup", "saas", time.Unix(1000, 0).UTC())
	require.NoError(t, store.Insert(ctx, r))

	err := store.Insert(ctx, r)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestScenarioResultStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewScenarioResultStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestScenarioResultStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewScenarioResultStore(pool)

	err := store.Insert(context.Background(), &domain.ScenarioResult{ID: "no-domain"})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestScenarioResultStore_ListByDomain(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewScenarioResultStore(pool)

	require.NoError(t, store.Insert(ctx, createTestResult("b", "saas", time.Unix(2000, 0).UTC())))
	require.NoError(t, store.Insert(ctx, createTestResult("a", "saas", time.Unix(2000, 0).UTC())))
	require.NoError(t, store.Insert(ctx, createTestResult("c", "saas", time.Unix(1000, 0).UTC())))
	require.NoError(t, store.Insert(ctx, createTestResult("d", "fintech", time.Unix(500, 0).UTC())))

	results, err := store.ListByDomain(ctx, "saas")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "c", results[0].ID)
	assert.Equal(t, "a", results[1].ID)
	assert.Equal(t, "b", results[2].ID)
	for _, r := range results {
		assert.Nil(t, r.Results)
		assert.NotEmpty(t, r.SummaryStats)
	}

	empty, err := store.ListByDomain(ctx, "greentech")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

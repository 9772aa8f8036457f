// Package orchestrator coordinates scenario execution end to end.
// Flow: parameter fingerprint → cache → engine → persistence → cache.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"startup-risk-lab/internal/cache"
	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/idhash"
	"startup-risk-lab/internal/response"
	"startup-risk-lab/internal/shock"
	"startup-risk-lab/internal/simulation"
	"startup-risk-lab/internal/storage"
	"startup-risk-lab/internal/storage/memory"
)

// Orchestrator runs scenarios through the engine, persists their results and
// memoizes reproducible runs.
type Orchestrator struct {
	engine    *simulation.Engine
	simulator *response.Simulator

	// Stores
	resultStore  storage.ScenarioResultStore
	outcomeStore storage.IterationOutcomeStore // optional

	cache  cache.ResultCache
	logger zerolog.Logger
}

// Options for creating Orchestrator.
type Options struct {
	Engine       *simulation.Engine            // nil: engine with default registry, one worker
	Simulator    *response.Simulator           // nil: simulator over the engine's registry
	ResultStore  storage.ScenarioResultStore   // nil: in-memory store
	OutcomeStore storage.IterationOutcomeStore // nil: outcomes are not written in long format
	Cache        cache.ResultCache             // nil: no caching
	Logger       *zerolog.Logger               // nil: no logging
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		engine:       opts.Engine,
		simulator:    opts.Simulator,
		resultStore:  opts.ResultStore,
		outcomeStore: opts.OutcomeStore,
		cache:        opts.Cache,
		logger:       zerolog.Nop(),
	}
	if opts.Logger != nil {
		o.logger = opts.Logger.With().Str("component", "orchestrator").Logger()
	}
	if o.engine == nil {
		o.engine = simulation.New(simulation.Options{Logger: opts.Logger})
	}
	if o.simulator == nil {
		o.simulator = response.New(response.Options{Registry: o.engine.Registry(), Logger: opts.Logger})
	}
	if o.resultStore == nil {
		o.resultStore = memory.NewScenarioResultStore()
	}
	if o.cache == nil {
		o.cache = cache.Nop{}
	}
	return o
}

// Engine returns the scenario engine.
func (o *Orchestrator) Engine() *simulation.Engine {
	return o.engine
}

// RunResult is a completed run and whether it was served from cache.
type RunResult struct {
	Result *domain.ScenarioResult
	Cached bool
}

// RunScenario executes params, or returns the memoized result of an identical
// seeded run. Completed results are persisted before they are returned.
func (o *Orchestrator) RunScenario(ctx context.Context, params domain.ScenarioParameters) (*RunResult, error) {
	key, cacheable := idhash.ComputeScenarioKey(params)
	return o.run(ctx, key, cacheable, func() (*domain.ScenarioResult, error) {
		return o.engine.RunScenario(ctx, params)
	})
}

// NamedRequest runs a curated shock template against one domain.
type NamedRequest struct {
	Scenario        string // template name, see shock.ScenarioNames
	DomainKey       string
	NumIterations   int
	TimeHorizonDays int
	Seed            *int64
	BaseFeatures    map[string]float64
	FeatureJitter   float64
}

// RunNamed runs a predefined shock template as the custom shocks of every iteration.
// Templates are deterministic, so variation across iterations comes from FeatureJitter.
func (o *Orchestrator) RunNamed(ctx context.Context, req NamedRequest) (*RunResult, error) {
	shocks, err := shock.GenerateScenarioShocks(req.Scenario)
	if err != nil {
		return nil, err
	}
	desc, err := shock.ScenarioDescription(req.Scenario)
	if err != nil {
		return nil, err
	}

	return o.RunScenario(ctx, domain.ScenarioParameters{
		Name:            req.Scenario,
		Description:     desc,
		DomainKey:       req.DomainKey,
		NumIterations:   req.NumIterations,
		TimeHorizonDays: req.TimeHorizonDays,
		Seed:            req.Seed,
		CustomShocks:    shocks,
		BaseFeatures:    req.BaseFeatures,
		FeatureJitter:   req.FeatureJitter,
	})
}

// RunWhatIf loads the base result by ID and runs the transformed scenario.
// The base is immutable, so what-if runs are always memoizable.
func (o *Orchestrator) RunWhatIf(ctx context.Context, baseID string, w domain.WhatIfParams) (*RunResult, error) {
	base, err := o.GetResult(ctx, baseID)
	if err != nil {
		return nil, err
	}
	return o.run(ctx, idhash.ComputeWhatIfKey(baseID, w), true, func() (*domain.ScenarioResult, error) {
		return o.engine.RunWhatIf(ctx, base, w)
	})
}

// GetResult loads a persisted result with its iteration records.
func (o *Orchestrator) GetResult(ctx context.Context, id string) (*domain.ScenarioResult, error) {
	r, err := o.resultStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load result %s: %w", id, err)
	}
	return r, nil
}

// ListResults lists persisted results of a domain without iteration records.
func (o *Orchestrator) ListResults(ctx context.Context, domainKey string) ([]*domain.ScenarioResult, error) {
	return o.resultStore.ListByDomain(ctx, domainKey)
}

// Compare loads persisted results and compares their metric means.
func (o *Orchestrator) Compare(ctx context.Context, ids ...string) (*simulation.Comparison, error) {
	results := make([]*domain.ScenarioResult, 0, len(ids))
	for _, id := range ids {
		r, err := o.GetResult(ctx, id)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return simulation.CompareScenarios(results...)
}

// run is the shared cache → execute → persist → cache flow.
func (o *Orchestrator) run(ctx context.Context, key string, cacheable bool, execute func() (*domain.ScenarioResult, error)) (*RunResult, error) {
	// 1. Cache lookup. Cache failures degrade to a miss.
	if cacheable {
		r, ok, err := o.cache.Get(ctx, key)
		if err != nil {
			o.logger.Warn().Err(err).Str("key", key).Msg("result cache lookup failed")
		}
		if ok {
			// The cache may outlive the store (e.g. Redis with an in-memory store).
			if err := o.persistIfMissing(ctx, r); err != nil {
				return nil, err
			}
			o.logger.Debug().Str("result_id", r.ID).Msg("scenario served from cache")
			return &RunResult{Result: r, Cached: true}, nil
		}
	}

	// 2. Execute
	r, err := execute()
	if err != nil {
		return nil, err
	}

	// 3. Persist
	if err := o.persist(ctx, r); err != nil {
		return nil, err
	}

	// 4. Memoize
	if cacheable {
		if err := o.cache.Set(ctx, key, r); err != nil {
			o.logger.Warn().Err(err).Str("result_id", r.ID).Msg("result cache store failed")
		}
	}
	return &RunResult{Result: r}, nil
}

func (o *Orchestrator) persist(ctx context.Context, r *domain.ScenarioResult) error {
	if err := o.resultStore.Insert(ctx, r); err != nil {
		return fmt.Errorf("persist result %s: %w", r.ID, err)
	}
	if o.outcomeStore != nil {
		if err := o.outcomeStore.InsertBulk(ctx, domain.FlattenOutcomes(r)); err != nil {
			return fmt.Errorf("persist outcomes of %s: %w", r.ID, err)
		}
	}
	o.logger.Info().
		Str("result_id", r.ID).
		Str("domain", r.DomainKey).
		Int("iterations", r.NumIterations).
		Msg("scenario result persisted")
	return nil
}

func (o *Orchestrator) persistIfMissing(ctx context.Context, r *domain.ScenarioResult) error {
	_, err := o.resultStore.GetByID(ctx, r.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return o.persist(ctx, r)
	}
	if err != nil {
		return fmt.Errorf("check cached result %s: %w", r.ID, err)
	}
	return nil
}

// newSeed draws a seed for runs that must share one across domains.
func newSeed() int64 {
	return rand.Int64()
}

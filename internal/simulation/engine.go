// Package simulation runs Monte-Carlo scenarios: per-iteration shock sampling,
// domain response evaluation and aggregation into a ScenarioResult.
package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/riskdomain"
	"startup-risk-lab/internal/shock"
)

// Engine creates and executes scenario runs.
// It is safe for concurrent use; each Run owns its own state.
type Engine struct {
	registry *riskdomain.Registry
	workers  int
	logger   zerolog.Logger
	now      func() time.Time
	newID    func() string
}

// Options contains configuration for creating an Engine.
type Options struct {
	Registry *riskdomain.Registry // nil: riskdomain.Default()
	Workers  int                  // parallel iterations; <= 0 means 1
	Logger   *zerolog.Logger      // nil: no logging
	Now      func() time.Time     // nil: time.Now
}

// New creates a scenario engine.
func New(opts Options) *Engine {
	e := &Engine{
		registry: opts.Registry,
		workers:  opts.Workers,
		logger:   zerolog.Nop(),
		now:      opts.Now,
		newID:    func() string { return uuid.NewString() },
	}
	if e.registry == nil {
		e.registry = riskdomain.Default()
	}
	if e.workers <= 0 {
		e.workers = 1
	}
	if opts.Logger != nil {
		e.logger = opts.Logger.With().Str("component", "simulation").Logger()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Registry returns the domain registry used by the engine.
func (e *Engine) Registry() *riskdomain.Registry {
	return e.registry
}

// NewRun creates a run in state CREATED. Parameters are copied.
func (e *Engine) NewRun(params domain.ScenarioParameters) *Run {
	return &Run{
		engine: e,
		params: params.Clone(),
		state:  domain.RunCreated,
	}
}

// RunScenario validates params and executes a run to completion.
func (e *Engine) RunScenario(ctx context.Context, params domain.ScenarioParameters) (*domain.ScenarioResult, error) {
	return e.NewRun(params).Execute(ctx)
}

// plan is a validated, seeded run description shared read-only by all iterations.
type plan struct {
	params   domain.ScenarioParameters
	seed     int64
	dom      riskdomain.Domain
	features domain.Features
	spec     []riskdomain.FeatureDef
	count    int
	whatIf   *whatIfTransform
}

// prepare validates params and resolves everything iterations need.
// All parameter errors surface here, before any iteration runs.
func (e *Engine) prepare(params domain.ScenarioParameters) (*plan, error) {
	// 1. Resolve domain
	dom, err := e.registry.Get(params.DomainKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}

	// 2. Scalar bounds
	if params.NumIterations < 1 {
		return nil, invalidf("num_iterations %d < 1", params.NumIterations)
	}
	if params.TimeHorizonDays < 1 {
		return nil, invalidf("time_horizon_days %d < 1", params.TimeHorizonDays)
	}
	if !inUnit(params.CorrelationProbability) {
		return nil, invalidf("correlation_probability %v outside [0, 1]", params.CorrelationProbability)
	}
	if !inUnit(params.FeatureJitter) {
		return nil, invalidf("feature_jitter %v outside [0, 1]", params.FeatureJitter)
	}
	if params.ShocksPerIteration < 0 {
		return nil, invalidf("shocks_per_iteration %d < 0", params.ShocksPerIteration)
	}

	// 3. Shock source
	if len(params.CustomShocks) > 0 && params.HasFilters() {
		return nil, invalidf("custom_shocks cannot be combined with shock_types or jurisdictions")
	}
	for i, s := range params.CustomShocks {
		if err := shock.ValidateValues(s); err != nil {
			return nil, fmt.Errorf("%w: custom shock %d: %w", ErrInvalidParameters, i, err)
		}
	}
	for _, t := range params.ShockTypes {
		if !shock.IsGeneric(t) {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidParameters, shock.ErrUnknownShockType, t)
		}
	}

	// 4. Base features
	features, err := dom.ExtractFeatures(params.BaseFeatures)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}

	// 5. Seed
	p := &plan{
		params:   params.Clone(),
		dom:      dom,
		features: features,
		spec:     dom.FeatureSpec(),
		count:    params.ShockCount(),
	}
	if params.Seed != nil {
		p.seed = *params.Seed
	} else {
		p.seed = rand.Int64()
	}
	seed := p.seed
	p.params.Seed = &seed
	return p, nil
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

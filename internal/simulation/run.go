package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/metrics"
	"startup-risk-lab/internal/observability"
)

// Run is one execution of a scenario.
// States: CREATED → RUNNING → COMPLETED | FAILED | CANCELLED.
type Run struct {
	engine *Engine
	params domain.ScenarioParameters
	base   *domain.ScenarioResult // set for what-if runs
	whatIf *domain.WhatIfParams

	mu     sync.Mutex
	state  domain.RunState
	result *domain.ScenarioResult
	err    error
}

// State returns the current run state.
func (r *Run) State() domain.RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Result returns the result of a COMPLETED run, nil otherwise.
func (r *Run) Result() *domain.ScenarioResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// Err returns the error of a FAILED or CANCELLED run.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Execute runs all iterations and aggregates them.
// A run executes at most once; later calls return ErrRunAlreadyStarted.
// Cancelling ctx stops the run between iterations with ErrCancelled and
// discards partial results.
func (r *Run) Execute(ctx context.Context) (*domain.ScenarioResult, error) {
	r.mu.Lock()
	if r.state != domain.RunCreated {
		r.mu.Unlock()
		return nil, ErrRunAlreadyStarted
	}
	r.state = domain.RunRunning
	r.mu.Unlock()

	e := r.engine
	started := e.now()
	observability.RunStarted()

	res, err := r.execute(ctx)

	state := domain.RunCompleted
	switch {
	case errors.Is(err, ErrCancelled):
		state = domain.RunCancelled
	case err != nil:
		state = domain.RunFailed
	}
	observability.RecordScenarioRun(r.params.DomainKey, string(state), e.now().Sub(started))

	r.mu.Lock()
	r.state = state
	r.err = err
	if err == nil {
		res.State = state
		r.result = res
	}
	r.mu.Unlock()

	if err != nil {
		e.logger.Warn().Err(err).
			Str("scenario", r.params.Name).
			Str("domain", r.params.DomainKey).
			Str("state", string(state)).
			Msg("scenario run did not complete")
		return nil, err
	}
	return res, nil
}

func (r *Run) execute(ctx context.Context) (*domain.ScenarioResult, error) {
	e := r.engine
	createdAt := e.now()

	// 1. Validate and seed
	var (
		p   *plan
		err error
	)
	if r.base != nil {
		p, err = e.prepareWhatIf(r.base, *r.whatIf)
	} else {
		p, err = e.prepare(r.params)
	}
	if err != nil {
		return nil, err
	}

	log := e.logger.With().
		Str("scenario", p.params.Name).
		Str("domain", p.dom.Key()).
		Int64("seed", p.seed).
		Logger()
	log.Info().
		Int("iterations", p.params.NumIterations).
		Int("horizon_days", p.params.TimeHorizonDays).
		Int("workers", e.workers).
		Msg("scenario run started")

	// 2. Iterate; records are stored by index so worker count does not affect order
	records, err := e.iterateAll(ctx, p)
	if err != nil {
		var iterErr *IterationError
		if errors.As(err, &iterErr) {
			observability.RecordIterationFailure(p.dom.Key())
		}
		return nil, err
	}

	shocks := 0
	for _, rec := range records {
		shocks += len(rec.Shocks)
	}
	observability.RecordIterations(p.dom.Key(), len(records), shocks)

	// 3. Aggregate
	summary, err := metrics.Summarize(records)
	if err != nil {
		return nil, err
	}

	res := &domain.ScenarioResult{
		ID:              e.newID(),
		ScenarioName:    p.params.Name,
		Description:     p.params.Description,
		DomainKey:       p.dom.Key(),
		NumIterations:   p.params.NumIterations,
		TimeHorizonDays: p.params.TimeHorizonDays,
		Seed:            p.seed,
		Parameters:      p.params,
		Results:         records,
		SummaryStats:    summary.Stats,
		Percentiles:     summary.Percentiles,
		CreatedAt:       createdAt,
		CompletedAt:     e.now(),
	}
	if r.base != nil {
		res.BaseResultID = r.base.ID
		w := *r.whatIf
		res.WhatIf = &w
	}

	log.Info().
		Int("metrics", len(res.SummaryStats)).
		Dur("elapsed", res.CompletedAt.Sub(createdAt)).
		Msg("scenario run completed")
	return res, nil
}

// iterateAll runs every iteration of p with bounded parallelism.
func (e *Engine) iterateAll(ctx context.Context, p *plan) ([]domain.IterationResult, error) {
	n := p.params.NumIterations
	records := make([]domain.IterationResult, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := p.iterate(i)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	err := g.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

package simulation

import (
	"context"
	"errors"
	"math"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/shock"
)

// whatIfTransform rewrites a base iteration's shocks.
type whatIfTransform struct {
	intensity   float64
	duration    float64
	correlation float64 // for additional shocks
	extra       int
}

func (t *whatIfTransform) apply(p *plan, i int, shocks []domain.Shock) ([]domain.Shock, error) {
	out := make([]domain.Shock, 0, len(shocks)+t.extra)
	for _, s := range shocks {
		s.Intensity = math.Max(0, math.Min(1, s.Intensity*t.intensity))
		s.DurationDays = max(1, int(math.Round(float64(s.DurationDays)*t.duration)))
		out = append(out, s)
	}
	if t.extra == 0 {
		return out, nil
	}

	extra, err := shock.GenerateShockSequence(
		stream(p.seed, i, streamExtraShocks),
		t.extra,
		p.params.ShockTypes,
		p.params.Jurisdictions,
		t.correlation,
	)
	if err != nil {
		return nil, err
	}
	return append(out, extra...), nil
}

// RunWhatIf re-runs base with transformed shocks.
//
// Iteration i regenerates base iteration i's shocks from the base parameters
// and seed, then scales intensity (clamped to [0, 1]) and duration (rounded,
// at least one day), and appends AdditionalShocks fresh shocks drawn with the
// scaled correlation probability. Domain, iterations, horizon and seed come
// from base unless overridden; base features are dropped when the domain changes.
// The identity transformation reproduces base's summary statistics.
func (e *Engine) RunWhatIf(ctx context.Context, base *domain.ScenarioResult, w domain.WhatIfParams) (*domain.ScenarioResult, error) {
	if base == nil {
		return nil, invalidf("nil base result")
	}
	run := &Run{
		engine: e,
		params: base.Parameters.Clone(),
		base:   base,
		whatIf: &w,
		state:  domain.RunCreated,
	}
	run.params.DomainKey = base.DomainKey
	if w.DomainKey != "" {
		run.params.DomainKey = w.DomainKey
	}
	return run.Execute(ctx)
}

// prepareWhatIf derives the what-if plan from base.
func (e *Engine) prepareWhatIf(base *domain.ScenarioResult, w domain.WhatIfParams) (*plan, error) {
	for name, m := range map[string]float64{
		"intensity_multiplier":   w.IntensityMultiplier,
		"duration_multiplier":    w.DurationMultiplier,
		"correlation_multiplier": w.CorrelationMultiplier,
	} {
		if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
			return nil, invalidf("%s %v must be a finite non-negative number", name, m)
		}
	}
	if w.AdditionalShocks < 0 {
		return nil, invalidf("additional_shocks %d < 0", w.AdditionalShocks)
	}

	params := base.Parameters.Clone()
	seed := base.Seed
	params.Seed = &seed
	if params.DomainKey == "" {
		params.DomainKey = base.DomainKey
	}
	if w.DomainKey != "" && w.DomainKey != params.DomainKey {
		params.DomainKey = w.DomainKey
		params.BaseFeatures = nil
	}
	if w.NumIterations > 0 {
		params.NumIterations = w.NumIterations
	}
	if w.TimeHorizonDays > 0 {
		params.TimeHorizonDays = w.TimeHorizonDays
	}
	if w.Seed != nil {
		s := *w.Seed
		params.Seed = &s
	}
	if w.Name != "" {
		params.Name = w.Name
	} else {
		params.Name = base.ScenarioName + " (what-if)"
	}

	p, err := e.prepare(params)
	if err != nil {
		return nil, err
	}
	// Keep the base shock count even when the horizon is overridden.
	if w.TimeHorizonDays > 0 && base.Parameters.ShocksPerIteration == 0 {
		p.count = base.Parameters.ShockCount()
	}
	p.whatIf = &whatIfTransform{
		intensity:   w.IntensityMultiplier,
		duration:    w.DurationMultiplier,
		correlation: math.Max(0, math.Min(1, params.CorrelationProbability*w.CorrelationMultiplier)),
		extra:       w.AdditionalShocks,
	}
	return p, nil
}

// IsCancelled reports whether err comes from a cancelled run.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/riskdomain"
	"startup-risk-lab/internal/shock"
)

// Stream purposes. Each (seed, iteration, purpose) triple gets its own PCG stream,
// so adding draws for one purpose never shifts another.
const (
	streamShocks uint64 = iota + 1
	streamFeatures
	streamExtraShocks
)

// stream returns the deterministic random source for one iteration and purpose.
func stream(seed int64, iteration int, purpose uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), splitmix64(uint64(iteration)<<8|purpose)))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// iterate produces the record for iteration i. Panics and non-finite outcomes
// become *IterationError.
func (p *plan) iterate(i int) (rec domain.IterationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &IterationError{Index: i, DomainKey: p.dom.Key(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	shocks, err := p.shocksFor(i)
	if err != nil {
		return rec, &IterationError{Index: i, DomainKey: p.dom.Key(), Err: err}
	}
	shocks = clipToHorizon(shocks, p.params.TimeHorizonDays)

	features := p.featuresFor(i)
	outcomes := p.dom.SimulateResponse(features, shocks)
	for _, k := range outcomes.Keys() {
		if v := outcomes[k]; math.IsNaN(v) || math.IsInf(v, 0) {
			return rec, &IterationError{Index: i, DomainKey: p.dom.Key(), Err: fmt.Errorf("metric %q is not finite", k)}
		}
	}

	return domain.IterationResult{
		Index:      i,
		Shocks:     shocks,
		Features:   features,
		Outcomes:   outcomes,
		Confidence: confidence(shocks),
	}, nil
}

// shocksFor returns the iteration's shocks before horizon clipping.
func (p *plan) shocksFor(i int) ([]domain.Shock, error) {
	var shocks []domain.Shock
	if len(p.params.CustomShocks) > 0 {
		shocks = domain.CloneShocks(p.params.CustomShocks)
	} else {
		var err error
		shocks, err = shock.GenerateShockSequence(
			stream(p.seed, i, streamShocks),
			p.count,
			p.params.ShockTypes,
			p.params.Jurisdictions,
			p.params.CorrelationProbability,
		)
		if err != nil {
			return nil, err
		}
	}
	if p.whatIf != nil {
		return p.whatIf.apply(p, i, shocks)
	}
	return shocks, nil
}

// featuresFor returns base features, jittered per iteration when FeatureJitter > 0.
// Jittered values are clamped to the feature's range and integer features are rounded.
func (p *plan) featuresFor(i int) domain.Features {
	f := p.features.Clone()
	jitter := p.params.FeatureJitter
	if jitter == 0 {
		return f
	}
	rng := stream(p.seed, i, streamFeatures)
	for _, fd := range p.spec {
		v := f[fd.Name] * (1 + jitter*(2*rng.Float64()-1))
		v = math.Max(fd.Min, math.Min(fd.Max, v))
		if fd.Kind == riskdomain.KindInt {
			v = math.Round(v)
		}
		f[fd.Name] = v
	}
	return f
}

// clipToHorizon drops shocks starting at or after the horizon and shortens
// the rest so they end within it.
func clipToHorizon(shocks []domain.Shock, horizonDays int) []domain.Shock {
	out := make([]domain.Shock, 0, len(shocks))
	for _, s := range shocks {
		if s.StartOffsetDays >= horizonDays {
			continue
		}
		if remaining := horizonDays - s.StartOffsetDays; s.DurationDays > remaining {
			s.DurationDays = remaining
		}
		out = append(out, s)
	}
	return out
}

// confidence is the intensity-weighted mean shock confidence.
// 1 with no shocks; the plain mean when all intensities are zero.
func confidence(shocks []domain.Shock) float64 {
	if len(shocks) == 0 {
		return 1
	}
	var weighted, weights, plain float64
	for _, s := range shocks {
		weighted += s.Intensity * s.Confidence
		weights += s.Intensity
		plain += s.Confidence
	}
	if weights == 0 {
		return plain / float64(len(shocks))
	}
	return weighted / weights
}

package shock

import (
	"fmt"
	"math"
	"math/rand/v2"

	"startup-risk-lab/internal/domain"
)

// GenerateRandomShock draws one shock of type t. An empty t draws a type
// uniformly from the catalog; an empty jurisdiction draws from the type's
// default jurisdictions.
func GenerateRandomShock(rng *rand.Rand, t domain.ShockType, jurisdiction string) (domain.Shock, error) {
	var spec TypeSpec
	if t == "" {
		spec = catalog[rng.IntN(len(catalog))]
	} else {
		var ok bool
		spec, ok = Lookup(t)
		if !ok {
			return domain.Shock{}, fmt.Errorf("%w: %q", ErrUnknownShockType, t)
		}
	}
	if jurisdiction == "" {
		jurisdiction = spec.Jurisdictions[rng.IntN(len(spec.Jurisdictions))]
	}
	return draw(rng, spec, jurisdiction, rng.IntN(maxStartOffsetDays+1)), nil
}

// GenerateShockSequence draws exactly n shocks.
//
// Types are drawn uniformly from types (or the whole catalog when empty) and
// jurisdictions uniformly from jurisdictions (or the type's defaults when empty).
// For every shock after the first, with probability correlation the shock is
// anchored to an earlier one: its type comes from the anchor's correlated types
// (restricted to the allowed set when possible), it shares the anchor's
// jurisdiction, and it starts within [-7, +14] days of the anchor.
func GenerateShockSequence(rng *rand.Rand, n int, types []domain.ShockType, jurisdictions []string, correlation float64) ([]domain.Shock, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative shock count %d", ErrInvalidShock, n)
	}
	allowed, err := resolveTypes(types)
	if err != nil {
		return nil, err
	}

	shocks := make([]domain.Shock, 0, n)
	for k := 0; k < n; k++ {
		if k > 0 && correlation > 0 && rng.Float64() < correlation {
			anchor := shocks[rng.IntN(k)]
			shocks = append(shocks, correlatedDraw(rng, anchor, allowed))
			continue
		}

		spec := allowed[rng.IntN(len(allowed))]
		var jurisdiction string
		if len(jurisdictions) > 0 {
			jurisdiction = jurisdictions[rng.IntN(len(jurisdictions))]
		} else {
			jurisdiction = spec.Jurisdictions[rng.IntN(len(spec.Jurisdictions))]
		}
		shocks = append(shocks, draw(rng, spec, jurisdiction, rng.IntN(maxStartOffsetDays+1)))
	}
	return shocks, nil
}

// GenerateCorrelatedShocks emits, for each type correlated with primary and
// with probability p, a follow-on shock in the same jurisdiction with scaled
// intensity, duration and confidence.
func GenerateCorrelatedShocks(rng *rand.Rand, primary domain.Shock, p float64) []domain.Shock {
	var out []domain.Shock
	for _, t := range correlations[primary.Type] {
		if rng.Float64() >= p {
			continue
		}
		offset := primary.StartOffsetDays + correlatedOffsetMin + rng.IntN(correlatedOffsetMax-correlatedOffsetMin+1)
		if offset < 0 {
			offset = 0
		}
		duration := int(math.Round(float64(primary.DurationDays) * uniform(rng, 0.5, 1.5)))
		if duration < 1 {
			duration = 1
		}
		out = append(out, domain.Shock{
			Type:            t,
			Jurisdiction:    primary.Jurisdiction,
			Intensity:       clamp01(primary.Intensity * uniform(rng, 0.5, 1.0)),
			DurationDays:    duration,
			Confidence:      clamp01(primary.Confidence * uniform(rng, 0.8, 1.0)),
			StartOffsetDays: offset,
			Description:     fmt.Sprintf("correlated %s following %s", t, primary.Type),
			SourceRefs:      []string{"correlated:" + string(primary.Type)},
		})
	}
	return out
}

// resolveTypes maps a type filter onto catalog specs, in filter order.
func resolveTypes(types []domain.ShockType) ([]TypeSpec, error) {
	if len(types) == 0 {
		return catalog, nil
	}
	specs := make([]TypeSpec, 0, len(types))
	for _, t := range types {
		spec, ok := Lookup(t)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownShockType, t)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func correlatedDraw(rng *rand.Rand, anchor domain.Shock, allowed []TypeSpec) domain.Shock {
	var candidates []TypeSpec
	for _, t := range correlations[anchor.Type] {
		for _, spec := range allowed {
			if spec.Type == t {
				candidates = append(candidates, spec)
			}
		}
	}
	if len(candidates) == 0 {
		candidates = allowed
	}
	spec := candidates[rng.IntN(len(candidates))]

	offset := anchor.StartOffsetDays + correlatedOffsetMin + rng.IntN(correlatedOffsetMax-correlatedOffsetMin+1)
	if offset < 0 {
		offset = 0
	}
	s := draw(rng, spec, anchor.Jurisdiction, offset)
	s.SourceRefs = []string{"correlated:" + string(anchor.Type)}
	return s
}

func draw(rng *rand.Rand, spec TypeSpec, jurisdiction string, offset int) domain.Shock {
	return domain.Shock{
		Type:            spec.Type,
		Jurisdiction:    jurisdiction,
		Intensity:       uniform(rng, spec.MinIntensity, spec.MaxIntensity),
		DurationDays:    spec.MinDuration + rng.IntN(spec.MaxDuration-spec.MinDuration+1),
		Confidence:      uniform(rng, minConfidence, maxConfidence),
		StartOffsetDays: offset,
		Description:     spec.Description,
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"startup-risk-lab/internal/domain"
)

// keyVersion is bumped whenever the canonical form or the engine's sampling changes,
// so stale cache entries stop matching.
const keyVersion = "v1"

// ComputeScenarioKey computes a deterministic cache key for seeded parameters using SHA256.
// Formula: SHA256(v1|scenario|name|description|domain|iterations|horizon|seed|correlation|
// jitter|shocks_per_iteration|types|jurisdictions|features|custom_shocks).
// Filter and custom shock order is kept because it affects sampling; features are sorted.
// ok is false for unseeded parameters, which are never memoized.
func ComputeScenarioKey(p domain.ScenarioParameters) (key string, ok bool) {
	if p.Seed == nil {
		return "", false
	}

	var b strings.Builder
	field := func(s string) {
		b.WriteString(s)
		b.WriteByte('|')
	}

	field(keyVersion)
	field("scenario")
	field(strconv.Quote(p.Name))
	field(strconv.Quote(p.Description))
	field(p.DomainKey)
	field(strconv.Itoa(p.NumIterations))
	field(strconv.Itoa(p.TimeHorizonDays))
	field(strconv.FormatInt(*p.Seed, 10))
	field(formatFloat(p.CorrelationProbability))
	field(formatFloat(p.FeatureJitter))
	field(strconv.Itoa(p.ShockCount()))

	types := make([]string, len(p.ShockTypes))
	for i, t := range p.ShockTypes {
		types[i] = string(t)
	}
	field(strings.Join(types, ","))
	field(strings.Join(p.Jurisdictions, ","))

	names := make([]string, 0, len(p.BaseFeatures))
	for name := range p.BaseFeatures {
		names = append(names, name)
	}
	sort.Strings(names)
	features := make([]string, len(names))
	for i, name := range names {
		features[i] = name + "=" + formatFloat(p.BaseFeatures[name])
	}
	field(strings.Join(features, ","))

	for _, s := range p.CustomShocks {
		field(shockFields(s))
	}

	return hash(b.String()), true
}

// ComputeWhatIfKey computes a deterministic cache key for a what-if run of an
// immutable base result.
// Formula: SHA256(v1|what-if|base_id|name|intensity|duration|correlation|extra|domain|iterations|horizon|seed).
func ComputeWhatIfKey(baseResultID string, w domain.WhatIfParams) string {
	seed := "-"
	if w.Seed != nil {
		seed = strconv.FormatInt(*w.Seed, 10)
	}
	return hash(strings.Join([]string{
		keyVersion,
		"what-if",
		baseResultID,
		strconv.Quote(w.Name),
		formatFloat(w.IntensityMultiplier),
		formatFloat(w.DurationMultiplier),
		formatFloat(w.CorrelationMultiplier),
		strconv.Itoa(w.AdditionalShocks),
		w.DomainKey,
		strconv.Itoa(w.NumIterations),
		strconv.Itoa(w.TimeHorizonDays),
		seed,
	}, "|"))
}

func shockFields(s domain.Shock) string {
	return strings.Join([]string{
		string(s.Type),
		s.Jurisdiction,
		formatFloat(s.Intensity),
		strconv.Itoa(s.DurationDays),
		formatFloat(s.Confidence),
		strconv.Itoa(s.StartOffsetDays),
		strconv.Quote(s.Description),
		strings.Join(s.SourceRefs, ","),
	}, ";")
}

// formatFloat renders the shortest exact representation.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func hash(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

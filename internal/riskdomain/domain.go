// Package riskdomain defines startup-sector risk domains and their registry.
//
// A Domain maps a feature vector and a list of shocks to outcome metrics.
// Domains are immutable once constructed and safe for concurrent use.
package riskdomain

import (
	"fmt"
	"math"
	"sort"

	"startup-risk-lab/internal/domain"
)

// RiskProfile classifies a domain's baseline risk.
type RiskProfile string

// Risk profiles.
const (
	RiskLow    RiskProfile = "low"
	RiskMedium RiskProfile = "medium"
	RiskHigh   RiskProfile = "high"
)

// FeatureKind is the value kind of a feature.
type FeatureKind string

// Feature kinds.
const (
	KindFloat FeatureKind = "float" // any value within [Min, Max]
	KindRatio FeatureKind = "ratio" // [0, 1]
	KindInt   FeatureKind = "int"   // integral values
)

// FeatureDef declares one feature of a domain's schema.
type FeatureDef struct {
	Name        string      `json:"name"`
	Kind        FeatureKind `json:"kind"`
	Default     float64     `json:"default"`
	Min         float64     `json:"min"`
	Max         float64     `json:"max"`
	Description string      `json:"description"`
}

// RiskFactor describes a domain-specific risk driver.
type RiskFactor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Domain is a startup-sector risk model.
type Domain interface {
	Key() string
	Name() string
	Category() string
	Description() string
	RiskProfile() RiskProfile

	// FeatureSpec returns the feature schema ordered by name.
	FeatureSpec() []FeatureDef

	// ExtractFeatures fills defaults and validates raw inputs against the schema.
	ExtractFeatures(raw map[string]float64) (domain.Features, error)

	RiskFactors() []RiskFactor

	// MapEventsToShocks converts categorised events into domain-specific shocks.
	MapEventsToShocks(events []domain.Event) []domain.Shock

	// SimulateResponse is pure: identical inputs give identical outcomes.
	SimulateResponse(features domain.Features, shocks []domain.Shock) domain.Outcomes

	// ReportingMetrics lists the metric names SimulateResponse returns.
	ReportingMetrics() []string

	// LossIndex maps outcomes onto a loss in [0, 1] used for VaR estimation.
	LossIndex(outcomes domain.Outcomes) float64
}

// effect adds coefficient × exposure to each named accumulator.
type effect map[string]float64

// alias routes a generic shock type to one of the domain's own effects.
type alias struct {
	target domain.ShockType
	weight float64
}

// eventRule maps event categories to a domain shock.
type eventRule struct {
	categories   []string
	shockType    domain.ShockType
	maxIntensity float64
	durationDays int
}

// sensitivityTerm scales shock exposure by weight × (feature − default).
type sensitivityTerm struct {
	feature string
	weight  float64
}

// lossSpec defines LossIndex as clamp01(offset + coef × outcomes[metric]).
type lossSpec struct {
	metric string
	coef   float64
	offset float64
}

// Sensitivity bounds.
const (
	minSensitivity = 0.25
	maxSensitivity = 2.0
)

// persistenceHorizonDays is the duration at which a shock reaches full weight.
const persistenceHorizonDays = 180

// model is the table-driven Domain implementation shared by all sectors.
type model struct {
	key         string
	name        string
	category    string
	description string
	profile     RiskProfile
	features    []FeatureDef
	factors     []RiskFactor
	metrics     []string
	effects     map[domain.ShockType]effect
	aliases     map[domain.ShockType]alias
	sensitivity []sensitivityTerm
	events      []eventRule
	loss        lossSpec

	// base returns the initial accumulators for a feature vector.
	base func(f domain.Features) map[string]float64
	// derive turns final accumulators into outcome metrics.
	derive func(acc map[string]float64, f domain.Features) domain.Outcomes

	defaults map[string]float64
	byName   map[string]FeatureDef
}

// build finalises lookup tables. Called once per domain at package init.
func (m *model) build() *model {
	sort.Slice(m.features, func(i, j int) bool { return m.features[i].Name < m.features[j].Name })
	m.defaults = make(map[string]float64, len(m.features))
	m.byName = make(map[string]FeatureDef, len(m.features))
	for _, fd := range m.features {
		m.defaults[fd.Name] = fd.Default
		m.byName[fd.Name] = fd
	}
	return m
}

func (m *model) Key() string              { return m.key }
func (m *model) Name() string             { return m.name }
func (m *model) Category() string         { return m.category }
func (m *model) Description() string      { return m.description }
func (m *model) RiskProfile() RiskProfile { return m.profile }

func (m *model) FeatureSpec() []FeatureDef {
	return append([]FeatureDef(nil), m.features...)
}

func (m *model) RiskFactors() []RiskFactor {
	return append([]RiskFactor(nil), m.factors...)
}

func (m *model) ReportingMetrics() []string {
	return append([]string(nil), m.metrics...)
}

func (m *model) ExtractFeatures(raw map[string]float64) (domain.Features, error) {
	f := make(domain.Features, len(m.defaults))
	for k, v := range m.defaults {
		f[k] = v
	}
	for k, v := range raw {
		fd, ok := m.byName[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s has no feature %q", ErrInvalidFeature, m.key, k)
		}
		if err := checkFeature(fd, v); err != nil {
			return nil, fmt.Errorf("%s: %w", m.key, err)
		}
		f[k] = v
	}
	return f, nil
}

func checkFeature(fd FeatureDef, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not finite", ErrInvalidFeature, fd.Name)
	}
	if v < fd.Min || v > fd.Max {
		return fmt.Errorf("%w: %s=%v outside [%v, %v]", ErrInvalidFeature, fd.Name, v, fd.Min, fd.Max)
	}
	if fd.Kind == KindInt && v != math.Trunc(v) {
		return fmt.Errorf("%w: %s=%v is not an integer", ErrInvalidFeature, fd.Name, v)
	}
	return nil
}

func (m *model) MapEventsToShocks(events []domain.Event) []domain.Shock {
	var shocks []domain.Shock
	for _, ev := range events {
		for _, rule := range m.events {
			if !containsString(rule.categories, ev.Category) {
				continue
			}
			shocks = append(shocks, domain.Shock{
				Type:            rule.shockType,
				Jurisdiction:    ev.Jurisdiction,
				Intensity:       math.Min(rule.maxIntensity, math.Abs(ev.Sentiment)*rule.maxIntensity),
				DurationDays:    rule.durationDays,
				Confidence:      ev.Confidence,
				StartOffsetDays: ev.OffsetDays,
				Description:     ev.Title,
				SourceRefs:      []string{ev.Title},
			})
			break
		}
	}
	return shocks
}

func (m *model) SimulateResponse(features domain.Features, shocks []domain.Shock) domain.Outcomes {
	f := m.withDefaults(features)
	acc := m.base(f)
	sens := m.sensitivityOf(f)

	for _, s := range shocks {
		eff, weight, ok := m.effectFor(s.Type)
		if !ok {
			continue
		}
		exposure := s.Intensity * weight * persistence(s.DurationDays) * sens
		for name, coef := range eff {
			acc[name] += coef * exposure
		}
	}
	return m.derive(acc, f)
}

func (m *model) LossIndex(outcomes domain.Outcomes) float64 {
	return clamp(m.loss.offset+m.loss.coef*outcomes[m.loss.metric], 0, 1)
}

// effectFor resolves a shock type to an effect, following generic aliases.
func (m *model) effectFor(t domain.ShockType) (effect, float64, bool) {
	if eff, ok := m.effects[t]; ok {
		return eff, 1, true
	}
	if a, ok := m.aliases[t]; ok {
		if eff, ok := m.effects[a.target]; ok {
			return eff, a.weight, true
		}
	}
	return nil, 0, false
}

func (m *model) withDefaults(features domain.Features) domain.Features {
	f := make(domain.Features, len(m.defaults))
	for k, v := range m.defaults {
		f[k] = v
	}
	for k, v := range features {
		f[k] = v
	}
	return f
}

func (m *model) sensitivityOf(f domain.Features) float64 {
	s := 1.0
	for _, term := range m.sensitivity {
		s += term.weight * (f[term.feature] - m.defaults[term.feature])
	}
	return clamp(s, minSensitivity, maxSensitivity)
}

// persistence weights a shock by duration: half weight for a one-day shock,
// full weight from persistenceHorizonDays on.
func persistence(durationDays int) float64 {
	d := float64(durationDays)
	if d < 0 {
		d = 0
	}
	return 0.5 + 0.5*math.Min(1, d/persistenceHorizonDays)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func ratio(name string, def float64, desc string) FeatureDef {
	return FeatureDef{Name: name, Kind: KindRatio, Default: def, Min: 0, Max: 1, Description: desc}
}

func amount(name string, def, lo, hi float64, desc string) FeatureDef {
	return FeatureDef{Name: name, Kind: KindFloat, Default: def, Min: lo, Max: hi, Description: desc}
}

func integer(name string, def, lo, hi float64, desc string) FeatureDef {
	return FeatureDef{Name: name, Kind: KindInt, Default: def, Min: lo, Max: hi, Description: desc}
}

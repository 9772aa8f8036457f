// Package shock generates plausible shock sequences for scenario simulation.
package shock

import (
	"startup-risk-lab/internal/domain"
)

// TypeSpec describes the plausible parameter ranges of a generic shock type.
type TypeSpec struct {
	Type          domain.ShockType
	MinIntensity  float64
	MaxIntensity  float64
	MinDuration   int // days
	MaxDuration   int // days
	Jurisdictions []string
	Description   string
}

// Confidence range for randomly generated shocks.
const (
	minConfidence = 0.6
	maxConfidence = 0.9
)

// Maximum start offset in days for randomly generated shocks.
const maxStartOffsetDays = 30

// Correlated shocks start within this window around their anchor shock.
const (
	correlatedOffsetMin = -7
	correlatedOffsetMax = 14
)

var (
	jurisdictionsG7   = []string{"US", "EU", "UK", "JP", "CA"}
	jurisdictionsWide = []string{"US", "EU", "UK", "JP", "CA", "CN"}
)

// catalog lists generic shock types in a fixed order.
// The order is part of the generator's determinism: uniform type draws index into it.
var catalog = []TypeSpec{
	{
		Type:          domain.ShockPolicyRateChange,
		MinIntensity:  0.3,
		MaxIntensity:  0.8,
		MinDuration:   30,
		MaxDuration:   180,
		Jurisdictions: jurisdictionsG7,
		Description:   "Central bank policy rate change",
	},
	{
		Type:          domain.ShockRegulatoryChange,
		MinIntensity:  0.4,
		MaxIntensity:  0.9,
		MinDuration:   60,
		MaxDuration:   365,
		Jurisdictions: []string{"US", "EU", "UK", "CA"},
		Description:   "New regulations or regulatory changes",
	},
	{
		Type:          domain.ShockMarketCrash,
		MinIntensity:  0.6,
		MaxIntensity:  1.0,
		MinDuration:   30,
		MaxDuration:   90,
		Jurisdictions: jurisdictionsG7,
		Description:   "Significant market decline",
	},
	{
		Type:          domain.ShockTradeWar,
		MinIntensity:  0.5,
		MaxIntensity:  0.9,
		MinDuration:   90,
		MaxDuration:   365,
		Jurisdictions: []string{"US", "CN", "EU", "JP"},
		Description:   "Trade tensions and tariffs",
	},
	{
		Type:          domain.ShockPandemic,
		MinIntensity:  0.7,
		MaxIntensity:  1.0,
		MinDuration:   180,
		MaxDuration:   730,
		Jurisdictions: jurisdictionsWide,
		Description:   "Global health crisis",
	},
	{
		Type:          domain.ShockCybersecurityBreach,
		MinIntensity:  0.4,
		MaxIntensity:  0.8,
		MinDuration:   30,
		MaxDuration:   120,
		Jurisdictions: jurisdictionsG7,
		Description:   "Major cybersecurity incident",
	},
	{
		Type:          domain.ShockClimateEvent,
		MinIntensity:  0.3,
		MaxIntensity:  0.7,
		MinDuration:   7,
		MaxDuration:   60,
		Jurisdictions: jurisdictionsWide,
		Description:   "Extreme weather or climate event",
	},
	{
		Type:          domain.ShockPoliticalInstability,
		MinIntensity:  0.4,
		MaxIntensity:  0.8,
		MinDuration:   30,
		MaxDuration:   180,
		Jurisdictions: jurisdictionsG7,
		Description:   "Political uncertainty or instability",
	},
}

// correlations lists shock types that tend to follow a given type.
var correlations = map[domain.ShockType][]domain.ShockType{
	domain.ShockPolicyRateChange:     {domain.ShockMarketCrash, domain.ShockPoliticalInstability},
	domain.ShockRegulatoryChange:     {domain.ShockCybersecurityBreach, domain.ShockPoliticalInstability},
	domain.ShockMarketCrash:          {domain.ShockPolicyRateChange, domain.ShockPoliticalInstability},
	domain.ShockTradeWar:             {domain.ShockPoliticalInstability, domain.ShockMarketCrash},
	domain.ShockPandemic:             {domain.ShockPolicyRateChange, domain.ShockMarketCrash},
	domain.ShockCybersecurityBreach:  {domain.ShockRegulatoryChange, domain.ShockPoliticalInstability},
	domain.ShockClimateEvent:         {domain.ShockRegulatoryChange, domain.ShockPoliticalInstability},
	domain.ShockPoliticalInstability: {domain.ShockMarketCrash, domain.ShockPolicyRateChange},
}

var catalogIndex = func() map[domain.ShockType]int {
	idx := make(map[domain.ShockType]int, len(catalog))
	for i, spec := range catalog {
		idx[spec.Type] = i
	}
	return idx
}()

// Types returns all generic shock types in catalog order.
func Types() []domain.ShockType {
	types := make([]domain.ShockType, len(catalog))
	for i, spec := range catalog {
		types[i] = spec.Type
	}
	return types
}

// Lookup returns the spec for a generic shock type.
func Lookup(t domain.ShockType) (TypeSpec, bool) {
	i, ok := catalogIndex[t]
	if !ok {
		return TypeSpec{}, false
	}
	return catalog[i], true
}

// IsGeneric reports whether t belongs to the generic catalog.
func IsGeneric(t domain.ShockType) bool {
	_, ok := catalogIndex[t]
	return ok
}

// CorrelatedTypes returns the types that tend to co-occur with t.
func CorrelatedTypes(t domain.ShockType) []domain.ShockType {
	return append([]domain.ShockType(nil), correlations[t]...)
}

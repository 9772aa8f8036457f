package shock

import (
	"fmt"
	"sort"

	"startup-risk-lab/internal/domain"
)

// templateConfidence is the confidence assigned to every curated shock.
const templateConfidence = 0.8

// Predefined scenario names.
const (
	ScenarioRecession           = "recession"
	ScenarioTechRegulation      = "tech_regulation"
	ScenarioTradeConflict       = "trade_conflict"
	ScenarioClimateCrisis       = "climate_crisis"
	ScenarioPandemicResponse    = "pandemic_response"
	ScenarioSevereRecession     = "severe_recession"
	ScenarioBlackSwan           = "black_swan"
	ScenarioLiquidityCrisis     = "liquidity_crisis"
	ScenarioRegulatoryCrackdown = "regulatory_crackdown"
)

// StressScenarios are the templates used for portfolio stress testing.
var StressScenarios = []string{
	ScenarioSevereRecession,
	ScenarioBlackSwan,
	ScenarioLiquidityCrisis,
	ScenarioRegulatoryCrackdown,
}

type templateShock struct {
	shockType    domain.ShockType
	jurisdiction string
	intensity    float64
	durationDays int
}

type template struct {
	description string
	shocks      []templateShock
}

var templates = map[string]template{
	ScenarioRecession: {
		description: "Economic recession with rate moves, market crash and political fallout",
		shocks: []templateShock{
			{domain.ShockPolicyRateChange, "US", 0.8, 180},
			{domain.ShockMarketCrash, "US", 0.9, 90},
			{domain.ShockPoliticalInstability, "US", 0.6, 120},
		},
	},
	ScenarioTechRegulation: {
		description: "Technology regulation with regulatory changes and cybersecurity breaches",
		shocks: []templateShock{
			{domain.ShockRegulatoryChange, "US", 0.7, 365},
			{domain.ShockRegulatoryChange, "EU", 0.6, 365},
			{domain.ShockCybersecurityBreach, "US", 0.5, 60},
		},
	},
	ScenarioTradeConflict: {
		description: "Trade conflict with trade wars and political instability",
		shocks: []templateShock{
			{domain.ShockTradeWar, "US", 0.8, 365},
			{domain.ShockTradeWar, "CN", 0.7, 365},
			{domain.ShockPoliticalInstability, "US", 0.5, 180},
		},
	},
	ScenarioClimateCrisis: {
		description: "Climate crisis with extreme weather and regulatory changes",
		shocks: []templateShock{
			{domain.ShockClimateEvent, "US", 0.6, 90},
			{domain.ShockClimateEvent, "EU", 0.5, 90},
			{domain.ShockRegulatoryChange, "US", 0.6, 180},
		},
	},
	ScenarioPandemicResponse: {
		description: "Pandemic response with public health emergency and policy changes",
		shocks: []templateShock{
			{domain.ShockPandemic, "US", 0.8, 365},
			{domain.ShockPandemic, "EU", 0.7, 365},
			{domain.ShockPolicyRateChange, "US", 0.5, 90},
		},
	},
	ScenarioSevereRecession: {
		description: "Economic recession with market crash and policy rate changes",
		shocks: []templateShock{
			{domain.ShockMarketCrash, "US", 0.9, 90},
			{domain.ShockPolicyRateChange, "US", 0.8, 180},
			{domain.ShockPoliticalInstability, "US", 0.6, 120},
			{domain.ShockRegulatoryChange, "US", 0.5, 180},
		},
	},
	ScenarioBlackSwan: {
		description: "Black swan event with multiple simultaneous shocks",
		shocks: []templateShock{
			{domain.ShockPandemic, "US", 0.9, 365},
			{domain.ShockMarketCrash, "US", 1.0, 60},
			{domain.ShockCybersecurityBreach, "US", 0.7, 60},
			{domain.ShockClimateEvent, "US", 0.6, 30},
			{domain.ShockPoliticalInstability, "EU", 0.7, 120},
		},
	},
	ScenarioLiquidityCrisis: {
		description: "Liquidity crisis with policy rate changes and market crash",
		shocks: []templateShock{
			{domain.ShockPolicyRateChange, "US", 0.8, 120},
			{domain.ShockMarketCrash, "US", 0.8, 60},
		},
	},
	ScenarioRegulatoryCrackdown: {
		description: "Coordinated regulatory tightening across major markets",
		shocks: []templateShock{
			{domain.ShockRegulatoryChange, "US", 0.9, 365},
			{domain.ShockRegulatoryChange, "EU", 0.8, 365},
			{domain.ShockCybersecurityBreach, "EU", 0.5, 60},
			{domain.ShockPoliticalInstability, "US", 0.4, 90},
		},
	},
}

// GenerateScenarioShocks returns the curated shock list of a predefined scenario.
// The list is identical on every call.
func GenerateScenarioShocks(name string) ([]domain.Shock, error) {
	tpl, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}

	shocks := make([]domain.Shock, len(tpl.shocks))
	for i, ts := range tpl.shocks {
		shocks[i] = domain.Shock{
			Type:         ts.shockType,
			Jurisdiction: ts.jurisdiction,
			Intensity:    ts.intensity,
			DurationDays: ts.durationDays,
			Confidence:   templateConfidence,
			Description:  fmt.Sprintf("%s scenario: %s", name, ts.shockType),
			SourceRefs:   []string{"scenario:" + name},
		}
	}
	return shocks, nil
}

// ScenarioNames returns all predefined scenario names in ascending order.
func ScenarioNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScenarioDescription returns the description of a predefined scenario.
func ScenarioDescription(name string) (string, error) {
	tpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	return tpl.description, nil
}

package riskdomain

import (
	"startup-risk-lab/internal/domain"
)

const (
	shockClimatePolicyChange     domain.ShockType = "climate_policy_change"
	shockCarbonPricingChanges    domain.ShockType = "carbon_pricing_changes"
	shockRenewableSubsidyCuts    domain.ShockType = "renewable_energy_subsidy_cuts"
	shockGreenInvestmentDownturn domain.ShockType = "green_investment_downturn"
)

// Greentech models green technology startups. Policy shocks can be tailwinds here.
var Greentech Domain = (&model{
	key:         "greentech",
	name:        "GreenTech",
	category:    "sector",
	description: "Analysis of green technology startups, focusing on environmental policies, sustainability metrics, and carbon credits.",
	profile:     RiskMedium,
	features: []FeatureDef{
		ratio("carbon_footprint_reduction", 0, "Carbon footprint reduction"),
		ratio("sustainability_score", 0.5, "Overall sustainability score"),
		ratio("renewable_energy_usage", 0, "Share of renewable energy used"),
		integer("carbon_credits_earned", 0, 0, 1e12, "Number of carbon credits earned"),
		ratio("regulatory_compliance_score", 0.7, "Environmental regulatory compliance"),
		ratio("green_investment_ratio", 0.3, "Ratio of green investments to total"),
		ratio("waste_reduction_percentage", 0, "Waste reduction"),
		ratio("energy_efficiency_rating", 0.5, "Energy efficiency rating"),
		ratio("climate_risk_exposure", 0.4, "Exposure to physical climate risks"),
	},
	factors: []RiskFactor{
		{"climate_policy_change", "Climate policy shifts change demand for green solutions"},
		{"carbon_pricing_changes", "Carbon prices move"},
		{"renewable_energy_subsidy_cuts", "Subsidies for renewables are cut"},
		{"environmental_regulation_tightening", "Environmental rules tighten"},
		{"climate_event_impact", "Physical climate events disrupt operations"},
		{"green_investment_downturn", "Capital flows into green assets slow"},
		{"sustainability_standards_change", "Reporting standards change"},
		{"carbon_market_volatility", "Carbon credit markets become volatile"},
	},
	metrics: []string{
		"sustainability_impact",
		"carbon_credit_value",
		"regulatory_risk",
		"market_demand",
		"green_premium",
		"compliance_cost",
		"market_opportunity",
	},
	effects: map[domain.ShockType]effect{
		shockClimatePolicyChange:     {"sustainability_impact": 0.3, "carbon_credit_value": 0.2, "regulatory_risk": 0.3, "market_demand": 0.4},
		shockCarbonPricingChanges:    {"carbon_credit_value": 0.4, "market_demand": 0.2, "regulatory_risk": 0.1},
		shockRenewableSubsidyCuts:    {"sustainability_impact": -0.2, "carbon_credit_value": -0.1, "regulatory_risk": 0.1, "market_demand": -0.3},
		shockGreenInvestmentDownturn: {"sustainability_impact": -0.1, "carbon_credit_value": -0.15, "market_demand": -0.35},
	},
	aliases: map[domain.ShockType]alias{
		domain.ShockClimateEvent:         {shockClimatePolicyChange, 0.7},
		domain.ShockRegulatoryChange:     {shockClimatePolicyChange, 0.5},
		domain.ShockMarketCrash:          {shockGreenInvestmentDownturn, 1.0},
		domain.ShockPolicyRateChange:     {shockGreenInvestmentDownturn, 0.6},
		domain.ShockPandemic:             {shockGreenInvestmentDownturn, 0.6},
		domain.ShockPoliticalInstability: {shockRenewableSubsidyCuts, 0.7},
		domain.ShockTradeWar:             {shockRenewableSubsidyCuts, 0.5},
	},
	sensitivity: []sensitivityTerm{
		{"climate_risk_exposure", 0.5},
		{"regulatory_compliance_score", -0.3},
	},
	events: []eventRule{
		{[]string{"climate_policy", "environmental_regulation"}, shockClimatePolicyChange, 0.8, 365},
		{[]string{"carbon_pricing", "carbon_tax"}, shockCarbonPricingChanges, 0.7, 180},
	},
	loss: lossSpec{metric: "market_demand", coef: -1, offset: 1},
	base: func(domain.Features) map[string]float64 {
		return map[string]float64{
			"sustainability_impact": 0,
			"carbon_credit_value":   0,
			"regulatory_risk":       0.2,
			"market_demand":         0.5,
		}
	},
	derive: func(acc map[string]float64, _ domain.Features) domain.Outcomes {
		impact := clamp(acc["sustainability_impact"], -1, 1)
		regulatory := clamp(acc["regulatory_risk"], 0, 1)
		demand := clamp(acc["market_demand"], 0, 1)
		return domain.Outcomes{
			"sustainability_impact": impact,
			"carbon_credit_value":   clamp(acc["carbon_credit_value"], -1, 1),
			"regulatory_risk":       regulatory,
			"market_demand":         demand,
			"green_premium":         clamp(impact*0.6, -1, 1),
			"compliance_cost":       clamp(regulatory*0.8, 0, 1),
			"market_opportunity":    clamp(demand*0.7, 0, 1),
		}
	},
}).build()

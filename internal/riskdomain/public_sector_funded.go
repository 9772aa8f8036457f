package riskdomain

import (
	"math"

	"startup-risk-lab/internal/domain"
)

const (
	shockBudgetCuts          domain.ShockType = "budget_cuts"
	shockRegulatoryIncreases domain.ShockType = "regulatory_increases"
	shockAuditFindings       domain.ShockType = "audit_findings"
)

// PublicSectorFunded models startups that depend on government contracts and grants.
var PublicSectorFunded Domain = (&model{
	key:         "public_sector_funded",
	name:        "Public Sector Funded Startups",
	category:    "funding_model",
	description: "Analysis of startups funded by public sector sources, including government contracts, grants, and regulatory compliance.",
	profile:     RiskLow,
	features: []FeatureDef{
		integer("government_contracts", 0, 0, 1e6, "Number of active government contracts"),
		ratio("grant_funding_ratio", 0.3, "Ratio of grant funding to total funding"),
		ratio("public_sector_revenue_share", 0.4, "Share of revenue from public sector"),
		amount("contract_duration_months", 24, 0, 600, "Average contract duration in months"),
		ratio("bidding_success_rate", 0.6, "Success rate in government bidding"),
		ratio("compliance_score", 0.8, "Regulatory compliance score"),
		ratio("regulatory_risk_score", 0.3, "Regulatory risk score"),
		ratio("political_risk_score", 0.4, "Political risk score"),
		amount("audit_frequency", 2, 0, 365, "Government audits per year"),
		ratio("subsidy_dependency", 0.2, "Dependency on government subsidies"),
		integer("procurement_cycle_length", 180, 0, 3650, "Average procurement cycle length in days"),
	},
	factors: []RiskFactor{
		{"budget_cuts", "Public budgets funding the contracts are cut"},
		{"policy_changes", "Program priorities change with policy"},
		{"regulatory_increases", "Compliance requirements increase"},
		{"political_instability", "Changes of government disrupt programs"},
		{"audit_findings", "Audits uncover adverse findings"},
		{"contract_termination", "Contracts are terminated early"},
		{"compliance_violations", "Compliance violations lead to penalties"},
		{"public_scrutiny", "Public scrutiny of publicly funded vendors"},
	},
	metrics: []string{
		"contract_renewal_rate",
		"revenue_stability",
		"compliance_risk",
		"funding_risk",
		"operational_risk",
		"political_risk",
		"audit_risk",
	},
	effects: map[domain.ShockType]effect{
		shockBudgetCuts:                  {"contract_renewal_rate": -0.3, "revenue_stability": -0.4, "compliance_risk": 0.10},
		shockRegulatoryIncreases:         {"revenue_stability": -0.1, "compliance_risk": 0.20},
		domain.ShockPoliticalInstability: {"contract_renewal_rate": -0.2, "revenue_stability": -0.3, "compliance_risk": 0.15},
		shockAuditFindings:               {"revenue_stability": -0.05, "compliance_risk": 0.25},
	},
	aliases: map[domain.ShockType]alias{
		domain.ShockPolicyRateChange:    {shockBudgetCuts, 0.5},
		domain.ShockMarketCrash:         {shockBudgetCuts, 0.7},
		domain.ShockPandemic:            {shockBudgetCuts, 0.6},
		domain.ShockClimateEvent:        {shockBudgetCuts, 0.2},
		domain.ShockRegulatoryChange:    {shockRegulatoryIncreases, 1.0},
		domain.ShockCybersecurityBreach: {shockAuditFindings, 0.7},
		domain.ShockTradeWar:            {domain.ShockPoliticalInstability, 0.4},
	},
	sensitivity: []sensitivityTerm{
		{"public_sector_revenue_share", 0.8},
		{"subsidy_dependency", 0.5},
		{"compliance_score", -0.5},
	},
	events: []eventRule{
		{[]string{"budget_cuts", "fiscal_policy"}, shockBudgetCuts, 0.8, 365},
		{[]string{"regulation", "policy_change"}, shockRegulatoryIncreases, 0.7, 180},
		{[]string{"political_instability", "election"}, domain.ShockPoliticalInstability, 0.6, 120},
	},
	loss: lossSpec{metric: "funding_risk", coef: 1 / 0.9},
	base: func(f domain.Features) map[string]float64 {
		return map[string]float64{
			"contract_renewal_rate": clamp(0.8+0.2*(f["bidding_success_rate"]-0.6), 0, 1),
			"revenue_stability":     0.7,
			"compliance_risk":       0.2,
		}
	},
	derive: func(acc map[string]float64, _ domain.Features) domain.Outcomes {
		renewal := acc["contract_renewal_rate"]
		stability := acc["revenue_stability"]
		compliance := acc["compliance_risk"]
		return domain.Outcomes{
			"contract_renewal_rate": math.Max(0.2, renewal),
			"revenue_stability":     math.Max(0.1, stability),
			"compliance_risk":       math.Min(0.8, compliance),
			"funding_risk":          math.Min(0.9, 1-renewal),
			"operational_risk":      math.Min(0.9, (1-stability)+compliance),
			"political_risk":        math.Min(0.8, 1-renewal),
			"audit_risk":            compliance * 1.2,
		}
	},
}).build()

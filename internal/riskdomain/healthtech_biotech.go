package riskdomain

import (
	"startup-risk-lab/internal/domain"
)

const (
	shockFDARejection           domain.ShockType = "fda_rejection"
	shockClinicalTrialFailure   domain.ShockType = "clinical_trial_failure"
	shockCompetitorBreakthrough domain.ShockType = "competitor_breakthrough"
)

// HealthtechBiotech models health technology and biotechnology startups.
var HealthtechBiotech Domain = (&model{
	key:         "healthtech_biotech",
	name:        "HealthTech/Biotech",
	category:    "sector",
	description: "Analysis of health technology and biotechnology startups, focusing on regulatory compliance, clinical trials, and healthcare metrics.",
	profile:     RiskHigh,
	features: []FeatureDef{
		integer("clinical_trial_phase", 1, 0, 4, "Current clinical trial phase"),
		ratio("regulatory_burden_index", 0.7, "Regulatory compliance burden"),
		amount("rd_investment", 0, 0, 1e12, "R&D investment amount"),
		integer("patent_count", 0, 0, 1e6, "Number of patents held"),
		integer("fda_audit_frequency", 1, 0, 365, "FDA audits per year"),
		integer("patient_population_size", 1000000, 0, 1e10, "Target patient population size"),
		ratio("clinical_trial_success_rate", 0.3, "Historical trial success rate"),
		integer("regulatory_timeline_days", 365, 0, 7300, "Average regulatory approval timeline"),
		ratio("market_access_barriers", 0.6, "Market access difficulty"),
		integer("competitor_count", 5, 0, 10000, "Number of direct competitors"),
	},
	factors: []RiskFactor{
		{"fda_rejection", "Regulator rejects or requests more data for a submission"},
		{"clinical_trial_failure", "A pivotal trial misses its endpoints"},
		{"regulatory_delay", "Approval timelines extend"},
		{"reimbursement_denial", "Payers deny or limit reimbursement"},
		{"competitor_breakthrough", "A competitor reaches market first"},
		{"safety_concerns", "Post-market safety signals"},
		{"patent_expiry", "Key patents expire"},
		{"market_access_restrictions", "Formulary or access restrictions"},
	},
	metrics: []string{
		"approval_probability",
		"trial_success_rate",
		"market_access_risk",
		"revenue_impact",
		"regulatory_risk",
		"trial_risk",
		"market_penetration_risk",
	},
	effects: map[domain.ShockType]effect{
		shockFDARejection:           {"approval_probability": -0.5, "market_access_risk": 0.3, "revenue_impact": -0.4},
		shockClinicalTrialFailure:   {"trial_success_rate": -0.3, "approval_probability": -0.2, "revenue_impact": -0.3},
		shockCompetitorBreakthrough: {"market_access_risk": 0.2, "revenue_impact": -0.2},
	},
	aliases: map[domain.ShockType]alias{
		domain.ShockRegulatoryChange:     {shockFDARejection, 0.6},
		domain.ShockCybersecurityBreach:  {shockFDARejection, 0.3},
		domain.ShockPoliticalInstability: {shockFDARejection, 0.3},
		domain.ShockPandemic:             {shockClinicalTrialFailure, 0.7},
		domain.ShockPolicyRateChange:     {shockClinicalTrialFailure, 0.3},
		domain.ShockClimateEvent:         {shockClinicalTrialFailure, 0.2},
		domain.ShockMarketCrash:          {shockCompetitorBreakthrough, 0.5},
		domain.ShockTradeWar:             {shockCompetitorBreakthrough, 0.4},
	},
	sensitivity: []sensitivityTerm{
		{"regulatory_burden_index", 0.5},
		{"market_access_barriers", 0.3},
	},
	events: []eventRule{
		{[]string{"regulation", "fda"}, shockFDARejection, 0.9, 180},
		{[]string{"clinical_trial", "research"}, shockClinicalTrialFailure, 0.8, 365},
		{[]string{"competition", "breakthrough"}, shockCompetitorBreakthrough, 0.7, 90},
	},
	loss: lossSpec{metric: "revenue_impact", coef: -1.25},
	base: func(f domain.Features) map[string]float64 {
		return map[string]float64{
			"approval_probability": 0.3,
			"trial_success_rate":   f["clinical_trial_success_rate"],
			"market_access_risk":   clamp(0.2+0.5*(f["market_access_barriers"]-0.6), 0, 1),
			"revenue_impact":       0,
		}
	},
	derive: func(acc map[string]float64, _ domain.Features) domain.Outcomes {
		approval := acc["approval_probability"]
		trial := acc["trial_success_rate"]
		access := acc["market_access_risk"]
		return domain.Outcomes{
			"approval_probability":    clamp(approval, 0, 1),
			"trial_success_rate":      clamp(trial, 0, 1),
			"market_access_risk":      clamp(access, 0, 1),
			"revenue_impact":          clamp(acc["revenue_impact"], -0.8, 0),
			"regulatory_risk":         clamp((1-approval)*0.8, 0, 1),
			"trial_risk":              clamp((1-trial)*0.6, 0, 1),
			"market_penetration_risk": clamp(access*0.7, 0, 1),
		}
	},
}).build()

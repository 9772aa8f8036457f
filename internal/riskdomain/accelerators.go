package riskdomain

import (
	"math"

	"startup-risk-lab/internal/domain"
)

const (
	shockMacroTightening  domain.ShockType = "macro_tightening"
	shockVisaDelays       domain.ShockType = "visa_delays"
	shockGrantCuts        domain.ShockType = "grant_cuts"
	shockInvestorPullback domain.ShockType = "investor_pullback"
)

// Accelerators models startup accelerator and incubator programs.
var Accelerators Domain = (&model{
	key:         "accelerators",
	name:        "Startup Accelerators / Incubators",
	category:    "program",
	description: "Analysis of startup accelerators and incubators, including cohort performance, mentor effectiveness, and program outcomes.",
	profile:     RiskMedium,
	features: []FeatureDef{
		amount("runway_months_cohort", 6, 0, 120, "Average runway in months for cohort companies"),
		amount("mentor_density", 5, 0, 1000, "Number of mentors per startup"),
		ratio("acceptance_quality_score", 0.7, "Quality score of accepted startups"),
		ratio("follow_on_funding_rate", 0.6, "Rate of companies receiving follow-on funding"),
		ratio("visa_dependency_ratio", 0.3, "Ratio of companies dependent on visas"),
		integer("cohort_size", 20, 0, 10000, "Number of companies in current cohort"),
		integer("program_duration_weeks", 12, 0, 520, "Duration of accelerator program in weeks"),
		ratio("equity_taken", 0.06, "Average equity taken by accelerator"),
		integer("demo_day_attendance", 100, 0, 1e6, "Number of investors at demo day"),
		integer("alumni_network_size", 500, 0, 1e7, "Size of alumni network"),
	},
	factors: []RiskFactor{
		{"macro_tightening", "Tighter macro conditions shorten cohort runways"},
		{"visa_delays", "Founder and staff visas are delayed"},
		{"grant_cuts", "Program grants or public co-funding are cut"},
		{"mentor_attrition", "Mentors leave the program"},
		{"investor_pullback", "Demo day investors pull back"},
		{"program_quality_decline", "Quality of accepted startups declines"},
		{"geopolitical_risks", "Geopolitical events restrict international cohorts"},
		{"market_saturation", "Too many programs compete for the same founders"},
	},
	metrics: []string{
		"cohort_survival_12m",
		"median_follow_on",
		"burn_extension_months",
		"mentor_effectiveness",
		"program_quality_risk",
		"funding_pipeline_risk",
		"cohort_attrition_risk",
	},
	effects: map[domain.ShockType]effect{
		shockMacroTightening:  {"cohort_survival_12m": -0.20, "median_follow_on": -0.15, "burn_extension_months": 2.0},
		shockVisaDelays:       {"cohort_survival_12m": -0.10, "median_follow_on": -0.10, "burn_extension_months": 1.5},
		shockGrantCuts:        {"cohort_survival_12m": -0.15, "median_follow_on": -0.10, "burn_extension_months": 1.0},
		shockInvestorPullback: {"cohort_survival_12m": -0.15, "median_follow_on": -0.25, "burn_extension_months": 1.5},
	},
	aliases: map[domain.ShockType]alias{
		domain.ShockPolicyRateChange:     {shockMacroTightening, 1.0},
		domain.ShockPandemic:             {shockMacroTightening, 0.8},
		domain.ShockMarketCrash:          {shockInvestorPullback, 1.0},
		domain.ShockPoliticalInstability: {shockVisaDelays, 0.6},
		domain.ShockTradeWar:             {shockVisaDelays, 0.5},
		domain.ShockRegulatoryChange:     {shockGrantCuts, 0.5},
		domain.ShockClimateEvent:         {shockGrantCuts, 0.2},
	},
	sensitivity: []sensitivityTerm{
		{"runway_months_cohort", -0.05},
		{"visa_dependency_ratio", 0.5},
		{"follow_on_funding_rate", -0.3},
	},
	events: []eventRule{
		{[]string{"rate_hike", "monetary_policy"}, shockMacroTightening, 0.7, 180},
		{[]string{"immigration", "visa_policy"}, shockVisaDelays, 0.8, 120},
		{[]string{"funding_cuts", "budget_reduction"}, shockGrantCuts, 0.6, 90},
	},
	loss: lossSpec{metric: "cohort_attrition_risk", coef: 1.25},
	base: func(f domain.Features) map[string]float64 {
		return map[string]float64{
			"cohort_survival_12m":   clamp(0.7+0.3*(f["acceptance_quality_score"]-0.7), 0, 1),
			"median_follow_on":      0.5,
			"burn_extension_months": 0,
		}
	},
	derive: func(acc map[string]float64, _ domain.Features) domain.Outcomes {
		survival := acc["cohort_survival_12m"]
		followOn := acc["median_follow_on"]
		burn := acc["burn_extension_months"]
		return domain.Outcomes{
			"cohort_survival_12m":   math.Max(0.2, survival),
			"median_follow_on":      math.Max(0.1, followOn),
			"burn_extension_months": math.Min(12.0, burn),
			"mentor_effectiveness":  math.Max(0.3, 1-burn/12),
			"program_quality_risk":  math.Min(0.8, 1-survival),
			"funding_pipeline_risk": math.Min(0.9, 1-followOn),
			"cohort_attrition_risk": clamp(1-survival, 0, 1),
		}
	},
}).build()

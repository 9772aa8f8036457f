package riskdomain

import (
	"math"

	"startup-risk-lab/internal/domain"
)

const (
	shockFraudSpike    domain.ShockType = "fraud_spike"
	shockAMLCrackdowns domain.ShockType = "aml_crackdowns"
)

// Fintech models financial technology startups.
var Fintech Domain = (&model{
	key:         "fintech",
	name:        "Financial Technology (FinTech)",
	category:    "sector",
	description: "Analysis of financial technology startups, focusing on regulatory compliance, fraud prevention, and financial metrics.",
	profile:     RiskHigh,
	features: []FeatureDef{
		ratio("regulatory_burden_index", 0.5, "Regulatory compliance burden"),
		ratio("fraud_rate", 0.01, "Fraud rate as share of transactions"),
		amount("kyc_cost_per_user", 5, 0, 10000, "KYC compliance cost per user"),
		ratio("interchange_yield", 0.025, "Interchange fee yield"),
		ratio("interest_sensitivity", 0.3, "Sensitivity to interest rate changes"),
		ratio("capital_ratio_proxy", 0.15, "Proxy for capital adequacy ratio"),
		amount("transaction_volume", 0, 0, 1e13, "Monthly transaction volume"),
		amount("user_acquisition_cost", 50, 0, 1e6, "Cost to acquire new users"),
		ratio("compliance_automation_level", 0.6, "Level of compliance automation"),
		ratio("fraud_detection_accuracy", 0.95, "Fraud detection accuracy"),
		ratio("customer_trust_score", 0.8, "Customer trust and satisfaction score"),
		integer("regulatory_audit_frequency", 2, 0, 365, "Regulatory audits per year"),
	},
	factors: []RiskFactor{
		{"policy_rate_change", "Interest rate moves affect lending spreads and deposits"},
		{"aml_crackdowns", "Anti-money-laundering enforcement intensifies"},
		{"open_banking_updates", "Open banking rules change data access"},
		{"regulatory_changes", "Licensing or conduct regulation changes"},
		{"fraud_spike", "Fraud losses rise sharply"},
		{"cybersecurity_breach", "Security incident exposes customer funds or data"},
		{"customer_trust_loss", "Loss of customer trust after incidents"},
		{"capital_requirements_change", "Capital adequacy requirements tighten"},
	},
	metrics: []string{
		"tpv_growth_delta",
		"loss_rate_delta",
		"unit_econ_delta",
		"compliance_cost_increase",
		"customer_trust_risk",
		"regulatory_risk",
		"fraud_risk",
	},
	effects: map[domain.ShockType]effect{
		domain.ShockPolicyRateChange: {"tpv_growth_delta": -0.10, "loss_rate_delta": 0.05, "unit_econ_delta": -0.08},
		shockRegulatoryChanges:       {"tpv_growth_delta": -0.05, "unit_econ_delta": -0.12},
		shockFraudSpike:              {"tpv_growth_delta": -0.15, "loss_rate_delta": 0.10, "unit_econ_delta": -0.20},
		shockAMLCrackdowns:           {"tpv_growth_delta": -0.08, "loss_rate_delta": 0.02, "unit_econ_delta": -0.15},
	},
	aliases: map[domain.ShockType]alias{
		domain.ShockRegulatoryChange:     {shockRegulatoryChanges, 1.0},
		domain.ShockCybersecurityBreach:  {shockFraudSpike, 1.0},
		domain.ShockMarketCrash:          {domain.ShockPolicyRateChange, 0.8},
		domain.ShockPandemic:             {shockFraudSpike, 0.5},
		domain.ShockPoliticalInstability: {shockAMLCrackdowns, 0.5},
		domain.ShockTradeWar:             {shockAMLCrackdowns, 0.4},
		domain.ShockClimateEvent:         {domain.ShockPolicyRateChange, 0.2},
	},
	sensitivity: []sensitivityTerm{
		{"regulatory_burden_index", 0.5},
		{"compliance_automation_level", -0.3},
		{"interest_sensitivity", 0.8},
		{"fraud_detection_accuracy", -1.0},
	},
	events: []eventRule{
		{[]string{"rate_hike", "monetary_policy"}, domain.ShockPolicyRateChange, 0.8, 180},
		{[]string{"regulation", "compliance"}, shockRegulatoryChanges, 0.9, 120},
		{[]string{"fraud", "cybersecurity"}, shockFraudSpike, 0.7, 90},
	},
	loss: lossSpec{metric: "tpv_growth_delta", coef: -2.5},
	base: func(domain.Features) map[string]float64 {
		return map[string]float64{"tpv_growth_delta": 0, "loss_rate_delta": 0, "unit_econ_delta": 0}
	},
	derive: func(acc map[string]float64, _ domain.Features) domain.Outcomes {
		loss := acc["loss_rate_delta"]
		compliance := -acc["unit_econ_delta"] * 0.8
		return domain.Outcomes{
			"tpv_growth_delta":         math.Max(-0.4, acc["tpv_growth_delta"]),
			"loss_rate_delta":          math.Min(0.2, loss),
			"unit_econ_delta":          math.Max(-0.5, acc["unit_econ_delta"]),
			"compliance_cost_increase": math.Min(0.4, compliance),
			"customer_trust_risk":      math.Min(0.3, loss*1.5),
			"regulatory_risk":          math.Min(0.3, compliance*0.6),
			"fraud_risk":               loss * 0.8,
		}
	},
}).build()

package riskdomain

import (
	"math"

	"startup-risk-lab/internal/domain"
)

const (
	shockCompetitorMegaRound    domain.ShockType = "competitor_mega_round"
	shockCloudPriceChanges      domain.ShockType = "cloud_price_changes"
	shockMarketSaturation       domain.ShockType = "market_saturation"
	shockChurnSpike             domain.ShockType = "churn_spike"
	shockEnterpriseSpendingCuts domain.ShockType = "enterprise_spending_cuts"
)

// SaaS models Software-as-a-Service startups: recurring revenue, churn and unit economics.
var SaaS Domain = (&model{
	key:         "saas",
	name:        "SaaS Business Model",
	category:    "business_model",
	description: "Analysis of Software-as-a-Service startups, focusing on recurring revenue, customer metrics, and unit economics.",
	profile:     RiskMedium,
	features: []FeatureDef{
		amount("arr", 0, 0, 1e12, "Annual Recurring Revenue"),
		ratio("ndr", 0.9, "Net Dollar Retention rate"),
		ratio("gross_churn", 0.05, "Gross churn rate"),
		ratio("net_churn", 0.02, "Net churn rate"),
		amount("cac", 0, 0, 1e9, "Customer Acquisition Cost"),
		amount("ltv", 0, 0, 1e9, "Lifetime Value per customer"),
		amount("magic_number", 0, 0, 10, "Sales efficiency metric"),
		integer("sales_cycle_days", 90, 0, 3650, "Average sales cycle length"),
		ratio("gross_margin", 0.8, "Gross margin"),
		integer("payback_period_months", 12, 0, 240, "CAC payback period"),
		ratio("expansion_rate", 0.15, "Revenue expansion rate"),
		amount("contract_value", 0, 0, 1e10, "Average contract value"),
		integer("customer_count", 0, 0, 1e9, "Total number of customers"),
		ratio("enterprise_ratio", 0.3, "Ratio of enterprise customers"),
	},
	factors: []RiskFactor{
		{"competitor_mega_round", "A competitor raises an outsized round and outspends on growth"},
		{"cloud_price_changes", "Cloud infrastructure price increases compress margins"},
		{"market_saturation", "Addressable market saturates and growth stalls"},
		{"churn_spike", "Sudden increase in customer churn"},
		{"sales_efficiency_decline", "Sales efficiency (magic number) deteriorates"},
		{"enterprise_spending_cuts", "Enterprise buyers cut software budgets"},
		{"regulatory_changes", "Data-protection or platform regulation changes"},
		{"economic_downturn", "Broad macroeconomic downturn"},
	},
	metrics: []string{
		"arr_growth_delta",
		"churn_delta",
		"runway_change",
		"magic_number_delta",
		"cac_efficiency_risk",
		"unit_econ_delta",
		"ndr_risk",
	},
	effects: map[domain.ShockType]effect{
		shockCompetitorMegaRound:    {"arr_growth_delta": -0.15, "churn_delta": 0.10, "runway_change": -2.0},
		shockCloudPriceChanges:      {"arr_growth_delta": -0.05, "runway_change": -1.0},
		shockMarketSaturation:       {"arr_growth_delta": -0.20, "churn_delta": 0.15, "runway_change": -3.0},
		shockChurnSpike:             {"arr_growth_delta": -0.05, "churn_delta": 0.15, "runway_change": -1.0},
		shockEnterpriseSpendingCuts: {"arr_growth_delta": -0.12, "churn_delta": 0.08, "runway_change": -2.5},
	},
	aliases: map[domain.ShockType]alias{
		domain.ShockMarketCrash:          {shockEnterpriseSpendingCuts, 1.0},
		domain.ShockPolicyRateChange:     {shockEnterpriseSpendingCuts, 0.7},
		domain.ShockPandemic:             {shockEnterpriseSpendingCuts, 0.8},
		domain.ShockPoliticalInstability: {shockEnterpriseSpendingCuts, 0.4},
		domain.ShockCybersecurityBreach:  {shockChurnSpike, 0.6},
		domain.ShockRegulatoryChange:     {shockCloudPriceChanges, 0.5},
		domain.ShockTradeWar:             {shockCloudPriceChanges, 0.6},
		domain.ShockClimateEvent:         {shockCloudPriceChanges, 0.3},
	},
	sensitivity: []sensitivityTerm{
		{"gross_churn", 2.0},
		{"gross_margin", -1.0},
		{"enterprise_ratio", 0.5},
	},
	events: []eventRule{
		{[]string{"funding", "competition"}, shockCompetitorMegaRound, 0.6, 90},
		{[]string{"cloud_computing", "infrastructure"}, shockCloudPriceChanges, 0.5, 60},
		{[]string{"market_saturation", "industry_consolidation"}, shockMarketSaturation, 0.7, 180},
	},
	loss: lossSpec{metric: "arr_growth_delta", coef: -2},
	base: func(domain.Features) map[string]float64 {
		return map[string]float64{"arr_growth_delta": 0, "churn_delta": 0, "runway_change": 0}
	},
	derive: func(acc map[string]float64, _ domain.Features) domain.Outcomes {
		arr := acc["arr_growth_delta"]
		churn := acc["churn_delta"]
		return domain.Outcomes{
			"arr_growth_delta":    math.Max(-0.5, arr),
			"churn_delta":         math.Min(0.3, churn),
			"runway_change":       math.Max(-12.0, acc["runway_change"]),
			"magic_number_delta":  math.Max(-0.4, arr*0.8),
			"cac_efficiency_risk": math.Min(0.4, churn*1.2),
			"unit_econ_delta":     math.Max(-0.6, arr-churn),
			"ndr_risk":            churn * 0.8,
		}
	},
}).build()

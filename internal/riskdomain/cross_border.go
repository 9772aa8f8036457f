package riskdomain

import (
	"math"

	"startup-risk-lab/internal/domain"
)

const (
	shockTariffChanges         domain.ShockType = "tariff_changes"
	shockSanctions             domain.ShockType = "sanctions"
	shockImmigrationRules      domain.ShockType = "immigration_rules"
	shockCurrencyVolatility    domain.ShockType = "currency_volatility"
	shockSupplyChainDisruption domain.ShockType = "supply_chain_disruption"
)

// CrossBorder models startups operating across jurisdictions.
var CrossBorder Domain = (&model{
	key:         "cross_border",
	name:        "Cross-Border Startups",
	category:    "operating_model",
	description: "Analysis of cross-border startups, focusing on international expansion, trade dependencies, and geopolitical risks.",
	profile:     RiskMedium,
	features: []FeatureDef{
		ratio("fx_exposure", 0.3, "Foreign exchange exposure"),
		ratio("currency_volatility_exposure", 0.2, "Exposure to currency volatility"),
		ratio("trade_dependence_ratio", 0.4, "Dependence on international trade"),
		ratio("cross_border_talent_ratio", 0.3, "Ratio of international talent"),
		integer("logistics_lead_time", 30, 0, 3650, "Average logistics lead time in days"),
		ratio("supply_chain_complexity", 0.5, "Supply chain complexity index"),
		integer("market_count", 3, 0, 250, "Number of international markets"),
		integer("regulatory_compliance_countries", 2, 0, 250, "Number of countries with regulatory compliance"),
		integer("international_partnership_count", 5, 0, 1e6, "Number of international partnerships"),
		ratio("sanction_sensitivity", 0.2, "Sensitivity to sanctions"),
		ratio("political_risk_score", 0.3, "Political risk score"),
		ratio("trade_agreement_coverage", 0.6, "Coverage of trade agreements"),
		ratio("localization_cost_ratio", 0.15, "Cost of localization as ratio of revenue"),
	},
	factors: []RiskFactor{
		{"tariff_changes", "Tariffs on traded goods change"},
		{"sanctions", "Sanctions restrict a market or counterparty"},
		{"immigration_rules", "Immigration rules restrict talent mobility"},
		{"currency_volatility", "Exchange rates swing"},
		{"trade_war", "Escalating trade conflict between markets"},
		{"political_instability", "Political instability in an operating market"},
		{"supply_chain_disruption", "Logistics or supplier disruption"},
		{"regulatory_divergence", "Regulatory regimes diverge across markets"},
	},
	metrics: []string{
		"gross_margin_delta",
		"lead_time_delta",
		"revenue_at_risk",
		"supply_chain_risk",
		"currency_risk",
		"geopolitical_risk",
		"operational_risk",
	},
	effects: map[domain.ShockType]effect{
		shockTariffChanges:         {"gross_margin_delta": -0.15, "lead_time_delta": 5, "revenue_at_risk": 0.10},
		shockSanctions:             {"gross_margin_delta": -0.30, "lead_time_delta": 15, "revenue_at_risk": 0.40},
		shockImmigrationRules:      {"gross_margin_delta": -0.05, "lead_time_delta": 2, "revenue_at_risk": 0.05},
		shockCurrencyVolatility:    {"gross_margin_delta": -0.10, "revenue_at_risk": 0.08},
		shockSupplyChainDisruption: {"gross_margin_delta": -0.08, "lead_time_delta": 10, "revenue_at_risk": 0.10},
	},
	aliases: map[domain.ShockType]alias{
		domain.ShockTradeWar:             {shockTariffChanges, 1.0},
		domain.ShockPoliticalInstability: {shockSanctions, 0.5},
		domain.ShockRegulatoryChange:     {shockImmigrationRules, 0.5},
		domain.ShockPolicyRateChange:     {shockCurrencyVolatility, 1.0},
		domain.ShockMarketCrash:          {shockCurrencyVolatility, 0.8},
		domain.ShockPandemic:             {shockSupplyChainDisruption, 1.0},
		domain.ShockClimateEvent:         {shockSupplyChainDisruption, 0.6},
		domain.ShockCybersecurityBreach:  {shockSupplyChainDisruption, 0.3},
	},
	sensitivity: []sensitivityTerm{
		{"trade_dependence_ratio", 0.5},
		{"sanction_sensitivity", 0.5},
		{"fx_exposure", 0.5},
		{"trade_agreement_coverage", -0.3},
	},
	events: []eventRule{
		{[]string{"tariff", "trade_policy"}, shockTariffChanges, 0.8, 180},
		{[]string{"sanctions", "embargo"}, shockSanctions, 0.9, 365},
		{[]string{"immigration", "visa_policy"}, shockImmigrationRules, 0.7, 120},
	},
	loss: lossSpec{metric: "revenue_at_risk", coef: 1 / 0.6},
	base: func(domain.Features) map[string]float64 {
		return map[string]float64{"gross_margin_delta": 0, "lead_time_delta": 0, "revenue_at_risk": 0}
	},
	derive: func(acc map[string]float64, _ domain.Features) domain.Outcomes {
		supply := math.Min(1.0, acc["lead_time_delta"]/30)
		currency := math.Min(0.4, -acc["gross_margin_delta"]*0.8)
		return domain.Outcomes{
			"gross_margin_delta": math.Max(-0.5, acc["gross_margin_delta"]),
			"lead_time_delta":    math.Min(30.0, acc["lead_time_delta"]),
			"revenue_at_risk":    math.Min(0.6, acc["revenue_at_risk"]),
			"supply_chain_risk":  supply,
			"currency_risk":      currency,
			"geopolitical_risk":  math.Min(0.8, acc["revenue_at_risk"]*1.2),
			"operational_risk":   (supply + currency) * 0.5,
		}
	},
}).build()

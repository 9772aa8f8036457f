package riskdomain

import (
	"math"

	"startup-risk-lab/internal/domain"
)

const (
	shockLiquidityTightening domain.ShockType = "liquidity_tightening"
	shockExitWindowClosure   domain.ShockType = "exit_window_closure"
	shockRegulatoryChanges   domain.ShockType = "regulatory_changes"
)

// VentureCapital models venture capital and private equity fund portfolios.
var VentureCapital Domain = (&model{
	key:         "venture_capital",
	name:        "Venture Capital / Private Equity",
	category:    "investor",
	description: "Analysis of venture capital and private equity portfolios, including fund performance, portfolio company health, and market dynamics.",
	profile:     RiskHigh,
	features: []FeatureDef{
		amount("dry_powder", 0, 0, 1e12, "Available capital for new investments"),
		amount("fund_age_years", 0, 0, 30, "Age of the fund in years"),
		ratio("follow_on_rate", 0, "Rate of follow-on investments"),
		amount("dpi", 0, 0, 100, "Distributions to Paid-In capital ratio"),
		amount("tvpi", 0, 0, 100, "Total Value to Paid-In capital ratio"),
		ratio("bridge_need_ratio", 0, "Ratio of companies needing bridge rounds"),
		integer("portfolio_size", 0, 0, 10000, "Number of portfolio companies"),
		amount("avg_round_size", 0, 0, 1e11, "Average investment round size"),
		ratio("liquidity_ratio", 0, "Ratio of liquid to illiquid holdings"),
	},
	factors: []RiskFactor{
		{"liquidity_tightening", "Tighter credit and LP liquidity reduce follow-on capacity"},
		{"rate_hikes", "Higher policy rates compress valuations"},
		{"exit_window_closure", "IPO and M&A windows close"},
		{"dry_powder_depletion", "Available capital runs out before reserves are deployed"},
		{"portfolio_concentration", "Portfolio value concentrated in few companies"},
		{"market_correction", "Public market correction spills into private marks"},
		{"regulatory_changes", "Regulation affecting fund structures or sectors"},
		{"geopolitical_risks", "Cross-border investment restrictions"},
	},
	metrics: []string{
		"portfolio_var",
		"downround_prob",
		"follow_on_shortfall",
		"bridge_need_increase",
		"dry_powder_efficiency",
		"exit_pipeline_risk",
		"liquidity_risk",
	},
	effects: map[domain.ShockType]effect{
		shockLiquidityTightening: {"follow_on_shortfall": 0.3, "portfolio_var": 0.1, "downround_prob": 0.2},
		shockExitWindowClosure:   {"portfolio_var": 0.2, "downround_prob": 0.3},
		shockRegulatoryChanges:   {"portfolio_var": 0.05, "downround_prob": 0.1},
	},
	aliases: map[domain.ShockType]alias{
		domain.ShockPolicyRateChange:     {shockLiquidityTightening, 1.0},
		domain.ShockMarketCrash:          {shockExitWindowClosure, 1.0},
		domain.ShockPandemic:             {shockExitWindowClosure, 0.8},
		domain.ShockRegulatoryChange:     {shockRegulatoryChanges, 1.0},
		domain.ShockTradeWar:             {shockRegulatoryChanges, 0.6},
		domain.ShockPoliticalInstability: {shockRegulatoryChanges, 0.5},
		domain.ShockCybersecurityBreach:  {shockRegulatoryChanges, 0.3},
		domain.ShockClimateEvent:         {shockRegulatoryChanges, 0.2},
	},
	sensitivity: []sensitivityTerm{
		{"bridge_need_ratio", 1.0},
		{"liquidity_ratio", -0.5},
	},
	events: []eventRule{
		{[]string{"rate_hike", "monetary_policy"}, shockLiquidityTightening, 0.8, 180},
		{[]string{"market_crash", "recession"}, shockExitWindowClosure, 0.9, 365},
		{[]string{"regulation", "policy_change"}, shockRegulatoryChanges, 0.7, 90},
	},
	loss: lossSpec{metric: "portfolio_var", coef: 2},
	base: func(domain.Features) map[string]float64 {
		return map[string]float64{"portfolio_var": 0.15, "downround_prob": 0.1, "follow_on_shortfall": 0}
	},
	derive: func(acc map[string]float64, _ domain.Features) domain.Outcomes {
		pv := acc["portfolio_var"]
		down := acc["downround_prob"]
		shortfall := acc["follow_on_shortfall"]
		return domain.Outcomes{
			"portfolio_var":         math.Min(0.5, pv),
			"downround_prob":        math.Min(0.8, down),
			"follow_on_shortfall":   math.Min(1.0, shortfall),
			"bridge_need_increase":  math.Min(0.5, down*0.5),
			"dry_powder_efficiency": math.Max(0.1, math.Max(0, 1-shortfall)),
			"exit_pipeline_risk":    pv * 0.8,
			"liquidity_risk":        shortfall * 0.6,
		}
	},
}).build()

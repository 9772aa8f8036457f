package riskdomain

import (
	"startup-risk-lab/internal/domain"
)

const (
	shockContentRegulation     domain.ShockType = "content_regulation"
	shockMisinformationSpread  domain.ShockType = "misinformation_spread"
	shockRegulatoryCrackdown   domain.ShockType = "regulatory_crackdown"
	shockPlatformBias          domain.ShockType = "platform_bias_allegations"
	shockUserPrivacyViolations domain.ShockType = "user_privacy_violations"
)

// MediatechPoliticaltech models media and political technology platforms.
var MediatechPoliticaltech Domain = (&model{
	key:         "mediatech_politicaltech",
	name:        "MediaTech & PoliticalTech",
	category:    "sector",
	description: "Analysis of media and political technology startups, focusing on content regulation, political sensitivity, and user engagement.",
	profile:     RiskHigh,
	features: []FeatureDef{
		ratio("content_moderation_scale", 0.5, "Content moderation scale"),
		ratio("political_sensitivity", 0.6, "Political sensitivity score"),
		integer("content_volume", 1000, 0, 1e12, "Daily content volume"),
		ratio("moderation_accuracy", 0.8, "Content moderation accuracy"),
		amount("political_bias_score", 0, -1, 1, "Political bias score"),
		ratio("regulatory_compliance", 0.7, "Regulatory compliance score"),
		ratio("audience_diversity", 0.6, "Audience diversity score"),
		ratio("content_virality", 0.4, "Content virality score"),
		ratio("platform_trust_score", 0.7, "Platform trust score"),
	},
	factors: []RiskFactor{
		{"content_regulation", "New content moderation obligations"},
		{"political_censorship", "Political pressure to remove content"},
		{"misinformation_spread", "Misinformation campaigns target the platform"},
		{"user_privacy_violations", "User data is misused or leaked"},
		{"platform_bias_allegations", "Allegations of political bias"},
		{"regulatory_crackdown", "Regulators act against the platform"},
		{"audience_polarization", "Audience polarises and engagement degrades"},
		{"content_virality_abuse", "Viral mechanics are abused"},
	},
	metrics: []string{
		"content_risk",
		"regulatory_risk",
		"user_trust",
		"platform_stability",
		"content_quality",
	},
	effects: map[domain.ShockType]effect{
		shockContentRegulation:     {"content_risk": 0.4, "regulatory_risk": 0.3, "user_trust": -0.10},
		shockMisinformationSpread:  {"content_risk": 0.3, "regulatory_risk": 0.1, "user_trust": -0.20},
		shockRegulatoryCrackdown:   {"content_risk": 0.2, "regulatory_risk": 0.4, "user_trust": -0.05},
		shockPlatformBias:          {"content_risk": 0.1, "regulatory_risk": 0.1, "user_trust": -0.25},
		shockUserPrivacyViolations: {"content_risk": 0.1, "regulatory_risk": 0.2, "user_trust": -0.20},
	},
	aliases: map[domain.ShockType]alias{
		domain.ShockRegulatoryChange:     {shockContentRegulation, 1.0},
		domain.ShockPoliticalInstability: {shockMisinformationSpread, 1.0},
		domain.ShockPandemic:             {shockMisinformationSpread, 0.6},
		domain.ShockCybersecurityBreach:  {shockUserPrivacyViolations, 0.9},
		domain.ShockTradeWar:             {shockRegulatoryCrackdown, 0.3},
	},
	sensitivity: []sensitivityTerm{
		{"political_sensitivity", 0.5},
		{"content_virality", 0.5},
		{"moderation_accuracy", -0.5},
	},
	events: []eventRule{
		{[]string{"regulation", "content_policy"}, shockContentRegulation, 0.9, 180},
		{[]string{"misinformation", "election"}, shockMisinformationSpread, 0.8, 90},
		{[]string{"privacy", "data_breach"}, shockUserPrivacyViolations, 0.8, 120},
	},
	loss: lossSpec{metric: "content_risk", coef: 1},
	base: func(f domain.Features) map[string]float64 {
		return map[string]float64{
			"content_risk":    0.3,
			"regulatory_risk": 0.2,
			"user_trust":      f["platform_trust_score"],
		}
	},
	derive: func(acc map[string]float64, _ domain.Features) domain.Outcomes {
		content := clamp(acc["content_risk"], 0, 1)
		regulatory := clamp(acc["regulatory_risk"], 0, 1)
		return domain.Outcomes{
			"content_risk":       content,
			"regulatory_risk":    regulatory,
			"user_trust":         clamp(acc["user_trust"], 0, 1),
			"platform_stability": clamp(0.6-0.5*(regulatory-0.2), 0, 1),
			"content_quality":    clamp(0.7-0.5*(content-0.3), 0, 1),
		}
	},
}).build()

package response

import (
	"fmt"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/riskdomain"
	"startup-risk-lab/internal/shock"
)

// StressResult is the outcome of one stress scenario. Exactly one of Result
// and Err is set.
type StressResult struct {
	Scenario string           `json:"scenario"`
	Result   *PortfolioResult `json:"result,omitempty"`
	Err      error            `json:"-"`
	Error    string           `json:"error,omitempty"`
}

// RunStressTests simulates the portfolio under each named template
// (shock.StressScenarios when none are given). A failing scenario is recorded
// in its StressResult and does not stop the others.
func (s *Simulator) RunStressTests(p *domain.Portfolio, names ...string) []StressResult {
	if len(names) == 0 {
		names = shock.StressScenarios
	}

	results := make([]StressResult, 0, len(names))
	for _, name := range names {
		sr := StressResult{Scenario: name}
		shocks, err := shock.GenerateScenarioShocks(name)
		if err == nil {
			sr.Result, err = s.SimulatePortfolio(p, shocks)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("scenario", name).Msg("stress test failed")
			sr.Err = fmt.Errorf("stress %s: %w", name, err)
			sr.Error = sr.Err.Error()
		}
		results = append(results, sr)
	}
	return results
}

// Recommendations are portfolio construction hints.
type Recommendations struct {
	RiskTolerance   riskdomain.RiskProfile `json:"risk_tolerance"`
	Warnings        []string               `json:"warnings,omitempty"`
	Suggestions     []string               `json:"suggestions,omitempty"`
	Recommendations []string               `json:"recommendations,omitempty"`
}

// Recommend derives hints from diversification, concentration and domain spread
// for the given risk tolerance.
func Recommend(p *domain.Portfolio, tolerance riskdomain.RiskProfile) Recommendations {
	rec := Recommendations{RiskTolerance: tolerance}
	div := DiversificationScore(p)
	conc := ConcentrationRisk(p)

	switch {
	case div < 0.3:
		rec.Warnings = append(rec.Warnings, "Low diversification - consider adding more holdings")
	case div < 0.6:
		rec.Suggestions = append(rec.Suggestions, "Moderate diversification - could be improved")
	}
	if conc > 0.4 {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("High concentration risk (%.1f%%) - consider reducing largest holding", conc*100))
	}
	if len(DomainWeights(p)) < 3 {
		rec.Suggestions = append(rec.Suggestions, "Limited domain exposure - consider diversifying across more domains")
	}

	switch tolerance {
	case riskdomain.RiskLow:
		if conc > 0.2 {
			rec.Recommendations = append(rec.Recommendations, "Reduce concentration for lower risk tolerance")
		}
		if div < 0.7 {
			rec.Recommendations = append(rec.Recommendations, "Increase diversification for lower risk tolerance")
		}
	case riskdomain.RiskHigh:
		if conc < 0.3 {
			rec.Suggestions = append(rec.Suggestions, "Consider higher concentration for higher risk tolerance")
		}
	}
	return rec
}

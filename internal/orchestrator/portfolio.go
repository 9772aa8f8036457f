package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/observability"
	"startup-risk-lab/internal/response"
	"startup-risk-lab/internal/riskdomain"
	"startup-risk-lab/internal/shock"
)

// PortfolioRequest configures a Monte-Carlo portfolio analysis.
// Zero NumIterations or TimeHorizonDays are rejected by the engine.
type PortfolioRequest struct {
	NumIterations          int
	TimeHorizonDays        int
	Seed                   *int64 // nil: one random seed shared by all domains
	ShockTypes             []domain.ShockType
	Jurisdictions          []string
	CorrelationProbability float64
	FeatureJitter          float64
	RiskTolerance          riskdomain.RiskProfile // for recommendations; empty: medium
}

// PortfolioAnalysis is the Monte-Carlo risk of a portfolio.
type PortfolioAnalysis struct {
	PortfolioID          string                   `json:"portfolio_id"`
	PortfolioName        string                   `json:"portfolio_name"`
	Seed                 int64                    `json:"seed"`
	ResultIDs            map[string]string        `json:"result_ids"` // domain key → scenario result ID
	Risk                 response.PortfolioRisk   `json:"risk"`
	TotalValue           decimal.Decimal          `json:"total_value"`
	ValueAtRisk          decimal.Decimal          `json:"value_at_risk"` // TotalValue × Risk.VaR95
	DiversificationScore float64                  `json:"diversification_score"`
	ConcentrationRisk    float64                  `json:"concentration_risk"`
	Recommendations      response.Recommendations `json:"recommendations"`
}

// AnalyzePortfolio runs one scenario per held domain and combines the per-iteration
// loss distributions by holding weight.
//
// All domains share one seed and the same shock filters, so iteration i of every
// domain sees the same sampled shocks. Holdings of a domain are merged into its
// base features with response.AggregateFeatures. Each domain run goes through
// RunScenario and is therefore persisted and cached like any other run.
func (o *Orchestrator) AnalyzePortfolio(ctx context.Context, p *domain.Portfolio, req PortfolioRequest) (*PortfolioAnalysis, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	observability.RecordPortfolioRun("monte_carlo")

	seed := newSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	tolerance := req.RiskTolerance
	if tolerance == "" {
		tolerance = riskdomain.RiskMedium
	}

	// 1. Group holdings by domain
	groups := make(map[string][]domain.Holding)
	for _, h := range p.Holdings {
		groups[h.DomainKey] = append(groups[h.DomainKey], h)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// 2. One scenario run per domain
	analysis := &PortfolioAnalysis{
		PortfolioID:   p.ID,
		PortfolioName: p.Name,
		Seed:          seed,
		ResultIDs:     make(map[string]string, len(keys)),
	}
	responses := make(map[string]response.DomainResponse, len(keys))
	for _, key := range keys {
		d, err := o.engine.Registry().Get(key)
		if err != nil {
			return nil, err
		}
		s := seed
		run, err := o.RunScenario(ctx, domain.ScenarioParameters{
			Name:                   fmt.Sprintf("%s / %s", p.Name, key),
			DomainKey:              key,
			NumIterations:          req.NumIterations,
			TimeHorizonDays:        req.TimeHorizonDays,
			Seed:                   &s,
			ShockTypes:             req.ShockTypes,
			Jurisdictions:          req.Jurisdictions,
			CorrelationProbability: req.CorrelationProbability,
			BaseFeatures:           response.AggregateFeatures(d, groups[key]),
			FeatureJitter:          req.FeatureJitter,
		})
		if err != nil {
			return nil, fmt.Errorf("portfolio domain %s: %w", key, err)
		}

		resp, err := o.simulator.FromScenario(run.Result)
		if err != nil {
			return nil, fmt.Errorf("portfolio domain %s: %w", key, err)
		}
		responses[key] = resp
		analysis.ResultIDs[key] = run.Result.ID
	}

	// 3. Combine
	analysis.Risk = response.CalculatePortfolioRisk(responses, response.DomainWeights(p))
	analysis.TotalValue = p.TotalValue()
	analysis.ValueAtRisk = analysis.TotalValue.Mul(decimal.NewFromFloat(analysis.Risk.VaR95)).Round(2)
	analysis.DiversificationScore = response.DiversificationScore(p)
	analysis.ConcentrationRisk = response.ConcentrationRisk(p)
	analysis.Recommendations = response.Recommend(p, tolerance)

	o.logger.Info().
		Str("portfolio", p.Name).
		Int("domains", len(keys)).
		Int64("seed", seed).
		Float64("var_95", analysis.Risk.VaR95).
		Str("value_at_risk", analysis.ValueAtRisk.String()).
		Msg("portfolio analysed")
	return analysis, nil
}

// SimulatePortfolio applies one shock template to the portfolio (a point estimate).
func (o *Orchestrator) SimulatePortfolio(p *domain.Portfolio, scenario string) (*response.PortfolioResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	observability.RecordPortfolioRun("point")

	shocks, err := shock.GenerateScenarioShocks(scenario)
	if err != nil {
		return nil, err
	}
	return o.simulator.SimulatePortfolio(p, shocks)
}

// StressTest runs the portfolio through the named templates, or all stress
// templates when none are given. Per-scenario failures are reported in the results.
func (o *Orchestrator) StressTest(p *domain.Portfolio, scenarios ...string) ([]response.StressResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	observability.RecordPortfolioRun("stress")
	return o.simulator.RunStressTests(p, scenarios...), nil
}

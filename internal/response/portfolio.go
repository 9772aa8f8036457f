package response

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/riskdomain"
)

// DomainResult is the response of one domain within a portfolio simulation.
type DomainResult struct {
	DomainKey string          `json:"domain_key"`
	Weight    float64         `json:"weight"` // summed weight of the domain's holdings
	Value     decimal.Decimal `json:"value"`
	Features  domain.Features `json:"features"`
	Response  DomainResponse  `json:"response"`
}

// PortfolioResult is the outcome of applying one shock set to a portfolio.
type PortfolioResult struct {
	PortfolioID          string          `json:"portfolio_id"`
	PortfolioName        string          `json:"portfolio_name"`
	Domains              []DomainResult  `json:"domains"` // ordered by domain key
	Risk                 PortfolioRisk   `json:"risk"`
	TotalValue           decimal.Decimal `json:"total_value"`
	ValueAtRisk          decimal.Decimal `json:"value_at_risk"` // TotalValue × Risk.VaR95
	DiversificationScore float64         `json:"diversification_score"`
	ConcentrationRisk    float64         `json:"concentration_risk"`
	ShocksApplied        int             `json:"shocks_applied"`
}

// DomainWeights returns the summed holding weight per domain.
func DomainWeights(p *domain.Portfolio) map[string]float64 {
	out := make(map[string]float64)
	for _, h := range p.Holdings {
		out[h.DomainKey] += h.Weight
	}
	return out
}

// SimulatePortfolio applies shocks to every domain the portfolio holds.
// Holdings of the same domain are merged: their features are combined as a
// weight-averaged vector. The portfolio is not validated here.
func (s *Simulator) SimulatePortfolio(p *domain.Portfolio, shocks []domain.Shock) (*PortfolioResult, error) {
	groups := make(map[string][]domain.Holding)
	for _, h := range p.Holdings {
		groups[h.DomainKey] = append(groups[h.DomainKey], h)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := &PortfolioResult{
		PortfolioID:   p.ID,
		PortfolioName: p.Name,
		Domains:       make([]DomainResult, 0, len(keys)),
		ShocksApplied: len(shocks),
	}
	responses := make(map[string]DomainResponse, len(keys))
	weights := make(map[string]float64, len(keys))

	for _, key := range keys {
		d, err := s.registry.Get(key)
		if err != nil {
			return nil, err
		}
		holdings := groups[key]
		raw := AggregateFeatures(d, holdings)
		resp, err := s.Respond(key, raw, shocks)
		if err != nil {
			return nil, err
		}

		dr := DomainResult{DomainKey: key, Value: decimal.Zero, Features: raw, Response: resp}
		for _, h := range holdings {
			dr.Weight += h.Weight
			dr.Value = dr.Value.Add(h.Value)
		}
		res.Domains = append(res.Domains, dr)
		responses[key] = resp
		weights[key] = dr.Weight
	}

	res.Risk = CalculatePortfolioRisk(responses, weights)
	res.TotalValue = p.TotalValue()
	res.ValueAtRisk = res.TotalValue.Mul(decimal.NewFromFloat(res.Risk.VaR95)).Round(2)
	res.DiversificationScore = DiversificationScore(p)
	res.ConcentrationRisk = ConcentrationRisk(p)

	s.logger.Debug().
		Str("portfolio", p.Name).
		Int("domains", len(keys)).
		Int("shocks", len(shocks)).
		Float64("var_95", res.Risk.VaR95).
		Msg("portfolio simulated")
	return res, nil
}

// AggregateFeatures merges the features of holdings in one domain.
// Each feature is the holding-weighted mean over the holdings that set it
// (equal weights when those holdings carry no weight); integer features are
// rounded. Features no holding sets are left to the domain default.
func AggregateFeatures(d riskdomain.Domain, holdings []domain.Holding) map[string]float64 {
	values := make(map[string][]float64)
	weights := make(map[string][]float64)
	for _, h := range holdings {
		for k, v := range h.Features {
			values[k] = append(values[k], v)
			weights[k] = append(weights[k], h.Weight)
		}
	}

	kinds := make(map[string]riskdomain.FeatureKind)
	for _, fd := range d.FeatureSpec() {
		kinds[fd.Name] = fd.Kind
	}

	out := make(map[string]float64, len(values))
	for k, vs := range values {
		ws := weights[k]
		if floats.Sum(ws) <= 0 {
			ws = nil
		}
		v := stat.Mean(vs, ws)
		if kinds[k] == riskdomain.KindInt {
			v = math.Round(v)
		}
		out[k] = v
	}
	return out
}

// DiversificationScore is 1 − normalised Herfindahl index of holding weights:
// 1 for equal weights, 0 for a single position. Returns 0 for fewer than two holdings.
func DiversificationScore(p *domain.Portfolio) float64 {
	n := len(p.Holdings)
	if n < 2 {
		return 0
	}
	total := p.TotalWeight()
	if total <= 0 {
		return 0
	}

	hhi := 0.0
	for _, h := range p.Holdings {
		share := h.Weight / total
		hhi += share * share
	}
	minHHI := 1 / float64(n)
	normalized := (hhi - minHHI) / (1 - minHHI)
	return math.Max(0, math.Min(1, 1-normalized))
}

// ConcentrationRisk is the largest single holding weight.
func ConcentrationRisk(p *domain.Portfolio) float64 {
	maxWeight := 0.0
	for _, h := range p.Holdings {
		maxWeight = math.Max(maxWeight, h.Weight)
	}
	return maxWeight
}

package response

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/metrics"
)

// MetricPrefix is prepended to weighted outcome metric names.
const MetricPrefix = "portfolio_"

// DomainResponse is one domain's reaction to a shock set.
type DomainResponse struct {
	Outcomes domain.Outcomes `json:"outcomes"`
	Loss     float64         `json:"loss"`             // loss index of Outcomes, [0, 1]
	Losses   []float64       `json:"losses,omitempty"` // optional loss samples, e.g. one per iteration
}

// DomainRisk holds loss-distribution figures for one domain.
type DomainRisk struct {
	VaR95        float64 `json:"var_95"`
	VaR99        float64 `json:"var_99"`
	ExpectedLoss float64 `json:"expected_loss"`
	MaxLoss      float64 `json:"max_loss"`
	ES95         float64 `json:"es_95"` // mean loss at or beyond VaR95
}

// PortfolioRisk is the weight-combined risk of a set of domain responses.
type PortfolioRisk struct {
	Metrics map[string]float64    `json:"metrics"` // portfolio_<metric> weighted means
	Domains map[string]DomainRisk `json:"domains"`

	VaR95        float64 `json:"var_95"`
	VaR99        float64 `json:"var_99"`
	ExpectedLoss float64 `json:"expected_loss"`
	MaxLoss      float64 `json:"max_loss"`
	ES95         float64 `json:"es_95"`
}

// CalculatePortfolioRisk combines per-domain responses by weight.
//
// Weighted means are normalised by the total weight of the domains present
// in responses, so each portfolio figure is a convex combination of the
// per-domain figures. Weights are not validated; a domain without a weight
// contributes nothing. Returns zero figures when no present domain has weight.
func CalculatePortfolioRisk(responses map[string]DomainResponse, weights map[string]float64) PortfolioRisk {
	keys := make([]string, 0, len(responses))
	for k := range responses {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	risk := PortfolioRisk{
		Metrics: make(map[string]float64),
		Domains: make(map[string]DomainRisk, len(keys)),
	}

	w := make([]float64, len(keys))
	per := make([]DomainRisk, len(keys))
	metricSet := make(map[string]struct{})
	for i, k := range keys {
		w[i] = weights[k]
		per[i] = domainRisk(responses[k])
		risk.Domains[k] = per[i]
		for m := range responses[k].Outcomes {
			metricSet[m] = struct{}{}
		}
	}

	total := floats.Sum(w)
	for m := range metricSet {
		values := make([]float64, len(keys))
		for i, k := range keys {
			values[i] = responses[k].Outcomes[m]
		}
		risk.Metrics[MetricPrefix+m] = weightedMean(values, w, total)
	}

	combine := func(f func(DomainRisk) float64) float64 {
		values := make([]float64, len(per))
		for i, dr := range per {
			values[i] = f(dr)
		}
		return weightedMean(values, w, total)
	}
	risk.VaR95 = combine(func(d DomainRisk) float64 { return d.VaR95 })
	risk.VaR99 = combine(func(d DomainRisk) float64 { return d.VaR99 })
	risk.ExpectedLoss = combine(func(d DomainRisk) float64 { return d.ExpectedLoss })
	risk.MaxLoss = combine(func(d DomainRisk) float64 { return d.MaxLoss })
	risk.ES95 = combine(func(d DomainRisk) float64 { return d.ES95 })
	return risk
}

func weightedMean(values, weights []float64, total float64) float64 {
	if len(values) == 0 || total <= 0 {
		return 0
	}
	return stat.Mean(values, weights)
}

// domainRisk summarises a response's loss samples, falling back to its point loss.
func domainRisk(r DomainResponse) DomainRisk {
	losses := r.Losses
	if len(losses) == 0 {
		losses = []float64{r.Loss}
	}

	var95 := metrics.Percentile(losses, 0.95)
	var tail []float64
	for _, l := range losses {
		if l >= var95 {
			tail = append(tail, l)
		}
	}
	es := var95
	if len(tail) > 0 {
		es = stat.Mean(tail, nil)
	}

	return DomainRisk{
		VaR95:        var95,
		VaR99:        metrics.Percentile(losses, 0.99),
		ExpectedLoss: stat.Mean(losses, nil),
		MaxLoss:      floats.Max(losses),
		ES95:         es,
	}
}

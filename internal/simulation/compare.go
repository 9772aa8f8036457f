package simulation

import (
	"fmt"
	"sort"

	"startup-risk-lab/internal/domain"
)

// ScenarioMean is one scenario's mean for a metric.
type ScenarioMean struct {
	ResultID     string  `json:"result_id"`
	ScenarioName string  `json:"scenario_name"`
	Mean         float64 `json:"mean"`
}

// Comparison holds per-metric means across scenarios.
type Comparison struct {
	Scenarios []string                  `json:"scenarios"` // scenario names in input order
	Metrics   map[string][]ScenarioMean `json:"metrics"`   // input order, scenarios lacking the metric omitted
	Rankings  map[string][]ScenarioMean `json:"rankings"`  // descending by mean, ties in input order
}

// CompareScenarios compares metric means across two or more results.
func CompareScenarios(results ...*domain.ScenarioResult) (*Comparison, error) {
	if len(results) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrNotEnoughScenarios, len(results))
	}

	cmp := &Comparison{
		Scenarios: make([]string, 0, len(results)),
		Metrics:   make(map[string][]ScenarioMean),
		Rankings:  make(map[string][]ScenarioMean),
	}
	for _, r := range results {
		if r == nil {
			return nil, invalidf("nil scenario result")
		}
		cmp.Scenarios = append(cmp.Scenarios, r.ScenarioName)
		for _, metric := range r.MetricKeys() {
			cmp.Metrics[metric] = append(cmp.Metrics[metric], ScenarioMean{
				ResultID:     r.ID,
				ScenarioName: r.ScenarioName,
				Mean:         r.SummaryStats[metric].Mean,
			})
		}
	}

	for metric, means := range cmp.Metrics {
		ranked := append([]ScenarioMean(nil), means...)
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Mean > ranked[j].Mean })
		cmp.Rankings[metric] = ranked
	}
	return cmp, nil
}

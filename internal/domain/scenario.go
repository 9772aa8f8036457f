package domain

import "time"

// MaxShocksPerIteration caps the default number of generated shocks per iteration.
const MaxShocksPerIteration = 5

// ScenarioParameters describes one Monte-Carlo run request.
// CustomShocks is mutually exclusive with the ShockTypes/Jurisdictions filters.
type ScenarioParameters struct {
	Name                   string             `json:"name" yaml:"name"`
	Description            string             `json:"description,omitempty" yaml:"description,omitempty"`
	DomainKey              string             `json:"domain_key" yaml:"domain_key"`
	NumIterations          int                `json:"num_iterations" yaml:"num_iterations"`       // >= 1
	TimeHorizonDays        int                `json:"time_horizon_days" yaml:"time_horizon_days"` // >= 1
	Seed                   *int64             `json:"seed,omitempty" yaml:"seed,omitempty"`       // nil: random seed, recorded in result
	ShockTypes             []ShockType        `json:"shock_types,omitempty" yaml:"shock_types,omitempty"`
	Jurisdictions          []string           `json:"jurisdictions,omitempty" yaml:"jurisdictions,omitempty"`
	CustomShocks           []Shock            `json:"custom_shocks,omitempty" yaml:"custom_shocks,omitempty"`
	CorrelationProbability float64            `json:"correlation_probability" yaml:"correlation_probability"` // [0, 1]
	BaseFeatures           map[string]float64 `json:"base_features,omitempty" yaml:"base_features,omitempty"`
	FeatureJitter          float64            `json:"feature_jitter,omitempty" yaml:"feature_jitter,omitempty"`             // [0, 1]
	ShocksPerIteration     int                `json:"shocks_per_iteration,omitempty" yaml:"shocks_per_iteration,omitempty"` // 0: derived from horizon
}

// HasFilters reports whether generation filters are set.
func (p *ScenarioParameters) HasFilters() bool {
	return len(p.ShockTypes) > 0 || len(p.Jurisdictions) > 0
}

// ShockCount returns the number of shocks generated per iteration:
// the explicit override, or one per 30 days of horizon clamped to [1, MaxShocksPerIteration].
func (p *ScenarioParameters) ShockCount() int {
	if p.ShocksPerIteration > 0 {
		return p.ShocksPerIteration
	}
	n := p.TimeHorizonDays / 30
	if n < 1 {
		n = 1
	}
	if n > MaxShocksPerIteration {
		n = MaxShocksPerIteration
	}
	return n
}

// Clone returns a deep copy of the parameters.
func (p ScenarioParameters) Clone() ScenarioParameters {
	if p.Seed != nil {
		seed := *p.Seed
		p.Seed = &seed
	}
	if p.ShockTypes != nil {
		p.ShockTypes = append([]ShockType(nil), p.ShockTypes...)
	}
	if p.Jurisdictions != nil {
		p.Jurisdictions = append([]string(nil), p.Jurisdictions...)
	}
	p.CustomShocks = CloneShocks(p.CustomShocks)
	p.BaseFeatures = Features(p.BaseFeatures).Clone()
	return p
}

// RunState is the lifecycle state of a scenario run.
type RunState string

// Run states. CREATED → RUNNING → COMPLETED | FAILED | CANCELLED.
const (
	RunCreated   RunState = "CREATED"
	RunRunning   RunState = "RUNNING"
	RunCompleted RunState = "COMPLETED"
	RunFailed    RunState = "FAILED"
	RunCancelled RunState = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible.
func (s RunState) IsTerminal() bool {
	return s == RunCompleted || s == RunFailed || s == RunCancelled
}

// IterationResult is the record of one sampled pass of shocks → outcomes.
type IterationResult struct {
	Index      int      `json:"index"`
	Shocks     []Shock  `json:"shocks"`
	Features   Features `json:"features"`
	Outcomes   Outcomes `json:"outcomes"`
	Confidence float64  `json:"confidence"`
}

// Clone returns a deep copy of the record.
func (it IterationResult) Clone() IterationResult {
	it.Shocks = CloneShocks(it.Shocks)
	it.Features = it.Features.Clone()
	it.Outcomes = it.Outcomes.Clone()
	return it
}

// MetricSummary holds summary statistics for one outcome metric.
type MetricSummary struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"` // population standard deviation
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// PercentileLevels are the quantiles reported for every metric.
var PercentileLevels = [7]float64{0.05, 0.10, 0.25, 0.50, 0.75, 0.90, 0.95}

// Percentiles holds metric values at PercentileLevels, in the same order.
type Percentiles [7]float64

// P returns the value at quantile level (e.g. 0.95). ok is false for unknown levels.
func (p Percentiles) P(level float64) (float64, bool) {
	for i, l := range PercentileLevels {
		if l == level {
			return p[i], true
		}
	}
	return 0, false
}

// ScenarioResult is the immutable output of one run.
type ScenarioResult struct {
	ID              string                   `json:"id"`
	ScenarioName    string                   `json:"scenario_name"`
	Description     string                   `json:"description,omitempty"`
	DomainKey       string                   `json:"domain_key"`
	NumIterations   int                      `json:"num_iterations"`
	TimeHorizonDays int                      `json:"time_horizon_days"`
	Seed            int64                    `json:"seed"`
	State           RunState                 `json:"state"`
	Parameters      ScenarioParameters       `json:"parameters"`
	BaseResultID    string                   `json:"base_result_id,omitempty"` // set for what-if runs
	WhatIf          *WhatIfParams            `json:"what_if,omitempty"`
	Results         []IterationResult        `json:"results"`
	SummaryStats    map[string]MetricSummary `json:"summary_stats"`
	Percentiles     map[string]Percentiles   `json:"percentiles"`
	CreatedAt       time.Time                `json:"created_at"`
	CompletedAt     time.Time                `json:"completed_at"`
}

// MetricKeys returns summarised metric names in ascending order.
func (r *ScenarioResult) MetricKeys() []string {
	o := make(Outcomes, len(r.SummaryStats))
	for k := range r.SummaryStats {
		o[k] = 0
	}
	return o.Keys()
}

// Clone returns a deep copy of the result.
func (r *ScenarioResult) Clone() *ScenarioResult {
	out := *r
	out.Parameters = r.Parameters.Clone()
	if r.WhatIf != nil {
		w := r.WhatIf.Clone()
		out.WhatIf = &w
	}
	if r.Results != nil {
		out.Results = make([]IterationResult, len(r.Results))
		for i, it := range r.Results {
			out.Results[i] = it.Clone()
		}
	}
	if r.SummaryStats != nil {
		out.SummaryStats = make(map[string]MetricSummary, len(r.SummaryStats))
		for k, v := range r.SummaryStats {
			out.SummaryStats[k] = v
		}
	}
	if r.Percentiles != nil {
		out.Percentiles = make(map[string]Percentiles, len(r.Percentiles))
		for k, v := range r.Percentiles {
			out.Percentiles[k] = v
		}
	}
	return &out
}

// WhatIfParams transforms a base run into a new one.
// Zero-valued override fields keep the base run's value.
type WhatIfParams struct {
	Name                  string  `json:"name,omitempty" yaml:"name,omitempty"`
	IntensityMultiplier   float64 `json:"intensity_multiplier" yaml:"intensity_multiplier"`
	DurationMultiplier    float64 `json:"duration_multiplier" yaml:"duration_multiplier"`
	CorrelationMultiplier float64 `json:"correlation_multiplier" yaml:"correlation_multiplier"`
	AdditionalShocks      int     `json:"additional_shocks" yaml:"additional_shocks"`
	DomainKey             string  `json:"domain_key,omitempty" yaml:"domain_key,omitempty"`
	NumIterations         int     `json:"num_iterations,omitempty" yaml:"num_iterations,omitempty"`
	TimeHorizonDays       int     `json:"time_horizon_days,omitempty" yaml:"time_horizon_days,omitempty"`
	Seed                  *int64  `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DefaultWhatIfParams returns the identity transformation.
func DefaultWhatIfParams() WhatIfParams {
	return WhatIfParams{
		IntensityMultiplier:   1.0,
		DurationMultiplier:    1.0,
		CorrelationMultiplier: 1.0,
	}
}

// Clone returns a copy with its own seed pointer.
func (w WhatIfParams) Clone() WhatIfParams {
	if w.Seed != nil {
		seed := *w.Seed
		w.Seed = &seed
	}
	return w
}

// IterationOutcome is one (iteration, metric) value in long format.
// Corresponds to the iteration_outcomes table in ClickHouse.
type IterationOutcome struct {
	ResultID       string  // scenario result ID
	DomainKey      string  // domain the run was executed for
	IterationIndex int     // 0-based iteration index
	Metric         string  // outcome metric name
	Value          float64 // metric value
}

// FlattenOutcomes converts a result's iteration records into long-format rows,
// ordered by iteration index then metric name.
func FlattenOutcomes(r *ScenarioResult) []*IterationOutcome {
	var rows []*IterationOutcome
	for _, it := range r.Results {
		for _, metric := range it.Outcomes.Keys() {
			rows = append(rows, &IterationOutcome{
				ResultID:       r.ID,
				DomainKey:      r.DomainKey,
				IterationIndex: it.Index,
				Metric:         metric,
				Value:          it.Outcomes[metric],
			})
		}
	}
	return rows
}

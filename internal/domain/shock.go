package domain

// ShockType identifies the kind of shock applied within an iteration.
type ShockType string

// Generic shock types produced by the shock generator.
const (
	ShockPolicyRateChange     ShockType = "policy_rate_change"
	ShockRegulatoryChange     ShockType = "regulatory_change"
	ShockMarketCrash          ShockType = "market_crash"
	ShockTradeWar             ShockType = "trade_war"
	ShockPandemic             ShockType = "pandemic"
	ShockCybersecurityBreach  ShockType = "cybersecurity_breach"
	ShockClimateEvent         ShockType = "climate_event"
	ShockPoliticalInstability ShockType = "political_instability"
)

// Shock is a discrete simulated event applied within one simulation iteration.
// Shocks are value objects: create a new one instead of mutating a shared copy.
type Shock struct {
	Type            ShockType `json:"type" yaml:"type"`                           // shock kind
	Jurisdiction    string    `json:"jurisdiction" yaml:"jurisdiction"`           // ISO-like jurisdiction code (US, EU, ...)
	Intensity       float64   `json:"intensity" yaml:"intensity"`                 // [0, 1]
	DurationDays    int       `json:"duration_days" yaml:"duration_days"`         // >= 1
	Confidence      float64   `json:"confidence" yaml:"confidence"`               // [0, 1]
	StartOffsetDays int       `json:"start_offset_days" yaml:"start_offset_days"` // days after scenario start
	Description     string    `json:"description,omitempty" yaml:"description,omitempty"`
	SourceRefs      []string  `json:"source_refs,omitempty" yaml:"source_refs,omitempty"`
}

// Clone returns a deep copy of the shock.
func (s Shock) Clone() Shock {
	if s.SourceRefs != nil {
		refs := make([]string, len(s.SourceRefs))
		copy(refs, s.SourceRefs)
		s.SourceRefs = refs
	}
	return s
}

// EndOffsetDays returns the first day after the shock has ended.
func (s Shock) EndOffsetDays() int {
	return s.StartOffsetDays + s.DurationDays
}

// CloneShocks deep-copies a shock list. Nil stays nil.
func CloneShocks(shocks []Shock) []Shock {
	if shocks == nil {
		return nil
	}
	out := make([]Shock, len(shocks))
	for i, s := range shocks {
		out[i] = s.Clone()
	}
	return out
}

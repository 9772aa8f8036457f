package domain

// Event is a categorised news or policy event that a risk domain can translate
// into domain-specific shocks.
type Event struct {
	Category     string  `json:"category" yaml:"category"`         // e.g. "rate_hike", "regulation", "fraud"
	Title        string  `json:"title" yaml:"title"`               // used as the shock source reference
	Jurisdiction string  `json:"jurisdiction" yaml:"jurisdiction"` // jurisdiction code
	Sentiment    float64 `json:"sentiment" yaml:"sentiment"`       // [-1, 1]
	Confidence   float64 `json:"confidence" yaml:"confidence"`     // [0, 1]
	OffsetDays   int     `json:"offset_days" yaml:"offset_days"`   // days after scenario start
}

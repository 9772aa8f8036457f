package shock

import "startup-risk-lab/internal/domain"

// Stats summarises a list of shocks.
type Stats struct {
	Total            int                      `json:"total"`
	ByType           map[domain.ShockType]int `json:"by_type"`
	ByJurisdiction   map[string]int           `json:"by_jurisdiction"`
	AvgIntensity     float64                  `json:"avg_intensity"`
	AvgDurationDays  float64                  `json:"avg_duration_days"`
	AvgConfidence    float64                  `json:"avg_confidence"`
	MaxEndOffsetDays int                      `json:"max_end_offset_days"`
}

// Statistics counts shocks by type and jurisdiction and averages their values.
// An empty list yields zero averages.
func Statistics(shocks []domain.Shock) Stats {
	st := Stats{
		Total:          len(shocks),
		ByType:         make(map[domain.ShockType]int),
		ByJurisdiction: make(map[string]int),
	}
	if len(shocks) == 0 {
		return st
	}

	var intensity, duration, confidence float64
	for _, s := range shocks {
		st.ByType[s.Type]++
		st.ByJurisdiction[s.Jurisdiction]++
		intensity += s.Intensity
		duration += float64(s.DurationDays)
		confidence += s.Confidence
		if end := s.EndOffsetDays(); end > st.MaxEndOffsetDays {
			st.MaxEndOffsetDays = end
		}
	}
	n := float64(len(shocks))
	st.AvgIntensity = intensity / n
	st.AvgDurationDays = duration / n
	st.AvgConfidence = confidence / n
	return st
}

package degrade

import (
	"fmt"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// HandleStaleData discounts confidence by the share of sources older than
// thresholdDays. A non-positive threshold uses DefaultFreshnessThreshold.
// No sources means nothing is stale.
//
//   - ratio > 0.8: degraded, confidence 0.4
//   - ratio > 0.5: degraded, confidence 0.7
//   - ratio > 0.2: not degraded, confidence 0.9
//   - otherwise full confidence
func (m *Manager) HandleStaleData(sources []model.SourceReference, thresholdDays int) Decision {
	if thresholdDays <= 0 {
		thresholdDays = DefaultFreshnessThreshold
	}
	now := m.now()

	stale := 0
	for _, s := range sources {
		if s.AgeDays(now) > thresholdDays {
			stale++
		}
	}
	ratio := 0.0
	if len(sources) > 0 {
		ratio = float64(stale) / float64(len(sources))
	}

	d := proceed()
	d.StaleSourceCount = &stale
	d.StaleRatio = &ratio

	switch {
	case ratio > SevereStaleRatio:
		d.DegradedAnalysis = true
		d.AdjustedConfidence = SevereStaleConfidence
		d.Message = fmt.Sprintf("%d of %d sources are older than %d days; analysis is directional, not definitive",
			stale, len(sources), thresholdDays)
		d.Recommendations = []string{
			"Refresh market data with recent sources before making investment decisions",
			"Validate key findings against current market signals",
		}
	case ratio > ModerateStaleRatio:
		d.DegradedAnalysis = true
		d.AdjustedConfidence = ModerateStaleConfidence
		d.Message = fmt.Sprintf("%d of %d sources are older than %d days; some findings may be outdated",
			stale, len(sources), thresholdDays)
		d.Recommendations = []string{
			"Update stale sources, prioritising market size and growth figures",
		}
	case ratio > MinorStaleRatio:
		d.AdjustedConfidence = MinorStaleConfidence
		d.Message = fmt.Sprintf("Minor issue: %d of %d sources are older than %d days", stale, len(sources), thresholdDays)
		d.Recommendations = []string{
			"Consider refreshing older sources at the next review",
		}
	default:
		d.Message = "Source data is current"
	}
	return d
}

package degrade

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// HandleInsufficientCompetitorData decides how to proceed with fewer
// competitors than minRequired. A non-positive minRequired uses
// DefaultMinCompetitors.
//
//   - zero competitors: cannot proceed, confidence 0
//   - 1..minRequired-1: proceed degraded at count/minRequired, floored at 0.3
//   - minRequired or more: proceed at full confidence
func (m *Manager) HandleInsufficientCompetitorData(competitors []model.Competitor, minRequired int) Decision {
	if minRequired <= 0 {
		minRequired = DefaultMinCompetitors
	}
	n := len(competitors)

	if n == 0 {
		zap.L().Debug("degrade: no competitor data, refusing analysis")
		return Decision{
			CanProceed:         false,
			DegradedAnalysis:   true,
			AdjustedConfidence: 0,
			Message:            "No competitor data available; competitive analysis cannot be performed",
			Recommendations: []string{
				"Use alternative research methods: customer interviews, app store and review site searches, industry reports",
				"Identify indirect competitors and substitute solutions",
				"Search industry directories and trade publications for market participants",
			},
		}
	}

	if n < minRequired {
		conf := float64(n) / float64(minRequired)
		if conf < MinCompetitorConfidence {
			conf = MinCompetitorConfidence
		}
		return Decision{
			CanProceed:         true,
			DegradedAnalysis:   true,
			AdjustedConfidence: conf,
			Message: fmt.Sprintf("Limited competitor data: %d/%d competitors identified; results are indicative only",
				n, minRequired),
			Recommendations: []string{
				fmt.Sprintf("Research %d more competitor(s) to reach the minimum of %d", minRequired-n, minRequired),
				"Treat market positioning conclusions as preliminary",
			},
		}
	}

	d := proceed()
	d.Message = fmt.Sprintf("Sufficient competitor data: %d competitors identified", n)
	return d
}

package quality

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// FreshnessScore maps a source age in days onto the freshness step function:
// ≤30d → 1.0, ≤90d → 0.8, ≤180d → 0.6, ≤365d → 0.4, older → 0.2.
func FreshnessScore(ageDays int) float64 {
	for _, step := range freshnessSteps {
		if ageDays <= step.maxDays {
			return step.score
		}
	}
	return outdatedFreshnessScore
}

// FreshnessStatusFor returns the categorical freshness of an age in days.
func FreshnessStatusFor(ageDays int) model.FreshnessStatus {
	switch {
	case ageDays <= 30:
		return model.FreshnessFresh
	case ageDays <= 180:
		return model.FreshnessRecent
	case ageDays <= 365:
		return model.FreshnessStale
	default:
		return model.FreshnessOutdated
	}
}

// MeanReliability returns the arithmetic mean of source reliabilities.
func MeanReliability(sources []model.SourceReference) float64 {
	xs := make([]float64, len(sources))
	for i, s := range sources {
		xs[i] = clamp01(s.Reliability)
	}
	return mean(xs)
}

// MeanFreshness returns the arithmetic mean of per-source freshness scores.
func MeanFreshness(sources []model.SourceReference, now time.Time) float64 {
	xs := make([]float64, len(sources))
	for i, s := range sources {
		xs[i] = FreshnessScore(s.AgeDays(now))
	}
	return mean(xs)
}

// freshnessBreakdown counts sources per freshness status, e.g.
// "fresh 2, outdated 1".
func freshnessBreakdown(sources []model.SourceReference, now time.Time) string {
	counts := make(map[model.FreshnessStatus]int, 4)
	for _, s := range sources {
		counts[FreshnessStatusFor(s.AgeDays(now))]++
	}
	var parts []string
	for _, st := range []model.FreshnessStatus{model.FreshnessFresh, model.FreshnessRecent, model.FreshnessStale, model.FreshnessOutdated} {
		if n := counts[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", st, n))
		}
	}
	return strings.Join(parts, ", ")
}

// validateSources grades source reliability and freshness. It returns two
// dimensions so each carries its own weight in the aggregate.
func validateSources(sources []model.SourceReference, now time.Time) (reliability, freshness Dimension) {
	if len(sources) == 0 {
		reliability = Dimension{
			Metric: MetricSourceReliability,
			Indicator: model.QualityIndicator{
				Description: "No sources attributed to the analysis",
				Impact:      model.ImpactCritical,
			},
			Recommendations: []string{"Attribute findings to authoritative sources (analyst reports, filings, market research)"},
		}
		freshness = Dimension{
			Metric: MetricDataFreshness,
			Indicator: model.QualityIndicator{
				Description: "Data freshness cannot be assessed without sources",
				Impact:      model.ImpactCritical,
			},
		}
		return reliability, freshness
	}

	rel := MeanReliability(sources)
	fresh := MeanFreshness(sources, now)

	reliability = Dimension{
		Metric: MetricSourceReliability,
		Score:  rel,
		Indicator: model.QualityIndicator{
			Description: fmt.Sprintf("Mean reliability %.2f across %d sources", rel, len(sources)),
			Impact:      impactFor(rel),
		},
	}
	if rel < ReliabilityMedium {
		reliability.Indicator.Impact = model.ImpactImportant
		reliability.Recommendations = append(reliability.Recommendations,
			"Add more authoritative sources such as analyst firms or company filings")
	}

	freshness = Dimension{
		Metric: MetricDataFreshness,
		Score:  fresh,
		Indicator: model.QualityIndicator{
			Description: fmt.Sprintf("Mean freshness score %.2f (%s)", fresh, freshnessBreakdown(sources, now)),
			Impact:      impactFor(fresh),
		},
	}
	if fresh < FreshnessTarget {
		freshness.Indicator.Impact = model.ImpactImportant
		freshness.Recommendations = append(freshness.Recommendations,
			"Refresh market data with sources published in the last 90 days")
	}
	return reliability, freshness
}

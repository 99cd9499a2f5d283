package confidence

import (
	"sort"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// Data quality is considered weak below this overall confidence; its
// remediation steps are then raised to medium priority.
const weakDataQuality = 0.6

type remedy struct {
	typ         model.RecommendationType
	description string
}

// remedies maps each component to the remediation it asks for when weak.
var remedies = map[string]remedy{
	ComponentDataQuality:       {model.RecDataValidation, "Resolve the data quality issues flagged for this analysis"},
	ComponentCompetitorCover:   {model.RecExpandResearch, "Expand competitor research to cover at least 3 well-profiled competitors"},
	ComponentSourceReliability: {model.RecSourceImprovement, "Add authoritative sources such as analyst reports and company filings"},
	ComponentMarketContext:     {model.RecContextEnrichment, "Define the industry, geography and target segment for the analysis"},
	ComponentAnalysisDepth:     {model.RecExpandResearch, "Deepen the SWOT analysis and add implementation steps to recommendations"},
	ComponentMethodologyRigor:  {model.RecMethodologyUpdate, "Triangulate market size with additional methodologies (top-down, bottom-up, value-theory)"},
	ComponentMarketSizeLogic:   {model.RecDataValidation, "Correct market size estimates so that TAM > SAM > SOM"},
	ComponentIntervals:         {model.RecDataValidation, "Provide well-formed confidence intervals for headline market sizes"},
	ComponentAssumptions:       {model.RecAssumptionValidation, "Validate key assumptions with primary or secondary research"},
}

func priorityFor(impact model.UncertaintyImpact) (model.RecommendationPriority, bool) {
	switch impact {
	case model.UncertaintyCritical:
		return model.PriorityImmediate, true
	case model.UncertaintyHigh:
		return model.PriorityHigh, true
	case model.UncertaintyMedium:
		return model.PriorityMedium, true
	default:
		return "", false
	}
}

// recommend derives prioritized recommendations from component impacts,
// the extra rule-specific recommendations and the data quality check. The
// result is deduplicated by description and stably sorted by priority.
func recommend(components []model.ConfidenceComponent, dq *model.DataQualityCheck, extra []model.ConfidenceRecommendation) []model.ConfidenceRecommendation {
	var recs []model.ConfidenceRecommendation
	for _, c := range components {
		p, ok := priorityFor(c.UncertaintyImpact)
		if !ok {
			continue
		}
		r, ok := remedies[c.Name]
		if !ok {
			continue
		}
		recs = append(recs, model.ConfidenceRecommendation{
			Type:        r.typ,
			Priority:    p,
			Component:   c.Name,
			Description: r.description,
		})
	}
	recs = append(recs, extra...)

	if dq != nil {
		p := model.PriorityLow
		if dq.OverallConfidence < weakDataQuality {
			p = model.PriorityMedium
		}
		for _, text := range dq.Recommendations {
			recs = append(recs, model.ConfidenceRecommendation{
				Type:        model.RecDataValidation,
				Priority:    p,
				Component:   ComponentDataQuality,
				Description: text,
			})
		}
		if dq.DataFreshness > 0 && dq.DataFreshness < weakDataQuality {
			recs = append(recs, model.ConfidenceRecommendation{
				Type:        model.RecDataRefresh,
				Priority:    model.PriorityHigh,
				Component:   ComponentDataQuality,
				Description: "Refresh stale sources with data from the last 90 days",
			})
		}
	}

	recs = dedupeRecommendations(recs)
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
	return recs
}

// dedupeRecommendations keeps the first occurrence of each description,
// raised to the highest priority seen for it.
func dedupeRecommendations(recs []model.ConfidenceRecommendation) []model.ConfidenceRecommendation {
	index := make(map[string]int, len(recs))
	out := make([]model.ConfidenceRecommendation, 0, len(recs))
	for _, r := range recs {
		if i, ok := index[r.Description]; ok {
			if r.Priority.Rank() < out[i].Priority.Rank() {
				out[i].Priority = r.Priority
			}
			continue
		}
		index[r.Description] = len(out)
		out = append(out, r)
	}
	return out
}

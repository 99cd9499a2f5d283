// Package modeltest provides analysis result fixtures shared by tests.
package modeltest

import (
	"fmt"
	"time"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// Now is the fixed clock used by fixtures.
var Now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// Clock returns Now.
func Clock() time.Time { return Now }

// Share returns a pointer to a market share value.
func Share(v float64) *float64 { return &v }

// Source builds a source of the given type, reliability and age.
func Source(id string, typ model.SourceType, reliability float64, ageDays int) model.SourceReference {
	published := Now.AddDate(0, 0, -ageDays)
	return model.SourceReference{
		ID:             id,
		Type:           typ,
		Title:          fmt.Sprintf("%s report", id),
		Organization:   string(typ),
		PublishDate:    published,
		AccessDate:     Now,
		Reliability:    reliability,
		Relevance:      0.8,
		DataFreshness:  model.DataFreshness{AgeInDays: ageDays},
		CitationFormat: fmt.Sprintf("%s (%d). %s report.", typ, published.Year(), id),
	}
}

// Competitor builds a fully populated competitor profile.
func Competitor(name string, share float64) model.Competitor {
	return model.Competitor{
		Name:         name,
		MarketShare:  Share(share),
		Strengths:    []string{"brand recognition"},
		Weaknesses:   []string{"legacy UI"},
		KeyFeatures:  []string{"scheduling", "billing"},
		Pricing:      "$99/month per seat",
		TargetMarket: "mid-size clinics",
		RecentMoves:  []string{"acquired a billing startup"},
	}
}

func swot(competitor string, conf float64) model.SWOTAnalysis {
	item := func(s string) []model.SWOTItem {
		return []model.SWOTItem{{Item: s, Confidence: conf, Evidence: []string{"annual report"}}}
	}
	return model.SWOTAnalysis{
		Competitor:    competitor,
		Strengths:     item("distribution"),
		Weaknesses:    item("slow releases"),
		Opportunities: item("telehealth"),
		Threats:       item("new entrants"),
	}
}

// FullCompetitive returns a competitive result with three complete
// competitors, two highly reliable fresh sources, a confident SWOT and
// actionable recommendations.
func FullCompetitive() *model.CompetitorAnalysisResult {
	return &model.CompetitorAnalysisResult{
		FeatureIdea: "Automated HIPAA audit trail exports for dental clinic schedulers",
		MarketContext: model.MarketContext{
			Industry:       "dental software",
			Geography:      "North America",
			TargetSegment:  "independent clinics",
			MarketMaturity: model.MaturityGrowing,
		},
		CompetitiveMatrix: model.CompetitiveMatrix{
			Competitors: []model.Competitor{
				Competitor("Dentrix", 0.35),
				Competitor("Curve", 0.20),
				Competitor("Open Dental", 0.15),
			},
		},
		SWOTAnalysis: []model.SWOTAnalysis{
			swot("Dentrix", 0.85),
			swot("Curve", 0.8),
		},
		StrategicRecommendations: []model.StrategicRecommendation{
			{Title: "Lead with compliance", Implementation: []string{"ship audit export", "publish HIPAA guide"}},
			{Title: "Partner with DSOs", Implementation: []string{"pilot with two DSOs"}},
		},
		SourceAttribution: []model.SourceReference{
			Source("gartner-2026", model.SourceGartner, 0.92, 20),
			Source("filing-10k", model.SourceCompanyFiling, 0.95, 25),
		},
	}
}

// EmptyCompetitive returns a competitive result with no competitors and no sources.
func EmptyCompetitive() *model.CompetitorAnalysisResult {
	return &model.CompetitorAnalysisResult{
		MarketContext: model.MarketContext{Industry: "dental software"},
	}
}

// FullMarketSizing returns a market sizing result with ordered sizes, two
// methodologies, confident assumptions, valid intervals and reliable sources.
func FullMarketSizing() *model.MarketSizingResult {
	return &model.MarketSizingResult{
		FeatureIdea: "Automated HIPAA audit trail exports for dental clinic schedulers",
		TAM:         model.MarketSizeEstimate{Value: 10e9, Currency: "USD", Year: 2026, GrowthRate: 0.12},
		SAM:         model.MarketSizeEstimate{Value: 2e9, Currency: "USD", Year: 2026, GrowthRate: 0.10},
		SOM:         model.MarketSizeEstimate{Value: 1e8, Currency: "USD", Year: 2026, GrowthRate: 0.08},
		Methodology: []model.MethodologyStep{
			{Type: model.MethodTopDown, Description: "industry spend", Confidence: 0.8},
			{Type: model.MethodBottomUp, Description: "clinics x price", Confidence: 0.75},
		},
		Assumptions: []model.Assumption{
			{Description: "120k US dental clinics", Confidence: 0.9},
			{Description: "$1,200 annual contract", Confidence: 0.8},
		},
		ConfidenceIntervals: []model.ConfidenceInterval{
			{Metric: "TAM", LowerBound: 8e9, UpperBound: 12e9, ConfidenceLevel: 0.9},
			{Metric: "SOM", LowerBound: 6e7, UpperBound: 1.4e8, ConfidenceLevel: 0.8},
		},
		SourceAttribution: []model.SourceReference{
			Source("mckinsey-dental", model.SourceMcKinsey, 0.9, 40),
			Source("market-research-1", model.SourceMarketResearch, 0.8, 60),
		},
	}
}

// EmptyMarketSizing returns a logically ordered market sizing result with
// empty methodology, assumptions, intervals and sources.
func EmptyMarketSizing() *model.MarketSizingResult {
	return &model.MarketSizingResult{
		TAM:                 model.MarketSizeEstimate{Value: 10e9, GrowthRate: 0.1},
		SAM:                 model.MarketSizeEstimate{Value: 2e9, GrowthRate: 0.1},
		SOM:                 model.MarketSizeEstimate{Value: 1e8, GrowthRate: 0.1},
		Methodology:         []model.MethodologyStep{},
		Assumptions:         []model.Assumption{},
		ConfidenceIntervals: []model.ConfidenceInterval{},
		SourceAttribution:   []model.SourceReference{},
	}
}

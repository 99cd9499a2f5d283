package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func TestSourceTypeValues(t *testing.T) {
	for _, st := range AllSourceTypes() {
		assert.True(t, st.Valid(), "%s should be valid", st)
	}
	assert.Len(t, AllSourceTypes(), 7)
	assert.False(t, SourceType("blog").Valid())
	assert.Equal(t, "industry-report", string(SourceIndustryReport))
}

func TestSourceReference_AgeDays(t *testing.T) {
	published := now.AddDate(0, 0, -40)
	tests := []struct {
		name string
		src  SourceReference
		want int
	}{
		{"recorded age wins", SourceReference{DataFreshness: DataFreshness{AgeInDays: 7}, PublishDate: published}, 7},
		{"publish to access", SourceReference{PublishDate: published, AccessDate: now.AddDate(0, 0, -10)}, 30},
		{"publish to now", SourceReference{PublishDate: published}, 40},
		{"unknown publish date", SourceReference{}, 0},
		{"future publish date", SourceReference{PublishDate: now.AddDate(0, 0, 3)}, 0},
		{"partial day floors", SourceReference{PublishDate: now.Add(-47 * time.Hour)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.src.AgeDays(now))
		})
	}
}

func TestSourceReference_Validate(t *testing.T) {
	ok := SourceReference{Reliability: 0.8, Relevance: 1, PublishDate: now.AddDate(-1, 0, 0), AccessDate: now}
	assert.NoError(t, ok.Validate())

	tests := []struct {
		name  string
		src   SourceReference
		field string
	}{
		{"reliability above one", SourceReference{Reliability: 1.2}, "reliability"},
		{"negative relevance", SourceReference{Relevance: -0.1}, "relevance"},
		{"published after access", SourceReference{PublishDate: now, AccessDate: now.AddDate(0, 0, -1)}, "publish_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.src.Validate()
			var re *RangeError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.field, re.Field)
		})
	}
}

func TestMarketSizingResult_SizesOrdered(t *testing.T) {
	r := &MarketSizingResult{
		TAM: MarketSizeEstimate{Value: 100},
		SAM: MarketSizeEstimate{Value: 10},
		SOM: MarketSizeEstimate{Value: 1},
	}
	assert.True(t, r.SizesOrdered())

	r.SAM.Value = 100
	assert.False(t, r.SizesOrdered())
}

func TestMarketSizingResult_DistinctMethodologies(t *testing.T) {
	r := &MarketSizingResult{Methodology: []MethodologyStep{
		{Type: MethodBottomUp},
		{Type: ""},
		{Type: MethodTopDown},
		{Type: MethodBottomUp},
	}}
	assert.Equal(t, []string{MethodBottomUp, MethodTopDown}, r.DistinctMethodologies())
	assert.Nil(t, (&MarketSizingResult{}).DistinctMethodologies())
}

func TestConfidenceInterval_Valid(t *testing.T) {
	assert.True(t, ConfidenceInterval{LowerBound: 1, UpperBound: 2, ConfidenceLevel: 0.9}.Valid())
	assert.False(t, ConfidenceInterval{LowerBound: 2, UpperBound: 2, ConfidenceLevel: 0.9}.Valid())
	assert.False(t, ConfidenceInterval{LowerBound: 1, UpperBound: 2}.Valid())
}

func TestRecommendationPriority_Rank(t *testing.T) {
	assert.Less(t, PriorityImmediate.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Equal(t, PriorityLow.Rank(), RecommendationPriority("unknown").Rank())
}

func TestLookups(t *testing.T) {
	dq := DataQualityCheck{QualityIndicators: []QualityIndicator{{Metric: "Source Reliability", Score: 0.9}}}
	qi, ok := dq.Indicator("Source Reliability")
	require.True(t, ok)
	assert.InDelta(t, 0.9, qi.Score, 1e-9)
	_, ok = dq.Indicator("missing")
	assert.False(t, ok)

	s := ConfidenceScore{Components: []ConfidenceComponent{{Name: "Data Quality", Weight: 0.25}}}
	c, ok := s.Component("Data Quality")
	require.True(t, ok)
	assert.InDelta(t, 0.25, c.Weight, 1e-9)
	_, ok = s.Component("missing")
	assert.False(t, ok)
}

func TestAnalysisResultKinds(t *testing.T) {
	results := []AnalysisResult{
		&CompetitorAnalysisResult{SourceAttribution: []SourceReference{{ID: "a"}}},
		&MarketSizingResult{},
	}
	assert.Equal(t, KindCompetitive, results[0].Kind())
	assert.Len(t, results[0].Sources(), 1)
	assert.Equal(t, KindMarketSizing, results[1].Kind())
	assert.Empty(t, results[1].Sources())
}

func TestSWOTAnalysis_Items(t *testing.T) {
	s := SWOTAnalysis{
		Strengths: []SWOTItem{{Item: "a"}},
		Threats:   []SWOTItem{{Item: "b"}, {Item: "c"}},
	}
	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Item)
	assert.Equal(t, "c", items[2].Item)
}

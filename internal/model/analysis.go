package model

// AnalysisKind distinguishes the two analysis result families.
type AnalysisKind string

// Analysis kinds.
const (
	KindCompetitive  AnalysisKind = "competitive"
	KindMarketSizing AnalysisKind = "market-sizing"
)

// AnalysisResult is implemented by every result the core can score.
type AnalysisResult interface {
	Kind() AnalysisKind
	Sources() []SourceReference
}

// MarketMaturity values recognised by the scorer.
const (
	MaturityEmerging  = "emerging"
	MaturityGrowing   = "growing"
	MaturityMature    = "mature"
	MaturityDeclining = "declining"
)

// MarketContext describes where a feature idea competes.
type MarketContext struct {
	Industry       string `json:"industry,omitempty"`
	Geography      string `json:"geography,omitempty"`
	TargetSegment  string `json:"target_segment,omitempty"`
	MarketMaturity string `json:"market_maturity,omitempty"`
}

// Competitor is one profile in a competitive matrix.
type Competitor struct {
	Name         string   `json:"name"`
	MarketShare  *float64 `json:"market_share,omitempty"`
	Strengths    []string `json:"strengths,omitempty"`
	Weaknesses   []string `json:"weaknesses,omitempty"`
	KeyFeatures  []string `json:"key_features,omitempty"`
	Pricing      string   `json:"pricing,omitempty"`
	TargetMarket string   `json:"target_market,omitempty"`
	RecentMoves  []string `json:"recent_moves,omitempty"`
}

// CompetitiveMatrix holds the competitor profiles and comparison dimensions.
type CompetitiveMatrix struct {
	Competitors         []Competitor `json:"competitors"`
	FeatureComparison   []string     `json:"feature_comparison,omitempty"`
	DifferentiationAxes []string     `json:"differentiation_axes,omitempty"`
}

// SWOTItem is one scored SWOT observation.
type SWOTItem struct {
	Item       string   `json:"item"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence,omitempty"`
}

// SWOTAnalysis holds the SWOT quadrants for one competitor.
type SWOTAnalysis struct {
	Competitor    string     `json:"competitor"`
	Strengths     []SWOTItem `json:"strengths,omitempty"`
	Weaknesses    []SWOTItem `json:"weaknesses,omitempty"`
	Opportunities []SWOTItem `json:"opportunities,omitempty"`
	Threats       []SWOTItem `json:"threats,omitempty"`
}

// Items returns every SWOT item across the four quadrants.
func (s SWOTAnalysis) Items() []SWOTItem {
	out := make([]SWOTItem, 0, len(s.Strengths)+len(s.Weaknesses)+len(s.Opportunities)+len(s.Threats))
	out = append(out, s.Strengths...)
	out = append(out, s.Weaknesses...)
	out = append(out, s.Opportunities...)
	return append(out, s.Threats...)
}

// StrategicRecommendation is a recommendation emitted by the competitive analyzer.
type StrategicRecommendation struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	Rationale      string   `json:"rationale,omitempty"`
	Implementation []string `json:"implementation,omitempty"`
}

// CompetitorAnalysisResult is produced by the (external) competitive analyzer.
type CompetitorAnalysisResult struct {
	FeatureIdea              string                    `json:"feature_idea,omitempty"`
	MarketContext            MarketContext             `json:"market_context"`
	CompetitiveMatrix        CompetitiveMatrix         `json:"competitive_matrix"`
	SWOTAnalysis             []SWOTAnalysis            `json:"swot_analysis,omitempty"`
	StrategicRecommendations []StrategicRecommendation `json:"strategic_recommendations,omitempty"`
	SourceAttribution        []SourceReference         `json:"source_attribution,omitempty"`
}

// Kind implements AnalysisResult.
func (r *CompetitorAnalysisResult) Kind() AnalysisKind { return KindCompetitive }

// Sources implements AnalysisResult.
func (r *CompetitorAnalysisResult) Sources() []SourceReference { return r.SourceAttribution }

// Methodology types accepted for market sizing.
const (
	MethodTopDown     = "top-down"
	MethodBottomUp    = "bottom-up"
	MethodValueTheory = "value-theory"
)

// SizingMethods returns the valid market sizing methodology types in canonical order.
func SizingMethods() []string {
	return []string{MethodTopDown, MethodBottomUp, MethodValueTheory}
}

// MarketSizeEstimate is one of TAM, SAM or SOM.
type MarketSizeEstimate struct {
	Value       float64 `json:"value"`
	Currency    string  `json:"currency,omitempty"`
	Year        int     `json:"year,omitempty"`
	GrowthRate  float64 `json:"growth_rate"`
	Description string  `json:"description,omitempty"`
}

// MethodologyStep records one sizing methodology that was applied.
type MethodologyStep struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	DataSources []string `json:"data_sources,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// Assumption is an explicit input to a sizing calculation.
type Assumption struct {
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description"`
	Value       string  `json:"value,omitempty"`
	Confidence  float64 `json:"confidence"`
	Impact      string  `json:"impact,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// ConfidenceInterval bounds a headline metric.
type ConfidenceInterval struct {
	Metric          string  `json:"metric"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// Valid reports whether the interval is well formed.
func (c ConfidenceInterval) Valid() bool {
	return c.LowerBound < c.UpperBound && c.ConfidenceLevel > 0
}

// MarketSizingResult is produced by the (external) market sizing analyzer.
// A nil Methodology means no methodology was recorded at all, which is
// different from an empty list of applied methodologies.
type MarketSizingResult struct {
	FeatureIdea         string               `json:"feature_idea,omitempty"`
	MarketContext       *MarketContext       `json:"market_context,omitempty"`
	TAM                 MarketSizeEstimate   `json:"tam"`
	SAM                 MarketSizeEstimate   `json:"sam"`
	SOM                 MarketSizeEstimate   `json:"som"`
	Methodology         []MethodologyStep    `json:"methodology"`
	Assumptions         []Assumption         `json:"assumptions"`
	ConfidenceIntervals []ConfidenceInterval `json:"confidence_intervals"`
	SourceAttribution   []SourceReference    `json:"source_attribution"`
}

// Kind implements AnalysisResult.
func (r *MarketSizingResult) Kind() AnalysisKind { return KindMarketSizing }

// Sources implements AnalysisResult.
func (r *MarketSizingResult) Sources() []SourceReference { return r.SourceAttribution }

// SizesOrdered reports whether TAM > SAM > SOM holds strictly.
func (r *MarketSizingResult) SizesOrdered() bool {
	return r.TAM.Value > r.SAM.Value && r.SAM.Value > r.SOM.Value
}

// DistinctMethodologies returns the methodology types in first-seen order.
func (r *MarketSizingResult) DistinctMethodologies() []string {
	seen := make(map[string]bool, len(r.Methodology))
	var out []string
	for _, m := range r.Methodology {
		if m.Type == "" || seen[m.Type] {
			continue
		}
		seen[m.Type] = true
		out = append(out, m.Type)
	}
	return out
}

// MarketDefinition scopes a market sizing request. A nil Geography means the
// caller did not supply one; an empty, non-nil slice means it was supplied empty.
type MarketDefinition struct {
	Industry         string   `json:"industry"`
	Geography        []string `json:"geography"`
	CustomerSegments []string `json:"customer_segments,omitempty"`
}

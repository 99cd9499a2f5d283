package quality

// Input validation limits and multiplicative confidence penalties.
const (
	MinFeatureIdeaLength = 10
	MaxFeatureIdeaLength = 2000
	GenericTermLimit     = 5
	MinIndustryLength    = 3

	MissingContextPenalty   = 0.8
	OversizedIdeaPenalty    = 0.95
	GenericIdeaPenalty      = 0.9
	ShortIndustryPenalty    = 0.9
	MissingGeographyPenalty = 0.85
	EmptyGeographyPenalty   = 0.8
	MissingSegmentsPenalty  = 0.85
	SingleMethodPenalty     = 0.9

	// qualityScore = confidence - WarningDeduction*|warnings| - GapDeduction*|gaps|
	WarningDeduction = 0.05
	GapDeduction     = 0.1
)

// Result validation thresholds.
const (
	MinCompetitors = 3

	// ReliabilityMedium is the mean source reliability below which more
	// authoritative sources are recommended.
	ReliabilityMedium = 0.6
	ReliabilityLow    = 0.5

	FreshnessTarget = 0.6

	CompleteProfileThreshold = 0.7
	CompleteProfileRatio     = 0.6

	HighConfidenceThreshold = 0.7
	SWOTRigorRatio          = 0.5
	ImplementationRatio     = 0.6

	AssumptionRatio       = 0.5
	IntervalValidityRatio = 0.8
	MinMethodologies      = 2

	// IllogicalSizeScore is assigned to the market size logic dimension when
	// TAM > SAM > SOM does not hold.
	IllogicalSizeScore = 0.3
)

// Freshness step function: age in days → score.
var freshnessSteps = []struct {
	maxDays int
	score   float64
}{
	{30, 1.0},
	{90, 0.8},
	{180, 0.6},
	{365, 0.4},
}

const outdatedFreshnessScore = 0.2

// Competitor profile completeness weights. Required fields count double.
const (
	requiredFieldPoints = 2.0
	optionalFieldPoints = 1.0
)

// Dimension names used as QualityIndicator metrics.
const (
	MetricCompetitorData       = "Competitor Data"
	MetricSourceReliability    = "Source Reliability"
	MetricDataFreshness        = "Data Freshness"
	MetricSWOTRigor            = "SWOT Rigor"
	MetricStrategyQuality      = "Strategy Quality"
	MetricMarketSizeLogic      = "Market Size Logic"
	MetricMethodologyDiversity = "Methodology Diversity"
	MetricAssumptions          = "Assumption Confidence"
	MetricConfidenceIntervals  = "Confidence Intervals"
)

// Competitive result dimension weights.
var competitiveWeights = map[string]float64{
	MetricCompetitorData:    0.25,
	MetricSourceReliability: 0.25,
	MetricDataFreshness:     0.20,
	MetricSWOTRigor:         0.15,
	MetricStrategyQuality:   0.15,
}

// Market sizing result dimension weights.
var marketSizingWeights = map[string]float64{
	MetricMarketSizeLogic:      0.25,
	MetricSourceReliability:    0.20,
	MetricDataFreshness:        0.15,
	MetricMethodologyDiversity: 0.15,
	MetricAssumptions:          0.15,
	MetricConfidenceIntervals:  0.10,
}

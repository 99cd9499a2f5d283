package model

import "time"

// Impact grades how much a quality indicator matters.
type Impact string

// Indicator impacts.
const (
	ImpactCritical  Impact = "critical"
	ImpactImportant Impact = "important"
	ImpactMinor     Impact = "minor"
)

// QualityIndicator is one named, scored observation about a data quality dimension.
type QualityIndicator struct {
	Metric      string  `json:"metric"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
	Impact      Impact  `json:"impact"`
}

// DataQualityCheck is the aggregate result of validating one analysis result.
type DataQualityCheck struct {
	SourceReliability float64            `json:"source_reliability"`
	DataFreshness     float64            `json:"data_freshness"`
	MethodologyRigor  float64            `json:"methodology_rigor"`
	OverallConfidence float64            `json:"overall_confidence"`
	QualityIndicators []QualityIndicator `json:"quality_indicators"`
	Recommendations   []string           `json:"recommendations"`
}

// Indicator returns the first indicator with the given metric name.
func (c DataQualityCheck) Indicator(metric string) (QualityIndicator, bool) {
	for _, qi := range c.QualityIndicators {
		if qi.Metric == metric {
			return qi, true
		}
	}
	return QualityIndicator{}, false
}

// ValidationResult is the outcome of validating a request's inputs.
type ValidationResult struct {
	IsValid         bool     `json:"is_valid"`
	Confidence      float64  `json:"confidence"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
	DataGaps        []string `json:"data_gaps"`
	QualityScore    float64  `json:"quality_score"`
}

// ReliabilityLevel is the coarse categorical summary of an overall score.
type ReliabilityLevel string

// Reliability levels. ReliabilityVeryHigh is part of the wire vocabulary but
// the tier thresholds never produce it.
const (
	ReliabilityVeryLow  ReliabilityLevel = "very-low"
	ReliabilityLow      ReliabilityLevel = "low"
	ReliabilityMedium   ReliabilityLevel = "medium"
	ReliabilityHigh     ReliabilityLevel = "high"
	ReliabilityVeryHigh ReliabilityLevel = "very-high"
)

// UncertaintyImpact grades how much a confidence component contributes to uncertainty.
type UncertaintyImpact string

// Uncertainty impacts, ordered from least to most severe.
const (
	UncertaintyLow      UncertaintyImpact = "low"
	UncertaintyMedium   UncertaintyImpact = "medium"
	UncertaintyHigh     UncertaintyImpact = "high"
	UncertaintyCritical UncertaintyImpact = "critical"
)

// ConfidenceComponent is one named sub-score of a ConfidenceScore.
type ConfidenceComponent struct {
	Name                string            `json:"name"`
	Score               float64           `json:"score"`
	Weight              float64           `json:"weight"`
	UncertaintyImpact   UncertaintyImpact `json:"uncertainty_impact"`
	ContributingFactors []string          `json:"contributing_factors"`
}

// UncertaintyFactorType tags the origin of an uncertainty factor.
type UncertaintyFactorType string

// Uncertainty factor types.
const (
	FactorMarketVolatility  UncertaintyFactorType = "market-volatility"
	FactorMethodology       UncertaintyFactorType = "methodology"
	FactorAssumptionRisk    UncertaintyFactorType = "assumption-risk"
	FactorSourceReliability UncertaintyFactorType = "source-reliability"
	FactorDataGap           UncertaintyFactorType = "data-gap"
)

// UncertaintyFactor is a typed reason the score may be wrong.
type UncertaintyFactor struct {
	Type        UncertaintyFactorType `json:"type"`
	Severity    UncertaintyImpact     `json:"severity"`
	Description string                `json:"description"`
}

// RecommendationPriority orders recommendations.
type RecommendationPriority string

// Recommendation priorities.
const (
	PriorityImmediate RecommendationPriority = "immediate"
	PriorityHigh      RecommendationPriority = "high"
	PriorityMedium    RecommendationPriority = "medium"
	PriorityLow       RecommendationPriority = "low"
)

// Rank returns the sort rank of the priority; lower ranks come first.
func (p RecommendationPriority) Rank() int {
	switch p {
	case PriorityImmediate:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// RecommendationType tags what kind of remediation a recommendation asks for.
type RecommendationType string

// Recommendation types.
const (
	RecExpandResearch       RecommendationType = "expand-research"
	RecMethodologyUpdate    RecommendationType = "methodology-update"
	RecSourceImprovement    RecommendationType = "source-improvement"
	RecDataValidation       RecommendationType = "data-validation"
	RecAssumptionValidation RecommendationType = "assumption-validation"
	RecContextEnrichment    RecommendationType = "context-enrichment"
	RecDataRefresh          RecommendationType = "data-refresh"
)

// ConfidenceRecommendation is a prioritized, typed remediation step.
type ConfidenceRecommendation struct {
	Type        RecommendationType     `json:"type"`
	Priority    RecommendationPriority `json:"priority"`
	Component   string                 `json:"component,omitempty"`
	Description string                 `json:"description"`
}

// ConfidenceScore is an explainable confidence judgment about one analysis.
type ConfidenceScore struct {
	Overall            float64                    `json:"overall"`
	ReliabilityLevel   ReliabilityLevel           `json:"reliability_level"`
	Components         []ConfidenceComponent      `json:"components"`
	UncertaintyFactors []UncertaintyFactor        `json:"uncertainty_factors"`
	Recommendations    []ConfidenceRecommendation `json:"recommendations"`
	LastCalculated     time.Time                  `json:"last_calculated"`
}

// Component returns the component with the given name.
func (s ConfidenceScore) Component(name string) (ConfidenceComponent, bool) {
	for _, c := range s.Components {
		if c.Name == name {
			return c, true
		}
	}
	return ConfidenceComponent{}, false
}

// TrendDirection of a headline metric.
type TrendDirection string

// Trend directions.
const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// UncertaintyRange bounds a metric at a confidence level.
type UncertaintyRange struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// UncertaintyIndicator summarises the volatility of one headline metric.
type UncertaintyIndicator struct {
	Metric           string           `json:"metric"`
	CurrentValue     float64          `json:"current_value"`
	UncertaintyRange UncertaintyRange `json:"uncertainty_range"`
	Volatility       float64          `json:"volatility"`
	TrendDirection   TrendDirection   `json:"trend_direction"`
	LastUpdated      time.Time        `json:"last_updated"`
}

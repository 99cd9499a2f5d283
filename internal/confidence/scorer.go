// Package confidence turns a completed analysis result and its data quality
// check into an explainable confidence score: weighted named components, a
// reliability tier, typed uncertainty factors and prioritized recommendations.
package confidence

import (
	"fmt"
	"time"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// Component names.
const (
	ComponentDataQuality       = "Data Quality"
	ComponentCompetitorCover   = "Competitor Coverage"
	ComponentSourceReliability = "Source Reliability"
	ComponentMarketContext     = "Market Context"
	ComponentAnalysisDepth     = "Analysis Depth"
	ComponentMethodologyRigor  = "Methodology Rigor"
	ComponentMarketSizeLogic   = "Market Size Logic"
	ComponentIntervals         = "Confidence Intervals"
	ComponentAssumptions       = "Assumption Quality"
)

// Component weights. Each set sums to 1.
var (
	competitiveWeights = map[string]float64{
		ComponentDataQuality:       0.25,
		ComponentCompetitorCover:   0.25,
		ComponentSourceReliability: 0.20,
		ComponentMarketContext:     0.10,
		ComponentAnalysisDepth:     0.20,
	}
	marketSizingWeights = map[string]float64{
		ComponentDataQuality:       0.15,
		ComponentMethodologyRigor:  0.20,
		ComponentMarketSizeLogic:   0.20,
		ComponentIntervals:         0.15,
		ComponentSourceReliability: 0.15,
		ComponentAssumptions:       0.15,
	}
)

// Reliability tier lower bounds. ReliabilityVeryHigh is never produced.
const (
	HighTier   = 0.85
	MediumTier = 0.6
	LowTier    = 0.35
)

// Scoring constants.
const (
	ExpectedCompetitors      = 3
	coverageCountShare       = 0.7
	coverageCompletenessPart = 0.3
	highConfidenceItem       = 0.7
	lowReliability           = 0.5
	minSourceTypes           = 2

	logicalSizeScore   = 0.9
	focusedSOMBonus    = 0.1
	focusedSOMRatio    = 0.1
	illogicalSizeScore = 0.2

	methodologyDiversityShare = 0.7
	methodologyConfidencePart = 0.3
	lowAssumption             = 0.5
)

// Scorer computes confidence scores. It holds no state beyond its clock and
// is safe for concurrent use.
type Scorer struct {
	now func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithClock overrides the clock stamped into LastCalculated.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Scorer.
func New(opts ...Option) *Scorer {
	s := &Scorer{now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Tier maps an overall score onto a reliability level.
func Tier(overall float64) model.ReliabilityLevel {
	switch {
	case overall >= HighTier:
		return model.ReliabilityHigh
	case overall >= MediumTier:
		return model.ReliabilityMedium
	case overall >= LowTier:
		return model.ReliabilityLow
	default:
		return model.ReliabilityVeryLow
	}
}

// Overall returns the weighted mean of component scores, renormalised over
// the weights present.
func Overall(components []model.ConfidenceComponent) float64 {
	total, sum := 0.0, 0.0
	for _, c := range components {
		if c.Weight <= 0 {
			continue
		}
		total += c.Weight
		sum += c.Weight * c.Score
	}
	if total == 0 {
		return 0
	}
	return clamp01(sum / total)
}

func (s *Scorer) assemble(components []model.ConfidenceComponent, factors []model.UncertaintyFactor, recs []model.ConfidenceRecommendation) *model.ConfidenceScore {
	overall := Overall(components)
	if factors == nil {
		factors = []model.UncertaintyFactor{}
	}
	return &model.ConfidenceScore{
		Overall:            overall,
		ReliabilityLevel:   Tier(overall),
		Components:         components,
		UncertaintyFactors: factors,
		Recommendations:    recs,
		LastCalculated:     s.now().UTC(),
	}
}

func component(weights map[string]float64, name string, score float64, impact model.UncertaintyImpact, factors ...string) model.ConfidenceComponent {
	if factors == nil {
		factors = []string{}
	}
	return model.ConfidenceComponent{
		Name:                name,
		Score:               clamp01(score),
		Weight:              weights[name],
		UncertaintyImpact:   impact,
		ContributingFactors: factors,
	}
}

// impactFor grades a component score when no rule escalates it.
func impactFor(score float64) model.UncertaintyImpact {
	switch {
	case score >= 0.7:
		return model.UncertaintyLow
	case score >= 0.5:
		return model.UncertaintyMedium
	default:
		return model.UncertaintyHigh
	}
}

func dataQualityComponent(weights map[string]float64, dq *model.DataQualityCheck) model.ConfidenceComponent {
	if dq == nil {
		return component(weights, ComponentDataQuality, 0, model.UncertaintyHigh, "No data quality check available")
	}
	factors := []string{
		fmt.Sprintf("Data quality confidence: %.2f", dq.OverallConfidence),
		fmt.Sprintf("Source reliability: %.2f", dq.SourceReliability),
		fmt.Sprintf("Data freshness: %.2f", dq.DataFreshness),
	}
	critical := 0
	for _, qi := range dq.QualityIndicators {
		if qi.Impact == model.ImpactCritical {
			critical++
		}
	}
	if critical > 0 {
		factors = append(factors, fmt.Sprintf("Critical quality issues: %d", critical))
	}
	return component(weights, ComponentDataQuality, dq.OverallConfidence, impactFor(dq.OverallConfidence), factors...)
}

func sourceReliabilityComponent(weights map[string]float64, sources []model.SourceReference) model.ConfidenceComponent {
	if len(sources) == 0 {
		return component(weights, ComponentSourceReliability, 0, model.UncertaintyCritical, "No sources attributed")
	}
	rel := meanReliability(sources)
	impact := impactFor(rel)
	if rel <= lowReliability {
		impact = model.UncertaintyHigh
	}
	return component(weights, ComponentSourceReliability, rel, impact,
		fmt.Sprintf("Sources: %d", len(sources)),
		fmt.Sprintf("Mean reliability: %.2f", rel),
		fmt.Sprintf("Source types: %d distinct", len(distinctSourceTypes(sources))),
	)
}

func sourceFactors(sources []model.SourceReference) []model.UncertaintyFactor {
	var out []model.UncertaintyFactor
	if len(sources) == 0 {
		return append(out, model.UncertaintyFactor{
			Type:        model.FactorSourceReliability,
			Severity:    model.UncertaintyCritical,
			Description: "No sources support the analysis",
		})
	}
	if rel := meanReliability(sources); rel <= lowReliability {
		out = append(out, model.UncertaintyFactor{
			Type:        model.FactorSourceReliability,
			Severity:    model.UncertaintyHigh,
			Description: fmt.Sprintf("Mean source reliability is low (%.2f)", rel),
		})
	}
	return out
}

func volatilityFactor(mc *model.MarketContext) []model.UncertaintyFactor {
	if mc == nil || mc.MarketMaturity != model.MaturityEmerging {
		return nil
	}
	return []model.UncertaintyFactor{{
		Type:        model.FactorMarketVolatility,
		Severity:    model.UncertaintyHigh,
		Description: "Emerging market: structure, pricing and share are likely to shift",
	}}
}

func meanReliability(sources []model.SourceReference) float64 {
	xs := make([]float64, len(sources))
	for i, s := range sources {
		xs[i] = clamp01(s.Reliability)
	}
	return mean(xs)
}

func distinctSourceTypes(sources []model.SourceReference) []model.SourceType {
	seen := map[model.SourceType]bool{}
	var out []model.SourceType
	for _, s := range sources {
		if s.Type == "" || seen[s.Type] {
			continue
		}
		seen[s.Type] = true
		out = append(out, s.Type)
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

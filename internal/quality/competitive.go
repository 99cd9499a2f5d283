package quality

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// ValidateCompetitiveResult grades a competitive analysis result across
// competitor data, source reliability, data freshness, SWOT rigor and strategy
// quality. It never fails; weak data lowers the returned scores.
func (v *Validator) ValidateCompetitiveResult(r *model.CompetitorAnalysisResult) *model.DataQualityCheck {
	if r == nil {
		r = &model.CompetitorAnalysisResult{}
	}

	rel, fresh := validateSources(r.SourceAttribution, v.now())
	dims := []Dimension{
		weighted(competitiveWeights, validateCompetitors(r.CompetitiveMatrix.Competitors)),
		weighted(competitiveWeights, rel),
		weighted(competitiveWeights, fresh),
		weighted(competitiveWeights, validateSWOT(r.SWOTAnalysis)),
		weighted(competitiveWeights, validateStrategy(r.StrategicRecommendations)),
	}

	check := buildCheck(dims, rel.Score, fresh.Score, dims[3].Score)
	logCritical("competitive", check)
	return check
}

// CompetitorCompleteness scores how fully a competitor profile is populated.
// Name, strengths, weaknesses, key features and pricing are worth two points
// each; market share, target market and recent moves one point each.
func CompetitorCompleteness(c model.Competitor) float64 {
	required := []bool{
		strings.TrimSpace(c.Name) != "",
		len(c.Strengths) > 0,
		len(c.Weaknesses) > 0,
		len(c.KeyFeatures) > 0,
		strings.TrimSpace(c.Pricing) != "",
	}
	optional := []bool{
		c.MarketShare != nil,
		strings.TrimSpace(c.TargetMarket) != "",
		len(c.RecentMoves) > 0,
	}

	total := requiredFieldPoints*float64(len(required)) + optionalFieldPoints*float64(len(optional))
	score := 0.0
	for _, ok := range required {
		if ok {
			score += requiredFieldPoints
		}
	}
	for _, ok := range optional {
		if ok {
			score += optionalFieldPoints
		}
	}
	return score / total
}

func validateCompetitors(competitors []model.Competitor) Dimension {
	d := Dimension{Metric: MetricCompetitorData}
	if len(competitors) == 0 {
		d.Indicator = model.QualityIndicator{
			Description: "No competitors identified",
			Impact:      model.ImpactCritical,
		}
		d.Recommendations = []string{"Identify direct and indirect competitors before drawing conclusions"}
		return d
	}

	scores := make([]float64, len(competitors))
	complete := 0
	for i, c := range competitors {
		scores[i] = CompetitorCompleteness(c)
		if scores[i] > CompleteProfileThreshold {
			complete++
		}
	}
	d.Score = mean(scores)
	d.Indicator = model.QualityIndicator{
		Description: fmt.Sprintf("%d competitors, mean profile completeness %.2f", len(competitors), d.Score),
		Impact:      impactFor(d.Score),
	}

	if len(competitors) < MinCompetitors {
		d.Indicator.Impact = model.ImpactImportant
		d.Indicator.Description = fmt.Sprintf("Only %d of %d expected competitors identified; mean profile completeness %.2f",
			len(competitors), MinCompetitors, d.Score)
		d.Recommendations = append(d.Recommendations,
			fmt.Sprintf("Expand competitor research to at least %d competitors", MinCompetitors))
	}
	if float64(complete)/float64(len(competitors)) < CompleteProfileRatio {
		d.Recommendations = append(d.Recommendations,
			"Gather more detail on competitor pricing, features, strengths and weaknesses")
	}
	return d
}

func validateSWOT(swot []model.SWOTAnalysis) Dimension {
	d := Dimension{Metric: MetricSWOTRigor}
	total, high := 0, 0
	for _, s := range swot {
		for _, item := range s.Items() {
			total++
			if item.Confidence > HighConfidenceThreshold {
				high++
			}
		}
	}
	if total == 0 {
		d.Indicator = model.QualityIndicator{
			Description: "No SWOT entries recorded",
			Impact:      model.ImpactImportant,
		}
		d.Recommendations = []string{"Complete a SWOT analysis for each major competitor"}
		return d
	}

	d.Score = float64(high) / float64(total)
	d.Indicator = model.QualityIndicator{
		Description: fmt.Sprintf("%d of %d SWOT items held with high confidence", high, total),
		Impact:      impactFor(d.Score),
	}
	if d.Score < SWOTRigorRatio {
		d.Recommendations = []string{"Strengthen SWOT analysis with evidence-backed findings"}
	}
	return d
}

func validateStrategy(recs []model.StrategicRecommendation) Dimension {
	d := Dimension{Metric: MetricStrategyQuality}
	if len(recs) == 0 {
		d.Indicator = model.QualityIndicator{
			Description: "No strategic recommendations produced",
			Impact:      model.ImpactImportant,
		}
		return d
	}

	withSteps := 0
	for _, r := range recs {
		if len(nonBlank(r.Implementation)) > 0 {
			withSteps++
		}
	}
	d.Score = float64(withSteps) / float64(len(recs))
	d.Indicator = model.QualityIndicator{
		Description: fmt.Sprintf("%d of %d recommendations include implementation steps", withSteps, len(recs)),
		Impact:      impactFor(d.Score),
	}
	if d.Score < ImplementationRatio {
		d.Recommendations = []string{"Add concrete implementation steps to strategic recommendations"}
	}
	return d
}

func logCritical(kind string, check *model.DataQualityCheck) {
	for _, qi := range check.QualityIndicators {
		if qi.Impact == model.ImpactCritical {
			zap.L().Debug("quality: critical indicator",
				zap.String("kind", kind),
				zap.String("metric", qi.Metric),
				zap.String("description", qi.Description),
			)
		}
	}
}

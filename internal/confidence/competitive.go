package confidence

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/pm-toolserver/internal/model"
	"github.com/sells-group/pm-toolserver/internal/quality"
)

// CalculateCompetitiveConfidence scores a competitive analysis with five
// components: data quality, competitor coverage, source reliability, market
// context and SWOT/strategy depth. Empty lists produce zero-scored
// components; nothing is re-validated.
func (s *Scorer) CalculateCompetitiveConfidence(r *model.CompetitorAnalysisResult, dq *model.DataQualityCheck) *model.ConfidenceScore {
	if r == nil {
		r = &model.CompetitorAnalysisResult{}
	}
	w := competitiveWeights
	competitors := r.CompetitiveMatrix.Competitors

	components := []model.ConfidenceComponent{
		dataQualityComponent(w, dq),
		coverageComponent(competitors),
		sourceReliabilityComponent(w, r.SourceAttribution),
		contextComponent(r.MarketContext),
		depthComponent(r.SWOTAnalysis, r.StrategicRecommendations),
	}

	var factors []model.UncertaintyFactor
	mc := r.MarketContext
	factors = append(factors, volatilityFactor(&mc)...)
	if types := distinctSourceTypes(r.SourceAttribution); len(types) < minSourceTypes {
		factors = append(factors, model.UncertaintyFactor{
			Type:        model.FactorMethodology,
			Severity:    model.UncertaintyMedium,
			Description: fmt.Sprintf("Analysis draws on %d distinct source type(s); triangulation is limited", len(types)),
		})
	}
	factors = append(factors, sourceFactors(r.SourceAttribution)...)
	if n := len(competitors); n < ExpectedCompetitors {
		sev := model.UncertaintyMedium
		if n == 0 {
			sev = model.UncertaintyCritical
		}
		factors = append(factors, model.UncertaintyFactor{
			Type:        model.FactorDataGap,
			Severity:    sev,
			Description: fmt.Sprintf("Only %d of %d expected competitors analysed", n, ExpectedCompetitors),
		})
	}

	score := s.assemble(components, factors, recommend(components, dq, nil))
	zap.L().Debug("confidence: competitive scored",
		zap.Float64("overall", score.Overall),
		zap.String("level", string(score.ReliabilityLevel)),
	)
	return score
}

func coverageComponent(competitors []model.Competitor) model.ConfidenceComponent {
	w := competitiveWeights
	n := len(competitors)
	if n == 0 {
		return component(w, ComponentCompetitorCover, 0, model.UncertaintyCritical,
			"Competitor count: 0", "No competitors identified")
	}
	completeness := make([]float64, n)
	for i, c := range competitors {
		completeness[i] = quality.CompetitorCompleteness(c)
	}
	meanComplete := mean(completeness)
	countPart := math.Min(1, float64(n)/ExpectedCompetitors)
	score := countPart*coverageCountShare + meanComplete*coverageCompletenessPart

	factors := []string{
		fmt.Sprintf("Competitor count: %d", n),
		fmt.Sprintf("Mean profile completeness: %.2f", meanComplete),
	}
	impact := impactFor(score)
	if n < ExpectedCompetitors {
		factors = append(factors, fmt.Sprintf("Below the expected %d competitors", ExpectedCompetitors))
		if impact == model.UncertaintyLow {
			impact = model.UncertaintyMedium
		}
	}
	return component(w, ComponentCompetitorCover, score, impact, factors...)
}

func contextComponent(mc model.MarketContext) model.ConfidenceComponent {
	fields := []struct {
		name  string
		value string
	}{
		{"industry", mc.Industry},
		{"geography", mc.Geography},
		{"target segment", mc.TargetSegment},
	}
	filled := 0
	var factors []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) != "" {
			filled++
			continue
		}
		factors = append(factors, "Missing "+f.name)
	}
	score := float64(filled) / float64(len(fields))
	if filled == len(fields) {
		factors = append(factors, "Industry, geography and target segment defined")
	}
	return component(competitiveWeights, ComponentMarketContext, score, impactFor(score), factors...)
}

func depthComponent(swot []model.SWOTAnalysis, recs []model.StrategicRecommendation) model.ConfidenceComponent {
	total, high := 0, 0
	for _, a := range swot {
		for _, item := range a.Items() {
			total++
			if item.Confidence > highConfidenceItem {
				high++
			}
		}
	}
	swotScore := 0.0
	if total > 0 {
		swotScore = float64(high) / float64(total)
	}

	withSteps := 0
	for _, r := range recs {
		for _, step := range r.Implementation {
			if strings.TrimSpace(step) != "" {
				withSteps++
				break
			}
		}
	}
	strategyScore := 0.0
	if len(recs) > 0 {
		strategyScore = float64(withSteps) / float64(len(recs))
	}

	score := (swotScore + strategyScore) / 2
	return component(competitiveWeights, ComponentAnalysisDepth, score, impactFor(score),
		fmt.Sprintf("SWOT items with high confidence: %d of %d", high, total),
		fmt.Sprintf("Recommendations with implementation steps: %d of %d", withSteps, len(recs)),
	)
}

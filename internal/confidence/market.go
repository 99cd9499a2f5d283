package confidence

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// CalculateMarketSizingConfidence scores a market sizing result with six
// components: data quality, methodology rigor, market size logic, confidence
// intervals, source reliability and assumption quality. The size logic
// component mirrors the validator: TAM > SAM > SOM or it is critical.
func (s *Scorer) CalculateMarketSizingConfidence(r *model.MarketSizingResult, dq *model.DataQualityCheck) *model.ConfidenceScore {
	if r == nil {
		r = &model.MarketSizingResult{}
	}
	w := marketSizingWeights

	components := []model.ConfidenceComponent{
		dataQualityComponent(w, dq),
		methodologyComponent(r),
		sizeLogicComponent(r),
		intervalComponent(r.ConfidenceIntervals),
		sourceReliabilityComponent(w, r.SourceAttribution),
		assumptionComponent(r.Assumptions),
	}

	var factors []model.UncertaintyFactor
	switch types := r.DistinctMethodologies(); len(types) {
	case 0:
		factors = append(factors, model.UncertaintyFactor{
			Type:        model.FactorMethodology,
			Severity:    model.UncertaintyHigh,
			Description: "No sizing methodology documented",
		})
	case 1:
		factors = append(factors, model.UncertaintyFactor{
			Type:        model.FactorMethodology,
			Severity:    model.UncertaintyMedium,
			Description: fmt.Sprintf("Single sizing methodology in use (%s); estimates are not triangulated", types[0]),
		})
	}
	if low := lowConfidenceAssumptions(r.Assumptions); low > 0 {
		factors = append(factors, model.UncertaintyFactor{
			Type:        model.FactorAssumptionRisk,
			Severity:    assumptionRiskSeverity(low),
			Description: fmt.Sprintf("%d assumption(s) held with confidence below %.1f", low, lowAssumption),
		})
	}
	factors = append(factors, volatilityFactor(r.MarketContext)...)
	factors = append(factors, sourceFactors(r.SourceAttribution)...)

	var extra []model.ConfidenceRecommendation
	if invalid := invalidIntervals(r.ConfidenceIntervals); invalid > 0 {
		extra = append(extra, model.ConfidenceRecommendation{
			Type:        model.RecDataValidation,
			Priority:    model.PriorityHigh,
			Component:   ComponentIntervals,
			Description: "Correct confidence intervals so each lower bound is below its upper bound",
		})
	}

	score := s.assemble(components, factors, recommend(components, dq, extra))
	zap.L().Debug("confidence: market sizing scored",
		zap.Float64("overall", score.Overall),
		zap.String("level", string(score.ReliabilityLevel)),
	)
	return score
}

func methodologyComponent(r *model.MarketSizingResult) model.ConfidenceComponent {
	types := r.DistinctMethodologies()
	listed := "none"
	if len(types) > 0 {
		listed = strings.Join(types, ", ")
	}
	factors := []string{fmt.Sprintf("Methodology diversity: %s", listed)}
	if len(types) == 0 {
		return component(marketSizingWeights, ComponentMethodologyRigor, 0, model.UncertaintyHigh, factors...)
	}

	confs := make([]float64, len(r.Methodology))
	for i, m := range r.Methodology {
		confs[i] = clamp01(m.Confidence)
	}
	diversity := float64(len(types)) / float64(len(model.SizingMethods()))
	if diversity > 1 {
		diversity = 1
	}
	meanConf := mean(confs)
	score := diversity*methodologyDiversityShare + meanConf*methodologyConfidencePart
	factors = append(factors, fmt.Sprintf("Mean methodology confidence: %.2f", meanConf))

	impact := impactFor(score)
	if len(types) == 1 && impact == model.UncertaintyLow {
		impact = model.UncertaintyMedium
	}
	return component(marketSizingWeights, ComponentMethodologyRigor, score, impact, factors...)
}

func sizeLogicComponent(r *model.MarketSizingResult) model.ConfidenceComponent {
	if !r.SizesOrdered() {
		var factors []string
		if r.TAM.Value <= r.SAM.Value {
			factors = append(factors, "TAM <= SAM (illogical)")
		} else {
			factors = append(factors, "TAM > SAM (logical)")
		}
		if r.SAM.Value <= r.SOM.Value {
			factors = append(factors, "SAM <= SOM (illogical)")
		} else {
			factors = append(factors, "SAM > SOM (logical)")
		}
		return component(marketSizingWeights, ComponentMarketSizeLogic, illogicalSizeScore, model.UncertaintyCritical, factors...)
	}

	score := logicalSizeScore
	factors := []string{"TAM > SAM (logical)", "SAM > SOM (logical)"}
	if r.TAM.Value > 0 && r.SOM.Value >= 0 {
		ratio := r.SOM.Value / r.TAM.Value
		factors = append(factors, fmt.Sprintf("SOM is %.1f%% of TAM", ratio*100))
		if ratio <= focusedSOMRatio {
			score += focusedSOMBonus
		}
	}
	return component(marketSizingWeights, ComponentMarketSizeLogic, score, model.UncertaintyLow, factors...)
}

func intervalComponent(intervals []model.ConfidenceInterval) model.ConfidenceComponent {
	if len(intervals) == 0 {
		return component(marketSizingWeights, ComponentIntervals, 0, model.UncertaintyHigh, "No confidence intervals provided")
	}
	invalid := invalidIntervals(intervals)
	score := float64(len(intervals)-invalid) / float64(len(intervals))
	factors := []string{fmt.Sprintf("Valid intervals: %d of %d", len(intervals)-invalid, len(intervals))}
	impact := impactFor(score)
	if invalid > 0 {
		factors = append(factors, fmt.Sprintf("Invalid intervals: %d", invalid))
		if impact == model.UncertaintyLow {
			impact = model.UncertaintyMedium
		}
	}
	return component(marketSizingWeights, ComponentIntervals, score, impact, factors...)
}

func assumptionComponent(assumptions []model.Assumption) model.ConfidenceComponent {
	if len(assumptions) == 0 {
		return component(marketSizingWeights, ComponentAssumptions, 0, model.UncertaintyHigh, "No assumptions documented")
	}
	confs := make([]float64, len(assumptions))
	for i, a := range assumptions {
		confs[i] = clamp01(a.Confidence)
	}
	score := mean(confs)
	factors := []string{
		fmt.Sprintf("Assumptions: %d", len(assumptions)),
		fmt.Sprintf("Mean assumption confidence: %.2f", score),
	}
	if low := lowConfidenceAssumptions(assumptions); low > 0 {
		factors = append(factors, fmt.Sprintf("Low-confidence assumptions: %d", low))
	}
	return component(marketSizingWeights, ComponentAssumptions, score, impactFor(score), factors...)
}

func invalidIntervals(intervals []model.ConfidenceInterval) int {
	n := 0
	for _, ci := range intervals {
		if !ci.Valid() {
			n++
		}
	}
	return n
}

func lowConfidenceAssumptions(assumptions []model.Assumption) int {
	n := 0
	for _, a := range assumptions {
		if a.Confidence < lowAssumption {
			n++
		}
	}
	return n
}

// assumptionRiskSeverity scales with the number of weak assumptions.
func assumptionRiskSeverity(low int) model.UncertaintyImpact {
	switch {
	case low >= 4:
		return model.UncertaintyCritical
	case low >= 2:
		return model.UncertaintyHigh
	default:
		return model.UncertaintyMedium
	}
}

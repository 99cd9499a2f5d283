package quality

import (
	"fmt"
	"strings"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// ValidateMarketSizingResult grades a market sizing result across market size
// logic, source reliability, data freshness, methodology diversity, assumption
// confidence and confidence interval validity. A nil methodology list drops
// the diversity dimension and renormalises the remaining weights.
func (v *Validator) ValidateMarketSizingResult(r *model.MarketSizingResult) *model.DataQualityCheck {
	if r == nil {
		r = &model.MarketSizingResult{}
	}

	rel, fresh := validateSources(r.SourceAttribution, v.now())
	dims := []Dimension{
		weighted(marketSizingWeights, validateSizeLogic(r)),
		weighted(marketSizingWeights, rel),
		weighted(marketSizingWeights, fresh),
	}

	rigor := 0.0
	if r.Methodology != nil {
		div := weighted(marketSizingWeights, validateMethodology(r))
		rigor = div.Score
		dims = append(dims, div)
	}
	dims = append(dims,
		weighted(marketSizingWeights, validateAssumptions(r.Assumptions)),
		weighted(marketSizingWeights, validateIntervals(r.ConfidenceIntervals)),
	)

	check := buildCheck(dims, rel.Score, fresh.Score, rigor)
	logCritical("market-sizing", check)
	return check
}

// validateSizeLogic enforces TAM > SAM > SOM. A violation is always critical.
func validateSizeLogic(r *model.MarketSizingResult) Dimension {
	d := Dimension{Metric: MetricMarketSizeLogic}
	if !r.SizesOrdered() {
		var broken []string
		if r.TAM.Value <= r.SAM.Value {
			broken = append(broken, "TAM <= SAM")
		}
		if r.SAM.Value <= r.SOM.Value {
			broken = append(broken, "SAM <= SOM")
		}
		d.Score = IllogicalSizeScore
		d.Indicator = model.QualityIndicator{
			Description: fmt.Sprintf("Market size ordering violated: %s", strings.Join(broken, ", ")),
			Impact:      model.ImpactCritical,
		}
		d.Recommendations = []string{"Correct market sizes so that TAM > SAM > SOM"}
		return d
	}
	d.Score = 1.0
	d.Indicator = model.QualityIndicator{
		Description: "TAM > SAM > SOM",
		Impact:      model.ImpactMinor,
	}
	return d
}

func validateMethodology(r *model.MarketSizingResult) Dimension {
	d := Dimension{Metric: MetricMethodologyDiversity}
	types := r.DistinctMethodologies()
	d.Score = float64(len(types)) / float64(len(model.SizingMethods()))
	if d.Score > 1 {
		d.Score = 1
	}
	desc := "No sizing methodologies applied"
	if len(types) > 0 {
		desc = fmt.Sprintf("Methodologies applied: %s", strings.Join(types, ", "))
	}
	d.Indicator = model.QualityIndicator{Description: desc, Impact: impactFor(d.Score)}
	if len(types) < MinMethodologies {
		d.Indicator.Impact = model.ImpactImportant
		d.Recommendations = []string{"Use multiple sizing methodologies (top-down, bottom-up, value-theory) to triangulate"}
	}
	return d
}

func validateAssumptions(assumptions []model.Assumption) Dimension {
	d := Dimension{Metric: MetricAssumptions}
	if len(assumptions) == 0 {
		d.Indicator = model.QualityIndicator{
			Description: "No sizing assumptions documented",
			Impact:      model.ImpactImportant,
		}
		d.Recommendations = []string{"Document the assumptions behind each market size estimate"}
		return d
	}
	high := 0
	for _, a := range assumptions {
		if a.Confidence > HighConfidenceThreshold {
			high++
		}
	}
	d.Score = float64(high) / float64(len(assumptions))
	d.Indicator = model.QualityIndicator{
		Description: fmt.Sprintf("%d of %d assumptions held with high confidence", high, len(assumptions)),
		Impact:      impactFor(d.Score),
	}
	if d.Score < AssumptionRatio {
		d.Recommendations = []string{"Validate low-confidence assumptions with primary or secondary research"}
	}
	return d
}

func validateIntervals(intervals []model.ConfidenceInterval) Dimension {
	d := Dimension{Metric: MetricConfidenceIntervals}
	if len(intervals) == 0 {
		d.Indicator = model.QualityIndicator{
			Description: "No confidence intervals provided",
			Impact:      model.ImpactImportant,
		}
		d.Recommendations = []string{"Provide confidence intervals for headline market size estimates"}
		return d
	}
	valid := 0
	for _, ci := range intervals {
		if ci.Valid() {
			valid++
		}
	}
	d.Score = float64(valid) / float64(len(intervals))
	d.Indicator = model.QualityIndicator{
		Description: fmt.Sprintf("%d of %d confidence intervals are well formed", valid, len(intervals)),
		Impact:      impactFor(d.Score),
	}
	if d.Score < IntervalValidityRatio {
		d.Indicator.Impact = model.ImpactImportant
		d.Recommendations = []string{"Review confidence intervals: lower bound must be below upper bound with a positive confidence level"}
	}
	return d
}

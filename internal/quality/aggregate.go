package quality

import (
	"github.com/sells-group/pm-toolserver/internal/model"
)

// Dimension is the outcome of one quality sub-validation.
type Dimension struct {
	Metric          string
	Score           float64
	Weight          float64
	Indicator       model.QualityIndicator
	Recommendations []string
}

// Aggregate returns the weighted mean of the dimension scores. Weights are
// renormalised over the dimensions supplied, so a dimension that does not
// apply is dropped rather than counted as zero. Zero total weight yields 0.
func Aggregate(dims []Dimension) float64 {
	total := 0.0
	score := 0.0
	for _, d := range dims {
		if d.Weight <= 0 {
			continue
		}
		total += d.Weight
		score += d.Weight * d.Score
	}
	if total == 0 {
		return 0
	}
	return clamp01(score / total)
}

// buildCheck assembles a DataQualityCheck from the scored dimensions.
func buildCheck(dims []Dimension, reliability, freshness, rigor float64) *model.DataQualityCheck {
	check := &model.DataQualityCheck{
		SourceReliability: reliability,
		DataFreshness:     freshness,
		MethodologyRigor:  rigor,
		OverallConfidence: Aggregate(dims),
		QualityIndicators: make([]model.QualityIndicator, 0, len(dims)),
	}
	var recs []string
	for _, d := range dims {
		check.QualityIndicators = append(check.QualityIndicators, d.Indicator)
		recs = append(recs, d.Recommendations...)
	}
	check.Recommendations = dedupe(recs)
	return check
}

func weighted(weights map[string]float64, d Dimension) Dimension {
	d.Weight = weights[d.Metric]
	d.Indicator.Metric = d.Metric
	d.Indicator.Score = d.Score
	return d
}

// impactFor grades a dimension score: below half is important, otherwise minor.
func impactFor(score float64) model.Impact {
	if score < 0.5 {
		return model.ImpactImportant
	}
	return model.ImpactMinor
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

// dedupe drops repeated strings, keeping first occurrences in order.
func dedupe(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

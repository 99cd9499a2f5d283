package confidence

import (
	"math"
	"strings"
	"time"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// Indicator metric names.
const (
	MetricMarketShare = "Market Share Distribution"
	MetricTAM         = "Total Addressable Market (TAM)"
	MetricGrowthRate  = "Market Growth Rate"
)

const (
	// oneSigma is the confidence level of a mean ± one standard deviation range.
	oneSigma = 0.68

	minShareSpread  = 0.01
	minGrowthSpread = 0.01
	minTAMSpread    = 0.05
)

// GenerateUncertaintyIndicators derives volatility summaries for the headline
// metrics of a result. Competitive results yield a market share indicator
// when at least two shares are known; market sizing results always yield TAM
// and growth rate indicators. Every range has lower < upper.
func (s *Scorer) GenerateUncertaintyIndicators(result model.AnalysisResult, score *model.ConfidenceScore) []model.UncertaintyIndicator {
	updated := s.now().UTC()
	overall := 0.0
	if score != nil {
		updated = score.LastCalculated
		overall = score.Overall
	}

	out := []model.UncertaintyIndicator{}
	switch r := result.(type) {
	case *model.CompetitorAnalysisResult:
		if r == nil {
			return out
		}
		if ind, ok := marketShareIndicator(r.CompetitiveMatrix.Competitors, updated); ok {
			out = append(out, ind)
		}
	case *model.MarketSizingResult:
		if r == nil {
			return out
		}
		out = append(out, tamIndicator(r, overall, updated), growthIndicator(r, updated))
	}
	return out
}

func marketShareIndicator(competitors []model.Competitor, updated time.Time) (model.UncertaintyIndicator, bool) {
	var shares []float64
	for _, c := range competitors {
		if c.MarketShare != nil && *c.MarketShare >= 0 {
			shares = append(shares, *c.MarketShare)
		}
	}
	if len(shares) < 2 {
		return model.UncertaintyIndicator{}, false
	}
	mu, sd := meanStdDev(shares)
	spread := sd
	if spread == 0 {
		spread = math.Max(math.Abs(mu)*0.1, minShareSpread)
	}
	lower := math.Max(0, mu-spread)
	upper := math.Max(mu+spread, lower+spread)
	return model.UncertaintyIndicator{
		Metric:       MetricMarketShare,
		CurrentValue: mu,
		UncertaintyRange: model.UncertaintyRange{
			Lower:           lower,
			Upper:           upper,
			ConfidenceLevel: oneSigma,
		},
		Volatility:     sd,
		TrendDirection: model.TrendStable,
		LastUpdated:    updated,
	}, true
}

func tamIndicator(r *model.MarketSizingResult, overall float64, updated time.Time) model.UncertaintyIndicator {
	tam := r.TAM.Value
	rng := model.UncertaintyRange{ConfidenceLevel: oneSigma}
	if ci, ok := tamInterval(r.ConfidenceIntervals); ok {
		rng = model.UncertaintyRange{Lower: ci.LowerBound, Upper: ci.UpperBound, ConfidenceLevel: ci.ConfidenceLevel}
	} else {
		spread := math.Abs(tam) * math.Max(1-overall, minTAMSpread) * 0.5
		if spread == 0 {
			spread = 1
		}
		rng.Lower = math.Max(0, tam-spread)
		rng.Upper = tam + spread
		if rng.Upper <= rng.Lower {
			rng.Upper = rng.Lower + spread
		}
	}

	volatility := 0.0
	if tam != 0 {
		volatility = (rng.Upper - rng.Lower) / (2 * math.Abs(tam))
	}
	return model.UncertaintyIndicator{
		Metric:           MetricTAM,
		CurrentValue:     tam,
		UncertaintyRange: rng,
		Volatility:       volatility,
		TrendDirection:   trend(r.TAM.GrowthRate),
		LastUpdated:      updated,
	}
}

func growthIndicator(r *model.MarketSizingResult, updated time.Time) model.UncertaintyIndicator {
	rates := []float64{r.TAM.GrowthRate, r.SAM.GrowthRate, r.SOM.GrowthRate}
	mu, sd := meanStdDev(rates)
	spread := math.Max(sd, minGrowthSpread)
	return model.UncertaintyIndicator{
		Metric:       MetricGrowthRate,
		CurrentValue: mu,
		UncertaintyRange: model.UncertaintyRange{
			Lower:           mu - spread,
			Upper:           mu + spread,
			ConfidenceLevel: oneSigma,
		},
		Volatility:     sd,
		TrendDirection: trend(mu),
		LastUpdated:    updated,
	}
}

// tamInterval returns the first well-formed interval labelled TAM.
func tamInterval(intervals []model.ConfidenceInterval) (model.ConfidenceInterval, bool) {
	for _, ci := range intervals {
		if strings.Contains(strings.ToUpper(ci.Metric), "TAM") && ci.Valid() {
			return ci, true
		}
	}
	return model.ConfidenceInterval{}, false
}

func trend(growth float64) model.TrendDirection {
	switch {
	case growth > 0:
		return model.TrendIncreasing
	case growth < 0:
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(xs []float64) (float64, float64) {
	mu := mean(xs)
	if len(xs) == 0 {
		return 0, 0
	}
	v := 0.0
	for _, x := range xs {
		v += (x - mu) * (x - mu)
	}
	return mu, math.Sqrt(v / float64(len(xs)))
}

package tools

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/pm-toolserver/internal/confidence"
	"github.com/sells-group/pm-toolserver/internal/degrade"
	"github.com/sells-group/pm-toolserver/internal/model"
	"github.com/sells-group/pm-toolserver/internal/quality"
	"github.com/sells-group/pm-toolserver/internal/report"
)

// Degradation check names attached to assessments.
const (
	CheckCompetitorCoverage = "Competitor coverage"
	CheckSourceFreshness    = "Source freshness"
)

// Assessor runs validation, scoring and degradation checks over a result.
type Assessor struct {
	validator *quality.Validator
	scorer    *confidence.Scorer
	degrade   *degrade.Manager
	settings  Settings
}

// NewAssessor creates an Assessor. Non-positive thresholds fall back to the
// degradation defaults.
func NewAssessor(v *quality.Validator, s *confidence.Scorer, d *degrade.Manager, settings Settings) *Assessor {
	if settings.MinCompetitors <= 0 {
		settings.MinCompetitors = degrade.DefaultMinCompetitors
	}
	if settings.FreshnessThresholdDays <= 0 {
		settings.FreshnessThresholdDays = degrade.DefaultFreshnessThreshold
	}
	return &Assessor{validator: v, scorer: s, degrade: d, settings: settings}
}

// Competitive assesses a competitive analysis result.
func (a *Assessor) Competitive(name string, r *model.CompetitorAnalysisResult) *report.Assessment {
	dq := a.validator.ValidateCompetitiveResult(r)
	score := a.scorer.CalculateCompetitiveConfidence(r, dq)
	out := &report.Assessment{
		Name:        name,
		Kind:        model.KindCompetitive,
		Quality:     dq,
		Confidence:  score,
		Uncertainty: a.scorer.GenerateUncertaintyIndicators(r, score),
		Degradation: []report.Degradation{
			{
				Check:    CheckCompetitorCoverage,
				Decision: a.degrade.HandleInsufficientCompetitorData(r.CompetitiveMatrix.Competitors, a.settings.MinCompetitors),
			},
			{
				Check:    CheckSourceFreshness,
				Decision: a.degrade.HandleStaleData(r.SourceAttribution, a.settings.FreshnessThresholdDays),
			},
		},
		Citations: Citations(r.SourceAttribution),
	}
	logAssessment(out)
	return out
}

// MarketSizing assesses a market sizing result.
func (a *Assessor) MarketSizing(name string, r *model.MarketSizingResult) *report.Assessment {
	dq := a.validator.ValidateMarketSizingResult(r)
	score := a.scorer.CalculateMarketSizingConfidence(r, dq)
	out := &report.Assessment{
		Name:        name,
		Kind:        model.KindMarketSizing,
		Quality:     dq,
		Confidence:  score,
		Uncertainty: a.scorer.GenerateUncertaintyIndicators(r, score),
		Degradation: []report.Degradation{{
			Check:    CheckSourceFreshness,
			Decision: a.degrade.HandleStaleData(r.SourceAttribution, a.settings.FreshnessThresholdDays),
		}},
		Citations: Citations(r.SourceAttribution),
	}
	logAssessment(out)
	return out
}

func logAssessment(a *report.Assessment) {
	zap.L().Debug("assess: scored",
		zap.String("name", a.Name),
		zap.String("kind", string(a.Kind)),
		zap.Float64("overall", a.Confidence.Overall),
		zap.String("reliability", string(a.Confidence.ReliabilityLevel)),
		zap.Bool("degraded", a.Degraded()),
	)
}

// Citations renders the sources in order. A source's own citation format
// wins; otherwise one is built from organization, year, title and URL.
func Citations(sources []model.SourceReference) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, citation(s))
	}
	return out
}

func citation(s model.SourceReference) string {
	if c := strings.TrimSpace(s.CitationFormat); c != "" {
		return c
	}
	var b strings.Builder
	who := s.Organization
	if who == "" {
		who = s.Author
	}
	if who == "" {
		who = "Unknown source"
	}
	b.WriteString(who)
	if !s.PublishDate.IsZero() {
		fmt.Fprintf(&b, " (%d)", s.PublishDate.Year())
	}
	b.WriteString(".")
	if s.Title != "" {
		b.WriteString(" " + s.Title + ".")
	}
	if s.URL != "" {
		b.WriteString(" " + s.URL)
	}
	return b.String()
}

package report

import (
	"fmt"
	"strings"

	"github.com/sells-group/pm-toolserver/internal/degrade"
	"github.com/sells-group/pm-toolserver/internal/model"
)

// ValidationMarkdown renders an input validation result.
func ValidationMarkdown(title string, r *model.ValidationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if r == nil {
		b.WriteString("No validation result.\n")
		return b.String()
	}
	status := "valid"
	if !r.IsValid {
		status = "invalid"
	}
	fmt.Fprintf(&b, "- Status: %s\n", status)
	fmt.Fprintf(&b, "- Confidence: %.0f%%\n", r.Confidence*100)
	fmt.Fprintf(&b, "- Quality score: %.0f%%\n\n", r.QualityScore*100)

	writeList(&b, "Warnings", r.Warnings)
	writeList(&b, "Data Gaps", r.DataGaps)
	writeList(&b, "Recommendations", r.Recommendations)
	return b.String()
}

// QualityMarkdown renders a data quality check as a section.
func QualityMarkdown(dq *model.DataQualityCheck) string {
	var b strings.Builder
	b.WriteString("## Data Quality\n\n")
	if dq == nil {
		b.WriteString("No data quality check available.\n\n")
		return b.String()
	}
	fmt.Fprintf(&b, "- Overall confidence: %.0f%%\n", dq.OverallConfidence*100)
	fmt.Fprintf(&b, "- Source reliability: %.0f%%\n", dq.SourceReliability*100)
	fmt.Fprintf(&b, "- Data freshness: %.0f%%\n", dq.DataFreshness*100)
	fmt.Fprintf(&b, "- Methodology rigor: %.0f%%\n\n", dq.MethodologyRigor*100)

	if len(dq.QualityIndicators) > 0 {
		b.WriteString("| Metric | Score | Impact | Detail |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, qi := range dq.QualityIndicators {
			fmt.Fprintf(&b, "| %s | %.2f | %s | %s |\n",
				qi.Metric, qi.Score, Label(string(qi.Impact)), escapeCell(qi.Description))
		}
		b.WriteString("\n")
	}
	writeList(&b, "Quality Recommendations", dq.Recommendations)
	return b.String()
}

// ConfidenceMarkdown renders a confidence score as a section.
func ConfidenceMarkdown(s *model.ConfidenceScore) string {
	var b strings.Builder
	b.WriteString("## Confidence\n\n")
	if s == nil {
		b.WriteString("No confidence score available.\n\n")
		return b.String()
	}
	fmt.Fprintf(&b, "**Overall: %.0f%% (%s reliability)**\n\n", s.Overall*100, Label(string(s.ReliabilityLevel)))

	b.WriteString("| Component | Score | Weight | Uncertainty | Factors |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, c := range s.Components {
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %s | %s |\n",
			c.Name, c.Score, c.Weight, Label(string(c.UncertaintyImpact)),
			escapeCell(strings.Join(c.ContributingFactors, "; ")))
	}
	b.WriteString("\n")

	if len(s.UncertaintyFactors) > 0 {
		b.WriteString("### Uncertainty Factors\n\n")
		for _, f := range s.UncertaintyFactors {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", Label(string(f.Type)), f.Severity, f.Description)
		}
		b.WriteString("\n")
	}

	if len(s.Recommendations) > 0 {
		b.WriteString("### Recommendations\n\n")
		for _, r := range s.Recommendations {
			fmt.Fprintf(&b, "- [%s] %s\n", Label(string(r.Priority)), r.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// UncertaintyMarkdown renders uncertainty indicators as a table.
func UncertaintyMarkdown(inds []model.UncertaintyIndicator) string {
	if len(inds) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Uncertainty Indicators\n\n")
	b.WriteString("| Metric | Current | Range | Level | Volatility | Trend |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, ind := range inds {
		fmt.Fprintf(&b, "| %s | %s | %s – %s | %.0f%% | %.3f | %s |\n",
			ind.Metric, number(ind.CurrentValue),
			number(ind.UncertaintyRange.Lower), number(ind.UncertaintyRange.Upper),
			ind.UncertaintyRange.ConfidenceLevel*100, ind.Volatility, Label(string(ind.TrendDirection)))
	}
	b.WriteString("\n")
	return b.String()
}

// DecisionMarkdown renders a degradation decision. Degraded decisions are
// rendered as a warning block, not as an error.
func DecisionMarkdown(check string, d degrade.Decision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", check)
	switch {
	case !d.CanProceed:
		fmt.Fprintf(&b, "> **Analysis not possible:** %s\n\n", d.Message)
	case d.DegradedAnalysis:
		fmt.Fprintf(&b, "> **Warning:** %s (confidence adjusted to %.0f%%)\n\n", d.Message, d.AdjustedConfidence*100)
	default:
		fmt.Fprintf(&b, "%s (confidence %.0f%%)\n\n", d.Message, d.AdjustedConfidence*100)
	}
	if len(d.AvailableMethodologies) > 0 {
		fmt.Fprintf(&b, "- Available methodologies: %s\n", strings.Join(d.AvailableMethodologies, ", "))
	}
	if len(d.MissingFields) > 0 {
		fmt.Fprintf(&b, "- Missing fields: %s\n", strings.Join(d.MissingFields, ", "))
	}
	if d.StaleSourceCount != nil {
		fmt.Fprintf(&b, "- Stale sources: %d\n", *d.StaleSourceCount)
	}
	for _, r := range d.Recommendations {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	b.WriteString("\n")
	return b.String()
}

// CitationsMarkdown renders a numbered sources section.
func CitationsMarkdown(citations []string) string {
	if len(citations) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Sources\n\n")
	for i, c := range citations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteString("\n")
	return b.String()
}

// AssessmentMarkdown renders a full assessment document.
func AssessmentMarkdown(a *Assessment) string {
	var b strings.Builder
	name := a.Name
	if name == "" {
		name = Label(string(a.Kind))
	}
	fmt.Fprintf(&b, "# Assessment: %s\n\n", name)

	if a.Degraded() {
		b.WriteString("> **Degraded analysis:** some inputs were thin or stale. ")
		b.WriteString("Treat the findings below as directional and review the recommendations.\n\n")
	}

	b.WriteString(ConfidenceMarkdown(a.Confidence))
	b.WriteString(QualityMarkdown(a.Quality))
	b.WriteString(UncertaintyMarkdown(a.Uncertainty))

	if len(a.Degradation) > 0 {
		b.WriteString("## Data Sufficiency\n\n")
		for _, d := range a.Degradation {
			b.WriteString(DecisionMarkdown(d.Check, d.Decision))
		}
	}
	b.WriteString(CitationsMarkdown(a.Citations))
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// number formats large values compactly and small values with precision.
func number(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}

// Package report renders validation, quality and confidence results as
// Markdown, JSON, HTML and XLSX.
package report

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/pm-toolserver/internal/degrade"
	"github.com/sells-group/pm-toolserver/internal/model"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatHTML     = "html"
	FormatXLSX     = "xlsx"
)

// Degradation is a named degradation decision attached to an assessment.
type Degradation struct {
	Check    string           `json:"check"`
	Decision degrade.Decision `json:"decision"`
}

// Assessment bundles everything computed for one analysis result.
type Assessment struct {
	Name        string                       `json:"name"`
	Kind        model.AnalysisKind           `json:"kind"`
	Quality     *model.DataQualityCheck      `json:"data_quality"`
	Confidence  *model.ConfidenceScore       `json:"confidence"`
	Uncertainty []model.UncertaintyIndicator `json:"uncertainty_indicators"`
	Degradation []Degradation                `json:"degradation,omitempty"`
	Citations   []string                     `json:"citations,omitempty"`
}

// Degraded reports whether any attached decision discounted the analysis.
func (a *Assessment) Degraded() bool {
	for _, d := range a.Degradation {
		if d.Decision.DegradedAnalysis || !d.Decision.CanProceed {
			return true
		}
	}
	return false
}

// JSON renders v as indented JSON.
func JSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "report: marshal json")
	}
	return string(b), nil
}

// Render renders an assessment in a text format (markdown, json or html).
func Render(format string, a *Assessment) (string, error) {
	switch format {
	case "", FormatMarkdown:
		return AssessmentMarkdown(a), nil
	case FormatJSON:
		return JSON(a)
	case FormatHTML:
		return Page(a.Name, AssessmentMarkdown(a))
	default:
		return "", eris.Errorf("report: unsupported text format %q", format)
	}
}

var titleCaser = cases.Title(language.English)

// Label turns a wire value such as "very-low" into "Very Low".
func Label(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "-", " "))
}

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/pm-toolserver/internal/confidence"
	"github.com/sells-group/pm-toolserver/internal/degrade"
	"github.com/sells-group/pm-toolserver/internal/model"
	"github.com/sells-group/pm-toolserver/internal/model/modeltest"
	"github.com/sells-group/pm-toolserver/internal/quality"
)

func marketAssessment(t *testing.T) *Assessment {
	t.Helper()
	r := modeltest.FullMarketSizing()
	dq := quality.New(quality.WithClock(modeltest.Clock)).ValidateMarketSizingResult(r)
	scorer := confidence.New(confidence.WithClock(modeltest.Clock))
	score := scorer.CalculateMarketSizingConfidence(r, dq)
	return &Assessment{
		Name:        "dental audit exports",
		Kind:        model.KindMarketSizing,
		Quality:     dq,
		Confidence:  score,
		Uncertainty: scorer.GenerateUncertaintyIndicators(r, score),
		Degradation: []Degradation{{
			Check:    "Source freshness",
			Decision: degrade.New(degrade.WithClock(modeltest.Clock)).HandleStaleData(r.SourceAttribution, 90),
		}},
		Citations: []string{"McKinsey (2026). Dental software.", "IDC (2026). Practice management."},
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Very Low", Label("very-low"))
	assert.Equal(t, "High", Label("high"))
	assert.Equal(t, "Market Volatility", Label("market-volatility"))
}

func TestAssessmentMarkdown(t *testing.T) {
	md := AssessmentMarkdown(marketAssessment(t))

	assert.True(t, strings.HasPrefix(md, "# Assessment: dental audit exports\n"))
	assert.Contains(t, md, "## Confidence")
	assert.Contains(t, md, "(High reliability)")
	assert.Contains(t, md, "| Market Size Logic |")
	assert.Contains(t, md, "## Data Quality")
	assert.Contains(t, md, "## Uncertainty Indicators")
	assert.Contains(t, md, "Total Addressable Market (TAM)")
	assert.Contains(t, md, "10.00B")
	assert.Contains(t, md, "## Data Sufficiency")
	assert.Contains(t, md, "1. McKinsey (2026). Dental software.")
	assert.NotContains(t, md, "Degraded analysis")
}

func TestAssessmentMarkdown_DegradedWarning(t *testing.T) {
	a := marketAssessment(t)
	a.Degradation = append(a.Degradation, Degradation{
		Check:    "Competitor coverage",
		Decision: degrade.New().HandleInsufficientCompetitorData(make([]model.Competitor, 2), 3),
	})
	md := AssessmentMarkdown(a)
	assert.Contains(t, md, "> **Degraded analysis:**")
	assert.Contains(t, md, "> **Warning:** Limited competitor data: 2/3")
}

func TestDecisionMarkdown_CannotProceed(t *testing.T) {
	md := DecisionMarkdown("Competitors", degrade.New().HandleInsufficientCompetitorData(nil, 3))
	assert.Contains(t, md, "**Analysis not possible:**")
	assert.Contains(t, md, "alternative research methods")
}

func TestValidationMarkdown(t *testing.T) {
	md := ValidationMarkdown("Input Validation", &model.ValidationResult{
		IsValid:      true,
		Confidence:   0.8,
		QualityScore: 0.7,
		DataGaps:     []string{"Market context not provided"},
	})
	assert.Contains(t, md, "- Confidence: 80%")
	assert.Contains(t, md, "## Data Gaps")
	assert.NotContains(t, md, "## Warnings")
}

func TestRender_JSON(t *testing.T) {
	out, err := Render(FormatJSON, marketAssessment(t))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "market-sizing", decoded["kind"])
	assert.Contains(t, decoded, "data_quality")
	conf := decoded["confidence"].(map[string]any)
	assert.Equal(t, "high", conf["reliability_level"])
}

func TestRender_HTML(t *testing.T) {
	out, err := Render(FormatHTML, marketAssessment(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<h1>Assessment: dental audit exports</h1>")
}

func TestRender_Unsupported(t *testing.T) {
	_, err := Render(FormatXLSX, marketAssessment(t))
	assert.Error(t, err)
}

func TestHTML_Blockquote(t *testing.T) {
	out, err := HTML("> **Warning:** thin data")
	require.NoError(t, err)
	assert.Contains(t, out, "<blockquote>")
	assert.Contains(t, out, "<strong>Warning:</strong>")
}

func TestWorkbook(t *testing.T) {
	a := marketAssessment(t)
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, []*Assessment{a, nil}))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	summary, ok := f.Sheet[SummarySheet]
	require.True(t, ok)
	require.Len(t, summary.Rows, 2)
	assert.Equal(t, "Name", summary.Rows[0].Cells[0].String())
	assert.Equal(t, "dental audit exports", summary.Rows[1].Cells[0].String())
	assert.Equal(t, "market-sizing", summary.Rows[1].Cells[1].String())
	assert.Equal(t, "High", summary.Rows[1].Cells[3].String())

	components, ok := f.Sheet[ComponentsSheet]
	require.True(t, ok)
	// header + six market sizing components
	assert.Len(t, components.Rows, 7)
}

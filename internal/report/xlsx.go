package report

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Workbook sheet names.
const (
	SummarySheet    = "Summary"
	ComponentsSheet = "Components"
)

var (
	summaryHeader    = []string{"Name", "Kind", "Overall", "Reliability", "Data Quality", "Degraded"}
	componentsHeader = []string{"Name", "Component", "Score", "Weight", "Uncertainty", "Factors"}
)

// Workbook builds an XLSX workbook with one summary row per assessment and
// one component row per confidence component.
func Workbook(assessments []*Assessment) (*xlsx.File, error) {
	f := xlsx.NewFile()

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add summary sheet")
	}
	components, err := f.AddSheet(ComponentsSheet)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add components sheet")
	}

	writeStrings(summary.AddRow(), summaryHeader...)
	writeStrings(components.AddRow(), componentsHeader...)

	for _, a := range assessments {
		if a == nil {
			continue
		}
		row := summary.AddRow()
		writeStrings(row, a.Name, string(a.Kind))
		overall, level := 0.0, ""
		if a.Confidence != nil {
			overall, level = a.Confidence.Overall, Label(string(a.Confidence.ReliabilityLevel))
		}
		row.AddCell().SetFloat(overall)
		writeStrings(row, level)
		quality := 0.0
		if a.Quality != nil {
			quality = a.Quality.OverallConfidence
		}
		row.AddCell().SetFloat(quality)
		row.AddCell().SetBool(a.Degraded())

		if a.Confidence == nil {
			continue
		}
		for _, c := range a.Confidence.Components {
			cr := components.AddRow()
			writeStrings(cr, a.Name, c.Name)
			cr.AddCell().SetFloat(c.Score)
			cr.AddCell().SetFloat(c.Weight)
			writeStrings(cr, Label(string(c.UncertaintyImpact)), strings.Join(c.ContributingFactors, "; "))
		}
	}
	return f, nil
}

// WriteWorkbook builds the workbook for assessments and writes it to w.
func WriteWorkbook(w io.Writer, assessments []*Assessment) error {
	f, err := Workbook(assessments)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "xlsx: write workbook")
	}
	return nil
}

func writeStrings(row *xlsx.Row, values ...string) {
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

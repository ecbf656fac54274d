package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/parking-cli/internal/dedupe"
	"github.com/sells-group/parking-cli/internal/model"
	"github.com/sells-group/parking-cli/internal/proximity"
)

// Worksheet names in the analysis workbook.
const (
	SheetAnalysis   = "analysis"
	SheetPricing    = "pricing"
	SheetSummary    = "summary"
	SheetDuplicates = "duplicates"
)

// WriteAnalysisXLSX saves a workbook with the analysis and pricing layouts,
// the batch summary, and the flagged duplicates.
func WriteAnalysisXLSX(path string, stats []model.ProximityStats, summary proximity.Summary, dups []dedupe.Match) error {
	f := xlsx.NewFile()

	for _, s := range []struct {
		name string
		cols []column
	}{
		{SheetAnalysis, analysisColumns},
		{SheetPricing, pricingColumns},
	} {
		sheet, err := f.AddSheet(s.name)
		if err != nil {
			return eris.Wrapf(err, "report: add sheet %s", s.name)
		}
		addStringRow(sheet, headers(s.cols))
		for _, st := range stats {
			addCellRow(sheet, render(s.cols, newRow(st)))
		}
	}

	sheet, err := f.AddSheet(SheetSummary)
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	for _, line := range summaryLines(summary) {
		addCellRow(sheet, []cell{textCell(line.label), line.value})
	}

	sheet, err = f.AddSheet(SheetDuplicates)
	if err != nil {
		return eris.Wrap(err, "report: add duplicates sheet")
	}
	addStringRow(sheet, []string{"external_id", "external_name", "managed_id", "managed_name", "distance_m"})
	for _, d := range dups {
		addCellRow(sheet, []cell{
			textCell(d.External.ID), textCell(d.External.Name),
			textCell(d.Managed.ID), textCell(d.Managed.Name),
			numCell(d.DistanceMeters),
		})
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

type summaryLine struct {
	label string
	value cell
}

func summaryLines(s proximity.Summary) []summaryLine {
	lines := []summaryLine{
		{"total_managed", intCell(s.TotalManaged)},
		{"with_neighbors", intCell(s.WithNeighbors)},
		{"with_neighbors_pct", numCell(s.Percent(s.WithNeighbors))},
		{"without_neighbors", intCell(s.WithoutNeighbors)},
		{"avg_density_per_km2", numCell(s.AvgDensity)},
		{"priced_above", intCell(s.PricedAbove)},
		{"priced_below", intCell(s.PricedBelow)},
	}
	for i, label := range model.PriceBucketLabels {
		lines = append(lines, summaryLine{"range_" + label, intCell(s.Buckets[i])})
	}
	return lines
}

func addStringRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addCellRow(sheet *xlsx.Sheet, cells []cell) {
	row := sheet.AddRow()
	for _, c := range cells {
		xc := row.AddCell()
		if c.isNum {
			xc.SetFloat(c.value)
		} else {
			xc.SetString(c.text)
		}
	}
}

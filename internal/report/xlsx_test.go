package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func cellByHeader(t *testing.T, sheet *xlsx.Sheet, header string) *xlsx.Cell {
	t.Helper()
	require.GreaterOrEqual(t, len(sheet.Rows), 2)
	for i, c := range sheet.Rows[0].Cells {
		if c.String() == header {
			return sheet.Rows[1].Cells[i]
		}
	}
	t.Fatalf("header %q not found", header)
	return nil
}

func TestWriteAnalysisXLSX(t *testing.T) {
	res := fixtureResult()
	path := filepath.Join(t.TempDir(), "analysis.xlsx")
	require.NoError(t, WriteAnalysisXLSX(path, res.Stats, res.Summary, res.Duplicates))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 4)
	assert.Equal(t, SheetAnalysis, f.Sheets[0].Name)
	assert.Equal(t, SheetPricing, f.Sheets[1].Name)
	assert.Equal(t, SheetSummary, f.Sheets[2].Name)
	assert.Equal(t, SheetDuplicates, f.Sheets[3].Name)

	analysis := f.Sheet[SheetAnalysis]
	require.Len(t, analysis.Rows, 2)
	assert.Len(t, analysis.Rows[0].Cells, len(analysisColumns))
	assert.Equal(t, "USpace 信義", cellByHeader(t, analysis, "managed_name").String())

	avg, err := cellByHeader(t, analysis, "nearby_avg_max_rate").Float()
	require.NoError(t, err)
	assert.InDelta(t, 76.67, avg, 1e-9)

	count, err := cellByHeader(t, analysis, "nearby_count").Int()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	pricing := f.Sheet[SheetPricing]
	assert.Equal(t, "much-cheaper", cellByHeader(t, pricing, "price_advantage").String())

	summary := f.Sheet[SheetSummary]
	assert.Equal(t, "total_managed", summary.Rows[0].Cells[0].String())
	total, err := summary.Rows[0].Cells[1].Int()
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	dups := f.Sheet[SheetDuplicates]
	require.Len(t, dups.Rows, 2)
	assert.Equal(t, "DUP", dups.Rows[1].Cells[0].String())
	assert.Equal(t, "U1", dups.Rows[1].Cells[2].String())
}

func TestWriteAnalysisXLSX_BadPath(t *testing.T) {
	res := fixtureResult()
	err := WriteAnalysisXLSX(filepath.Join(t.TempDir(), "missing", "a.xlsx"), res.Stats, res.Summary, nil)
	assert.Error(t, err)
}

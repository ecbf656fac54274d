package fetcher

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

type testSheet struct {
	name string
	rows [][]string
}

func createTestXLSX(t *testing.T, sheets ...testSheet) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, rowData := range s.rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestStreamXLSX_FirstSheet(t *testing.T) {
	path := createTestXLSX(t,
		testSheet{"managed", [][]string{{"id", "name"}, {"1", "信義"}}},
		testSheet{"notes", [][]string{{"ignored"}}},
	)

	rowCh, errCh := StreamXLSX(context.Background(), path, XLSXOptions{})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "name"}, rows[0])
	assert.Equal(t, []string{"1", "信義"}, rows[1])
}

func TestStreamXLSX_SheetByName(t *testing.T) {
	path := createTestXLSX(t,
		testSheet{"managed", [][]string{{"id"}}},
		testSheet{"external", [][]string{{"ext_id"}, {"e1"}}},
	)

	rowCh, errCh := StreamXLSX(context.Background(), path, XLSXOptions{SheetName: "external"})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"e1"}, rows[1])
}

func TestStreamXLSX_Errors(t *testing.T) {
	path := createTestXLSX(t, testSheet{"only", [][]string{{"a"}}})

	tests := []struct {
		name string
		path string
		opts XLSXOptions
	}{
		{"missing sheet name", path, XLSXOptions{SheetName: "nope"}},
		{"index out of range", path, XLSXOptions{SheetIndex: 3}},
		{"missing file", filepath.Join(t.TempDir(), "missing.xlsx"), XLSXOptions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rowCh, errCh := StreamXLSX(context.Background(), tt.path, tt.opts)
			_, err := collectRows(t, rowCh, errCh)
			assert.Error(t, err)
		})
	}
}

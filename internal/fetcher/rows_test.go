package fetcher

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/sells-group/parking-cli/internal/model"
)

func TestDetectFormat(t *testing.T) {
	for path, want := range map[string]Format{
		"a.csv":         FormatCSV,
		"dir/B.CSV":     FormatCSV,
		"export.txt":    FormatCSV,
		"managed.xlsx":  FormatXLSX,
		"dataset.json":  FormatJSON,
		"/tmp/x.y.JSON": FormatJSON,
	} {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := DetectFormat("legacy.xls")
	assert.Error(t, err)
}

func TestLoadRows_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "external.csv")
	content := "\ufeffid, name ,lat,lon,weekday_day\n" +
		"1,嘉新停車場,25.05,121.52,40\n" +
		",,,,\n" +
		"2,短列,24.1\n" +
		"3,多欄,24.2,120.6,30,extra\n"
	require.NoError(t, writeTestFile(path, content))

	rows, err := LoadRows(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, model.Row{"id": "1", "name": "嘉新停車場", "lat": "25.05", "lon": "121.52", "weekday_day": "40"}, rows[0])
	assert.Equal(t, model.Row{"id": "2", "name": "短列", "lat": "24.1"}, rows[1])
	assert.Equal(t, "30", rows[2]["weekday_day"])
	assert.Len(t, rows[2], 5)
}

func TestLoadRows_CSVBig5(t *testing.T) {
	encoded, err := traditionalchinese.Big5.NewEncoder().String("id,city\n1,臺北市\n")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "managed.csv")
	require.NoError(t, writeTestFile(path, encoded))

	rows, err := LoadRows(context.Background(), path, LoadOptions{Encoding: "big5"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "臺北市", rows[0]["city"])
}

func TestLoadRows_XLSX(t *testing.T) {
	path := createTestXLSX(t, testSheet{"Sheet1", [][]string{
		{"id", "name", "夜間費率"},
		{"U1", "信義", "20"},
		{"", "", ""},
		{"U2", "中山", ""},
	}})

	rows, err := LoadRows(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "20", rows[0]["夜間費率"])
	assert.Equal(t, "U2", rows[1]["id"])
}

func TestLoadRows_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "external.json")
	require.NoError(t, writeTestFile(path, `[{"id":"e1","lat":25.0,"lon":121.5,"weekday_day":40}]`))

	rows, err := LoadRows(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "e1", rows[0]["id"])
	assert.Equal(t, json.Number("25.0"), rows[0]["lat"])
}

func TestLoadRows_JSONLargeID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "external.json")
	require.NoError(t, writeTestFile(path, `[{"id":9007199254740993,"lat":25.034567,"lon":121.5}]`))

	rows, err := LoadRows(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, json.Number("9007199254740993"), rows[0]["id"])
	assert.Equal(t, json.Number("25.034567"), rows[0]["lat"])
}

func TestLoadRows_XLSXFormattedNumbers(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	header := sheet.AddRow()
	for _, h := range []string{"id", "lat", "lon", "weekday_day"} {
		header.AddCell().SetString(h)
	}
	row := sheet.AddRow()
	row.AddCell().SetString("E1")
	row.AddCell().SetFloatWithFormat(25.034567, "0.00")
	row.AddCell().SetFloatWithFormat(121.564472, "0.0")
	row.AddCell().SetFloatWithFormat(42.5, "0")
	path := filepath.Join(t.TempDir(), "external.xlsx")
	require.NoError(t, f.Save(path))

	rows, err := LoadRows(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "E1", rows[0]["id"])
	assert.Equal(t, "25.034567", rows[0]["lat"])
	assert.Equal(t, "121.564472", rows[0]["lon"])
	assert.Equal(t, "42.5", rows[0]["weekday_day"])
}

func TestLoadRows_JSONKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, writeTestFile(path, `{"managed":[{"id":"m1"}],"external":[{"id":"e1"},{"id":"e2"}]}`))

	rows, err := LoadRows(context.Background(), path, LoadOptions{JSONKey: "external"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "e2", rows[1]["id"])
}

func TestLoadRows_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRows(context.Background(), filepath.Join(dir, "missing.csv"), LoadOptions{})
	assert.Error(t, err)

	_, err = LoadRows(context.Background(), filepath.Join(dir, "data.parquet"), LoadOptions{})
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.csv")
	require.NoError(t, writeTestFile(path, "a,b\n1,2\n"))
	_, err = LoadRows(context.Background(), path, LoadOptions{Encoding: "klingon"})
	assert.Error(t, err)
}

package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/parking-cli/internal/model"
)

const utf8BOM = "\ufeff"

func parseCSV(t *testing.T, data []byte) map[string]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, []byte(utf8BOM)), "missing byte order mark")

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	out := make(map[string]string, len(records[0]))
	for i, h := range records[0] {
		out[h] = records[1][i]
	}
	return out
}

func TestWriteAnalysisCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAnalysisCSV(&buf, []model.ProximityStats{fixtureStats()}))

	row := parseCSV(t, buf.Bytes())
	assert.Len(t, row, len(analysisColumns))
	assert.Equal(t, "U1", row["managed_id"])
	assert.Equal(t, "USpace 信義", row["managed_name"])
	assert.Equal(t, "25", row["managed_lat"])
	assert.Equal(t, "121.5", row["managed_lon"])
	assert.Equal(t, "40", row["managed_max_rate"])
	assert.Equal(t, "3", row["nearby_count"])
	assert.Equal(t, "30", row["nearby_total_spaces"])
	assert.Equal(t, "76.67", row["nearby_avg_max_rate"])
	assert.Equal(t, "0-30:1; 51-80:1; 121-200:1", row["price_range_by_max_rate"])
	assert.Equal(t, "-47.83", row["max_rate_pct_diff"])
	assert.Equal(t, "0.11", row["density_per_km2"])
	assert.Contains(t, row["nearby_preview"], "A lot(0.50km,max:20,day:20,night:0,monthly:0)")
}

func TestWriteAnalysisCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAnalysisCSV(&buf, nil))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, headers(analysisColumns), records[0])
}

func TestWritePricingCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePricingCSV(&buf, []model.ProximityStats{fixtureStats()}))

	row := parseCSV(t, buf.Bytes())
	assert.Equal(t, "mid-low", row["price_position"])
	assert.Equal(t, "1", row["range_0-30"])
	assert.Equal(t, "0", row["range_31-50"])
	assert.Equal(t, "1", row["range_121-200"])
	assert.Equal(t, "0-30", row["dominant_range"])
	assert.Equal(t, "33.3%", row["low_price_ratio"])
	assert.Equal(t, "33.3%", row["high_price_ratio"])
	assert.Equal(t, "few-competitors", row["competition_level"])
	assert.Equal(t, "95", row["avg_night_rate"])
	assert.Equal(t, "-", row["avg_monthly_rate"])
	assert.Equal(t, "much-cheaper", row["price_advantage"])
	assert.Equal(t, "0.5", row["nearest_km"])
}

func TestWritePricingCSV_EmptyNeighborhood(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePricingCSV(&buf, []model.ProximityStats{{Managed: fixtureManaged(), ManagedMaxRate: 40}}))

	row := parseCSV(t, buf.Bytes())
	assert.Equal(t, "none", row["dominant_range"])
	assert.Equal(t, "0.0%", row["low_price_ratio"])
	assert.Equal(t, "-", row["avg_night_rate"])
	assert.Equal(t, "comparable", row["price_advantage"])
}

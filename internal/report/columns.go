package report

import (
	"strconv"

	"github.com/sells-group/parking-cli/internal/model"
	"github.com/sells-group/parking-cli/internal/proximity"
)

// cell is one rendered value. Numeric cells stay numeric in XLSX output.
type cell struct {
	text  string
	value float64
	isNum bool
}

func textCell(s string) cell { return cell{text: s} }

func numCell(v float64) cell {
	return cell{text: num(v), value: round2(v), isNum: true}
}

func intCell(n int) cell {
	return cell{text: strconv.Itoa(n), value: float64(n), isNum: true}
}

func (c cell) String() string { return c.text }

// row is the per-facility input to the column registries.
type row struct {
	stats model.ProximityStats
	pos   proximity.Positioning
}

func newRow(st model.ProximityStats) row {
	return row{stats: st, pos: proximity.Position(st)}
}

// column pairs a header with its extractor.
type column struct {
	Header string
	Value  func(row) cell
}

// analysisColumns is the per-facility analysis layout shared by CSV and XLSX.
var analysisColumns = []column{
	{"managed_id", func(r row) cell { return textCell(r.stats.Managed.ID) }},
	{"managed_name", func(r row) cell { return textCell(r.stats.Managed.Name) }},
	{"managed_city", func(r row) cell { return textCell(r.stats.Managed.City) }},
	{"managed_district", func(r row) cell { return textCell(r.stats.Managed.District) }},
	{"managed_address", func(r row) cell { return textCell(r.stats.Managed.Address) }},
	{"managed_lat", func(r row) cell { return coordCell(r.stats.Managed.Lat) }},
	{"managed_lon", func(r row) cell { return coordCell(r.stats.Managed.Lon) }},
	{"managed_space_number", func(r row) cell { return intCell(r.stats.Managed.SpaceNumber) }},
	{"managed_day_rate", func(r row) cell { return numCell(r.stats.Managed.DayRate) }},
	{"managed_night_rate", func(r row) cell { return numCell(r.stats.Managed.NightRate) }},
	{"managed_max_rate", func(r row) cell { return numCell(r.stats.ManagedMaxRate) }},
	{"nearby_count", func(r row) cell { return intCell(r.stats.Count) }},
	{"nearby_total_spaces", func(r row) cell { return intCell(r.stats.TotalSpaces) }},
	{"nearby_avg_max_rate", func(r row) cell { return numCell(r.stats.AvgMaxRate) }},
	{"nearby_avg_day_rate", func(r row) cell { return numCell(r.stats.AvgDayRate) }},
	{"nearby_avg_night_rate", func(r row) cell { return numCell(r.stats.AvgNightRate) }},
	{"nearby_avg_monthly_rate", func(r row) cell { return numCell(r.stats.AvgMonthlyRate) }},
	{"price_range_by_max_rate", func(r row) cell { return textCell(PriceRangeText(r.stats.Buckets)) }},
	{"nearest_km", func(r row) cell { return numCell(r.stats.MinDistanceKM) }},
	{"farthest_km", func(r row) cell { return numCell(r.stats.MaxDistanceKM) }},
	{"max_rate_pct_diff", func(r row) cell { return numCell(r.stats.PctDiffMax) }},
	{"day_rate_pct_diff", func(r row) cell { return numCell(r.stats.PctDiffDay) }},
	{"density_per_km2", func(r row) cell { return numCell(r.stats.Density) }},
	{"nearby_preview", func(r row) cell { return textCell(NearbyText(r.stats.Nearby)) }},
}

// pricingColumns is the readable pricing layout.
var pricingColumns = []column{
	{"name", func(r row) cell { return textCell(r.stats.Managed.Name) }},
	{"city", func(r row) cell { return textCell(r.stats.Managed.City) }},
	{"district", func(r row) cell { return textCell(r.stats.Managed.District) }},
	{"day_rate", func(r row) cell { return numCell(r.stats.Managed.DayRate) }},
	{"night_rate", func(r row) cell { return numCell(r.stats.Managed.NightRate) }},
	{"max_rate", func(r row) cell { return numCell(r.stats.ManagedMaxRate) }},
	{"price_position", func(r row) cell { return textCell(r.pos.PricePosition) }},
	{"competitors", func(r row) cell { return intCell(r.stats.Count) }},
	{"competitor_spaces", func(r row) cell { return intCell(r.stats.TotalSpaces) }},
	bucketColumn(0), bucketColumn(1), bucketColumn(2), bucketColumn(3), bucketColumn(4), bucketColumn(5),
	{"dominant_range", func(r row) cell { return textCell(orNone(r.pos.DominantRange)) }},
	{"low_price_ratio", func(r row) cell { return textCell(percent(r.pos.LowPriceRatio)) }},
	{"high_price_ratio", func(r row) cell { return textCell(percent(r.pos.HighPriceRatio)) }},
	{"competition_level", func(r row) cell { return textCell(r.pos.CompetitionLevel) }},
	{"avg_max_rate", func(r row) cell { return numCell(r.stats.AvgMaxRate) }},
	{"avg_day_rate", func(r row) cell { return numCell(r.stats.AvgDayRate) }},
	{"avg_night_rate", func(r row) cell { return textCell(orDash(r.stats.AvgNightRate)) }},
	{"avg_monthly_rate", func(r row) cell { return textCell(orDash(r.stats.AvgMonthlyRate)) }},
	{"max_rate_pct_diff", func(r row) cell { return numCell(r.stats.PctDiffMax) }},
	{"day_rate_pct_diff", func(r row) cell { return numCell(r.stats.PctDiffDay) }},
	{"price_advantage", func(r row) cell { return textCell(r.pos.PriceAdvantage) }},
	{"density_per_km2", func(r row) cell { return numCell(r.stats.Density) }},
	{"nearest_km", func(r row) cell { return numCell(r.stats.MinDistanceKM) }},
}

func bucketColumn(i int) column {
	return column{
		Header: "range_" + model.PriceBucketLabels[i],
		Value:  func(r row) cell { return intCell(r.stats.Buckets[i]) },
	}
}

// coordCell keeps full coordinate precision.
func coordCell(v float64) cell {
	return cell{text: strconv.FormatFloat(v, 'f', -1, 64), value: v, isNum: true}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func headers(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

func render(cols []column, r row) []cell {
	out := make([]cell, len(cols))
	for i, c := range cols {
		out[i] = c.Value(r)
	}
	return out
}

// Package report renders pipeline results as CSV, XLSX, JSON, GeoJSON, and
// SQLite outputs.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sells-group/parking-cli/internal/model"
)

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// num formats v rounded to two decimals without trailing zeros.
func num(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

// percent formats a ratio already in percent with one decimal, e.g. "12.5%".
func percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// orDash returns "-" for zero so absent averages read as missing.
func orDash(v float64) string {
	if v == 0 {
		return "-"
	}
	return num(v)
}

// PriceRangeText lists non-empty histogram buckets as "0-30:1; 51-80:2",
// or "none" when every bucket is empty.
func PriceRangeText(h model.PriceHistogram) string {
	var parts []string
	for i, c := range h {
		if c > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", model.PriceBucketLabels[i], c))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "; ")
}

// NearbyText renders the neighbor preview as
// "name(0.52km,max:60,day:60,night:0,monthly:0)" entries joined by "; ".
func NearbyText(entries []model.NearbyEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s(%skm,max:%s,day:%s,night:%s,monthly:%s)",
			e.Name,
			decimal.NewFromFloat(e.DistanceKM).StringFixed(2),
			num(e.MaxHourlyRate), num(e.DayRate), num(e.NightRate), num(e.MonthlyRate),
		)
	}
	return strings.Join(parts, "; ")
}

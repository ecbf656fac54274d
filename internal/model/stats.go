package model

// PriceBucketCount is the number of fixed price ranges in a PriceHistogram.
const PriceBucketCount = 6

// PriceBucketLabels names the histogram ranges in order. Upper bounds are
// inclusive: 30, 50, 80, 120, 200, then everything above 200.
var PriceBucketLabels = [PriceBucketCount]string{
	"0-30", "31-50", "51-80", "81-120", "121-200", "200+",
}

// priceBucketUpper holds the inclusive upper bound of every bucket but the last.
var priceBucketUpper = [PriceBucketCount - 1]float64{30, 50, 80, 120, 200}

// PriceBucket returns the histogram index for a rate.
func PriceBucket(rate float64) int {
	for i, upper := range priceBucketUpper {
		if rate <= upper {
			return i
		}
	}
	return PriceBucketCount - 1
}

// PriceHistogram counts neighbors per price range.
type PriceHistogram [PriceBucketCount]int

// Add increments the bucket that rate falls in.
func (h *PriceHistogram) Add(rate float64) {
	h[PriceBucket(rate)]++
}

// Total returns the sum of all bucket counts.
func (h PriceHistogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// NearbyEntry is one row of the human-readable neighbor preview.
type NearbyEntry struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	DistanceKM    float64 `json:"distance_km"`
	MaxHourlyRate float64 `json:"max_hourly_rate"`
	DayRate       float64 `json:"day_rate"`
	NightRate     float64 `json:"night_rate"`
	MonthlyRate   float64 `json:"monthly_rate"`
}

// ProximityStats summarizes the external facilities around one managed facility.
type ProximityStats struct {
	Managed        Facility       `json:"managed"`
	ManagedMaxRate float64        `json:"managed_max_rate"`
	RadiusKM       float64        `json:"radius_km"`
	Count          int            `json:"count"`
	TotalSpaces    int            `json:"total_spaces"`
	AvgMaxRate     float64        `json:"avg_max_rate"`
	AvgDayRate     float64        `json:"avg_day_rate"`
	AvgNightRate   float64        `json:"avg_night_rate"`
	AvgMonthlyRate float64        `json:"avg_monthly_rate"`
	MinDistanceKM  float64        `json:"min_distance_km"`
	MaxDistanceKM  float64        `json:"max_distance_km"`
	PctDiffMax     float64        `json:"pct_diff_max"`
	PctDiffDay     float64        `json:"pct_diff_day"`
	Buckets        PriceHistogram `json:"buckets"`
	Density        float64        `json:"density_per_km2"`
	Nearby         []NearbyEntry  `json:"nearby,omitempty"`
}

package proximity

import "github.com/sells-group/parking-cli/internal/model"

// Price positions of a managed facility's max hourly rate.
const (
	PositionBudget  = "budget"
	PositionMidLow  = "mid-low"
	PositionMid     = "mid"
	PositionMidHigh = "mid-high"
	PositionPremium = "premium"
	PositionLuxury  = "luxury"
)

// Competition levels of a neighborhood.
const (
	CompetitionLowPriceIntense = "low-price-intense"
	CompetitionHighPriceMarket = "high-price-market"
	CompetitionFew             = "few-competitors"
	CompetitionModerate        = "moderate"
)

// Price advantages of a managed facility against its neighborhood.
const (
	AdvantageMuchCheaper = "much-cheaper"
	AdvantageCheaper     = "cheaper"
	AdvantageComparable  = "comparable"
	AdvantagePricier     = "pricier"
	AdvantageMuchPricier = "much-pricier"
)

var positionLabels = [model.PriceBucketCount]string{
	PositionBudget, PositionMidLow, PositionMid, PositionMidHigh, PositionPremium, PositionLuxury,
}

// Positioning is the readable interpretation of one ProximityStats.
type Positioning struct {
	PricePosition    string  `json:"price_position"`
	DominantRange    string  `json:"dominant_range"`
	LowPriceRatio    float64 `json:"low_price_ratio"`
	HighPriceRatio   float64 `json:"high_price_ratio"`
	CompetitionLevel string  `json:"competition_level"`
	PriceAdvantage   string  `json:"price_advantage"`
}

// Position interprets stats. It uses the same bucket bounds as the histogram.
func Position(stats model.ProximityStats) Positioning {
	low := LowPriceRatio(stats.Buckets)
	high := HighPriceRatio(stats.Buckets)
	return Positioning{
		PricePosition:    PricePosition(stats.ManagedMaxRate),
		DominantRange:    DominantBucket(stats.Buckets),
		LowPriceRatio:    low,
		HighPriceRatio:   high,
		CompetitionLevel: CompetitionLevel(low, high, stats.Buckets.Total()),
		PriceAdvantage:   PriceAdvantage(stats.PctDiffMax),
	}
}

// PricePosition places a max hourly rate in the histogram's ranges.
func PricePosition(maxRate float64) string {
	return positionLabels[model.PriceBucket(maxRate)]
}

// DominantBucket returns the label of the first bucket with the highest
// non-zero count, or "" for an empty histogram.
func DominantBucket(h model.PriceHistogram) string {
	best := -1
	for i, c := range h {
		if c > 0 && (best < 0 || c > h[best]) {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return model.PriceBucketLabels[best]
}

// LowPriceRatio is the percentage of neighbors priced at 50 or below.
func LowPriceRatio(h model.PriceHistogram) float64 {
	return ratio(h[0]+h[1], h.Total())
}

// HighPriceRatio is the percentage of neighbors priced above 120.
func HighPriceRatio(h model.PriceHistogram) float64 {
	return ratio(h[4]+h[5], h.Total())
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// CompetitionLevel classifies a neighborhood by its price mix and size.
func CompetitionLevel(lowRatio, highRatio float64, count int) string {
	switch {
	case lowRatio >= 60:
		return CompetitionLowPriceIntense
	case highRatio >= 40:
		return CompetitionHighPriceMarket
	case count <= 5:
		return CompetitionFew
	default:
		return CompetitionModerate
	}
}

// PriceAdvantage classifies the percentage difference between a managed
// facility's max rate and the neighborhood average.
func PriceAdvantage(pctDiffMax float64) string {
	switch {
	case pctDiffMax < -20:
		return AdvantageMuchCheaper
	case pctDiffMax < -5:
		return AdvantageCheaper
	case pctDiffMax <= 5:
		return AdvantageComparable
	case pctDiffMax <= 20:
		return AdvantagePricier
	default:
		return AdvantageMuchPricier
	}
}

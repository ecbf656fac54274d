package proximity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/parking-cli/internal/model"
)

func TestSummarize(t *testing.T) {
	stats := []model.ProximityStats{
		{ManagedMaxRate: 40, Count: 3, Density: 0.3, PctDiffMax: -47.8, Buckets: model.PriceHistogram{1, 0, 1, 0, 1, 0}},
		{ManagedMaxRate: 100, Count: 1, Density: 0.1, PctDiffMax: 25, Buckets: model.PriceHistogram{0, 0, 1, 0, 0, 0}},
		{ManagedMaxRate: 20},
	}

	s := Summarize(stats)
	assert.Equal(t, 3, s.TotalManaged)
	assert.Equal(t, 2, s.WithNeighbors)
	assert.Equal(t, 1, s.WithoutNeighbors)
	assert.InDelta(t, 0.4/3, s.AvgDensity, 1e-9)
	assert.Equal(t, 1, s.PricedAbove)
	assert.Equal(t, 1, s.PricedBelow)
	assert.Equal(t, model.PriceHistogram{1, 0, 2, 0, 1, 0}, s.Buckets)
	assert.Equal(t, map[string]int{PositionMidLow: 1, PositionMidHigh: 1, PositionBudget: 1}, s.Positions)
	assert.Equal(t, 3, s.Competition[CompetitionFew])
	assert.Equal(t, 1, s.Advantages[AdvantageMuchCheaper])
	assert.Equal(t, 1, s.Advantages[AdvantageMuchPricier])
	assert.Equal(t, 1, s.Advantages[AdvantageComparable])
	assert.InDelta(t, 200.0/3, s.Percent(s.WithNeighbors), 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalManaged)
	assert.Equal(t, 0.0, s.AvgDensity)
	assert.Equal(t, 0.0, s.Percent(0))
}

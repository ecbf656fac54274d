package proximity

import "github.com/sells-group/parking-cli/internal/model"

// Summary aggregates a batch of ProximityStats.
type Summary struct {
	TotalManaged     int                  `json:"total_managed"`
	WithNeighbors    int                  `json:"with_neighbors"`
	WithoutNeighbors int                  `json:"without_neighbors"`
	AvgDensity       float64              `json:"avg_density_per_km2"`
	PricedAbove      int                  `json:"priced_above"`
	PricedBelow      int                  `json:"priced_below"`
	Positions        map[string]int       `json:"positions"`
	Competition      map[string]int       `json:"competition"`
	Advantages       map[string]int       `json:"advantages"`
	Buckets          model.PriceHistogram `json:"buckets"`
}

// Summarize counts neighborhoods and positioning labels across stats.
func Summarize(stats []model.ProximityStats) Summary {
	s := Summary{
		TotalManaged: len(stats),
		Positions:    make(map[string]int),
		Competition:  make(map[string]int),
		Advantages:   make(map[string]int),
	}
	if len(stats) == 0 {
		return s
	}

	var density float64
	for _, st := range stats {
		if st.Count > 0 {
			s.WithNeighbors++
		}
		density += st.Density
		switch {
		case st.PctDiffMax > 0:
			s.PricedAbove++
		case st.PctDiffMax < 0:
			s.PricedBelow++
		}
		for i, c := range st.Buckets {
			s.Buckets[i] += c
		}

		p := Position(st)
		s.Positions[p.PricePosition]++
		s.Competition[p.CompetitionLevel]++
		s.Advantages[p.PriceAdvantage]++
	}
	s.WithoutNeighbors = s.TotalManaged - s.WithNeighbors
	s.AvgDensity = density / float64(s.TotalManaged)
	return s
}

// Percent returns n as a percentage of the managed total.
func (s Summary) Percent(n int) float64 {
	return ratio(n, s.TotalManaged)
}

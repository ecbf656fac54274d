package report

import (
	"math"
	"time"

	"github.com/sells-group/parking-cli/internal/dedupe"
	"github.com/sells-group/parking-cli/internal/model"
	"github.com/sells-group/parking-cli/internal/pipeline"
	"github.com/sells-group/parking-cli/internal/proximity"
)

func fixtureManaged() model.Facility {
	return model.Facility{
		ID: "U1", Name: "USpace 信義", Lat: 25.0, Lon: 121.5,
		City: "台北市", District: "信義區", Address: "信義路五段7號",
		SpaceNumber: 12, DayRate: 40, Source: model.SourceManaged,
		Attributes: map[string]string{"building_type": "大樓"},
	}
}

func fixtureStats() model.ProximityStats {
	return model.ProximityStats{
		Managed:        fixtureManaged(),
		ManagedMaxRate: 40,
		RadiusKM:       3,
		Count:          3,
		TotalSpaces:    30,
		AvgMaxRate:     230.0 / 3,
		AvgDayRate:     40,
		AvgNightRate:   95,
		AvgMonthlyRate: 0,
		MinDistanceKM:  0.5,
		MaxDistanceKM:  2,
		PctDiffMax:     (40 - 230.0/3) / (230.0 / 3) * 100,
		PctDiffDay:     0,
		Buckets:        model.PriceHistogram{1, 0, 1, 0, 1, 0},
		Density:        3 / (math.Pi * 9),
		Nearby: []model.NearbyEntry{
			{ID: "E1", Name: "A lot", DistanceKM: 0.5, MaxHourlyRate: 20, DayRate: 20},
			{ID: "E2", Name: "B lot", DistanceKM: 1.0, MaxHourlyRate: 60, DayRate: 60, NightRate: 40, MonthlyRate: 4000},
			{ID: "E3", Name: "C lot", DistanceKM: 2.0, MaxHourlyRate: 150, NightRate: 150},
		},
	}
}

func fixtureResult() *pipeline.Result {
	managed := fixtureManaged()
	external := []model.Facility{
		{ID: "E1", Name: "A lot", Lat: 25.0045, Lon: 121.5, City: "台北市", DayRate: 20, SpaceNumber: 10, Source: model.SourceExternal},
		{ID: "E2", Name: "B lot", Lat: 25.009, Lon: 121.5, City: "台北市", DayRate: 60, NightRate: 40, MonthlyRate: 4000, SpaceNumber: 20, Source: model.SourceExternal},
		{ID: "E3", Name: "C lot", Lat: 24.982, Lon: 121.5, City: "新北市", NightRate: 150, Source: model.SourceExternal},
	}
	stats := []model.ProximityStats{fixtureStats()}
	return &pipeline.Result{
		RunID:      "run-1",
		StartedAt:  time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 5, 1, 8, 0, 2, 0, time.UTC),
		Managed:    []model.Facility{managed},
		External:   external,
		Duplicates: []dedupe.Match{{
			External:       model.Facility{ID: "DUP", Name: "USpace 信義停車場", Source: model.SourceExternal},
			Managed:        managed,
			DistanceMeters: 5.004,
		}},
		Stats:   stats,
		Summary: proximity.Summarize(stats),
	}
}

// Package proximity computes competitive statistics for each managed facility
// from the external facilities within a fixed radius.
package proximity

import (
	"context"
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/parking-cli/internal/config"
	"github.com/sells-group/parking-cli/internal/geo"
	"github.com/sells-group/parking-cli/internal/model"
)

// Config controls the aggregator.
type Config struct {
	RadiusKM      float64
	PreviewSize   int
	PreviewOrder  string
	Index         string
	ProgressEvery int
}

// DefaultConfig returns a 3 km radius with a five-entry preview in pool order.
func DefaultConfig() Config {
	return Config{
		RadiusKM:      3,
		PreviewSize:   5,
		PreviewOrder:  config.PreviewOrderPool,
		Index:         config.IndexScan,
		ProgressEvery: 50,
	}
}

// ConfigFrom adapts the application configuration.
func ConfigFrom(c config.ProximityConfig) Config {
	return Config{
		RadiusKM:      c.RadiusKM,
		PreviewSize:   c.PreviewSize,
		PreviewOrder:  c.PreviewOrder,
		Index:         c.Index,
		ProgressEvery: c.ProgressEvery,
	}
}

// Aggregator computes ProximityStats against a fixed pool.
type Aggregator struct {
	cfg  Config
	pool *Pool
	grid *geo.GridIndex
}

// NewAggregator validates cfg and prepares an optional grid over the pool.
func NewAggregator(pool *Pool, cfg Config) (*Aggregator, error) {
	if pool == nil {
		return nil, eris.New("proximity: nil pool")
	}
	if cfg.RadiusKM <= 0 {
		return nil, eris.Errorf("proximity: radius must be > 0, got %v", cfg.RadiusKM)
	}
	if cfg.PreviewSize < 0 {
		return nil, eris.Errorf("proximity: preview size must be >= 0, got %d", cfg.PreviewSize)
	}
	switch cfg.PreviewOrder {
	case "":
		cfg.PreviewOrder = config.PreviewOrderPool
	case config.PreviewOrderPool, config.PreviewOrderDistance:
	default:
		return nil, eris.Errorf("proximity: unknown preview order %q", cfg.PreviewOrder)
	}

	a := &Aggregator{cfg: cfg, pool: pool}
	switch cfg.Index {
	case "", config.IndexScan:
	case config.IndexGrid:
		points := make([]geo.Point, pool.Len())
		for i, c := range pool.Candidates() {
			points[i] = geo.Point{Lat: c.Lat, Lon: c.Lon}
		}
		a.grid = geo.NewGridIndex(points, cfg.RadiusKM*1000)
	default:
		return nil, eris.Errorf("proximity: unknown index %q", cfg.Index)
	}
	return a, nil
}

// neighbor is a pool candidate with its distance to the managed facility.
type neighbor struct {
	*Candidate
	distanceKM float64
}

// Aggregate summarizes the candidates within the radius of one managed
// facility. An empty neighborhood yields zeroed statistics.
func (a *Aggregator) Aggregate(managed model.Facility) model.ProximityStats {
	nearby := a.neighbors(managed)

	stats := model.ProximityStats{
		Managed:        managed,
		ManagedMaxRate: managed.MaxHourlyRate(),
		RadiusKM:       a.cfg.RadiusKM,
		Count:          len(nearby),
	}
	if len(nearby) == 0 {
		return stats
	}

	var maxRates, dayRates, nightRates, monthlyRates mean
	stats.MinDistanceKM = math.Inf(1)
	for _, n := range nearby {
		if n.SpaceNumber > 0 {
			stats.TotalSpaces += n.SpaceNumber
		}
		maxRates.addPositive(n.MaxHourlyRate)
		dayRates.addPositive(n.DayRate)
		nightRates.addPositive(n.NightRate)
		monthlyRates.addPositive(n.MonthlyRate)
		stats.MinDistanceKM = math.Min(stats.MinDistanceKM, n.distanceKM)
		stats.MaxDistanceKM = math.Max(stats.MaxDistanceKM, n.distanceKM)
		stats.Buckets.Add(n.MaxHourlyRate)
	}

	stats.AvgMaxRate = maxRates.value()
	stats.AvgDayRate = dayRates.value()
	stats.AvgNightRate = nightRates.value()
	stats.AvgMonthlyRate = monthlyRates.value()
	stats.PctDiffMax = pctDiff(stats.ManagedMaxRate, stats.AvgMaxRate)
	stats.PctDiffDay = pctDiff(managed.DayRate, stats.AvgDayRate)
	stats.Density = float64(stats.Count) / (math.Pi * a.cfg.RadiusKM * a.cfg.RadiusKM)
	stats.Nearby = a.preview(nearby)

	return stats
}

// AggregateAll computes stats for every managed facility in input order.
func (a *Aggregator) AggregateAll(ctx context.Context, managed []model.Facility) ([]model.ProximityStats, error) {
	log := zap.L().With(zap.String("component", "proximity"))
	log.Info("proximity: aggregating",
		zap.Int("managed", len(managed)),
		zap.Int("pool", a.pool.Len()),
		zap.Int("excluded_monthly_only", a.pool.Excluded()),
		zap.Float64("radius_km", a.cfg.RadiusKM),
	)

	out := make([]model.ProximityStats, 0, len(managed))
	for i, m := range managed {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "proximity: cancelled")
		}
		if a.cfg.ProgressEvery > 0 && i%a.cfg.ProgressEvery == 0 {
			log.Info("proximity: progress", zap.Int("done", i), zap.Int("total", len(managed)))
		}
		out = append(out, a.Aggregate(m))
	}
	return out, nil
}

// neighbors returns candidates within the radius, inclusive, in pool order.
func (a *Aggregator) neighbors(managed model.Facility) []neighbor {
	candidates := a.pool.candidates
	var out []neighbor
	consider := func(i int) {
		c := &candidates[i]
		d := geo.DistanceKM(managed.Lat, managed.Lon, c.Lat, c.Lon)
		if d <= a.cfg.RadiusKM {
			out = append(out, neighbor{Candidate: c, distanceKM: d})
		}
	}

	if a.grid != nil {
		for _, i := range a.grid.Candidates(managed.Lat, managed.Lon) {
			consider(i)
		}
		return out
	}
	for i := range candidates {
		consider(i)
	}
	return out
}

func (a *Aggregator) preview(nearby []neighbor) []model.NearbyEntry {
	if a.cfg.PreviewSize == 0 {
		return nil
	}
	ordered := nearby
	if a.cfg.PreviewOrder == config.PreviewOrderDistance {
		ordered = append([]neighbor(nil), nearby...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].distanceKM < ordered[j].distanceKM
		})
	}

	n := min(a.cfg.PreviewSize, len(ordered))
	out := make([]model.NearbyEntry, n)
	for i, nb := range ordered[:n] {
		out[i] = model.NearbyEntry{
			ID:            nb.ID,
			Name:          nb.Name,
			DistanceKM:    nb.distanceKM,
			MaxHourlyRate: nb.MaxHourlyRate,
			DayRate:       nb.DayRate,
			NightRate:     nb.NightRate,
			MonthlyRate:   nb.MonthlyRate,
		}
	}
	return out
}

// mean accumulates strictly positive samples.
type mean struct {
	sum float64
	n   int
}

func (m *mean) addPositive(v float64) {
	if v > 0 {
		m.sum += v
		m.n++
	}
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// pctDiff returns (a-b)/b as a percentage, or 0 unless both are positive.
func pctDiff(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return (a - b) / b * 100
}

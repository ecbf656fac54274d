package geo

import (
	"math"
	"slices"
)

// cellMargin widens grid cells beyond the search radius so the 3x3
// neighborhood stays a superset of the radius on a sphere.
const cellMargin = 2.0

type cellKey struct {
	row, col int
}

// GridIndex buckets points into lat/lon cells at least as wide as the search
// radius. Candidates returns every indexed point that could lie within the
// radius of a query coordinate; callers still apply the exact distance test.
type GridIndex struct {
	cellLat float64
	cellLon float64
	cells   map[cellKey][]int
	size    int
}

// NewGridIndex indexes points for queries of the given radius in meters.
func NewGridIndex(points []Point, radiusMeters float64) *GridIndex {
	metersPerDegree := EarthRadiusMeters * math.Pi / 180
	degLat := radiusMeters / metersPerDegree

	maxAbsLat := 0.0
	for _, p := range points {
		maxAbsLat = max(maxAbsLat, math.Abs(p.Lat))
	}
	cosLat := math.Max(math.Cos((math.Min(maxAbsLat+degLat, 89.9))*math.Pi/180), 0.01)

	g := &GridIndex{
		cellLat: degLat * cellMargin,
		cellLon: degLat / cosLat * cellMargin,
		cells:   make(map[cellKey][]int),
		size:    len(points),
	}
	for i, p := range points {
		k := g.key(p.Lat, p.Lon)
		g.cells[k] = append(g.cells[k], i)
	}
	return g
}

// Len returns the number of indexed points.
func (g *GridIndex) Len() int { return g.size }

// Candidates returns indexes of points in the query's cell and its eight
// neighbors, in ascending order so callers keep input-order semantics.
func (g *GridIndex) Candidates(lat, lon float64) []int {
	center := g.key(lat, lon)
	var out []int
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			out = append(out, g.cells[cellKey{center.row + dr, center.col + dc}]...)
		}
	}
	slices.Sort(out)
	return out
}

func (g *GridIndex) key(lat, lon float64) cellKey {
	return cellKey{
		row: int(math.Floor(lat / g.cellLat)),
		col: int(math.Floor(lon / g.cellLon)),
	}
}

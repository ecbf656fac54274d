package geo

import (
	"github.com/twpayne/go-geom"
)

// Region is an axis-aligned operating area. Bounds are inclusive.
type Region struct {
	bounds *geom.Bounds
}

// NewRegion builds a region from latitude and longitude ranges.
func NewRegion(minLat, maxLat, minLon, maxLon float64) Region {
	return Region{bounds: geom.NewBounds(geom.XY).Set(minLon, minLat, maxLon, maxLat)}
}

// TaiwanRegion is the default operating area.
func TaiwanRegion() Region {
	return NewRegion(21.5, 25.5, 119.5, 122.5)
}

// Contains reports whether the coordinate lies inside or on the border of the region.
func (r Region) Contains(lat, lon float64) bool {
	if r.bounds == nil {
		return false
	}
	return r.bounds.OverlapsPoint(geom.XY, geom.Coord{lon, lat})
}

// Bounds returns a copy of the region as a go-geom bounding box (x = lon, y = lat).
func (r Region) Bounds() *geom.Bounds {
	if r.bounds == nil {
		return geom.NewBounds(geom.XY)
	}
	return r.bounds.Clone()
}

// MinLat returns the southern edge.
func (r Region) MinLat() float64 { return r.bounds.Min(1) }

// MaxLat returns the northern edge.
func (r Region) MaxLat() float64 { return r.bounds.Max(1) }

// MinLon returns the western edge.
func (r Region) MinLon() float64 { return r.bounds.Min(0) }

// MaxLon returns the eastern edge.
func (r Region) MaxLon() float64 { return r.bounds.Max(0) }

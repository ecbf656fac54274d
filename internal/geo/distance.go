package geo

import "math"

// Earth radius on a spherical model. Callers pick the unit: the duplicate
// matcher measures in meters, the proximity aggregator in kilometers.
const (
	EarthRadiusKM     = 6371.0
	EarthRadiusMeters = 6371000.0
)

// Point is a WGS 84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Haversine returns the great-circle distance between two coordinates on a
// sphere of the given radius. The result has the radius' unit.
func Haversine(latA, lonA, latB, lonB, radius float64) float64 {
	lat1 := latA * math.Pi / 180
	lat2 := latB * math.Pi / 180
	dLat := (latB - latA) * math.Pi / 180
	dLon := (lonB - lonA) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return radius * c
}

// DistanceKM returns the haversine distance in kilometers.
func DistanceKM(latA, lonA, latB, lonB float64) float64 {
	return Haversine(latA, lonA, latB, lonB, EarthRadiusKM)
}

// DistanceMeters returns the haversine distance in meters.
func DistanceMeters(latA, lonA, latB, lonB float64) float64 {
	return Haversine(latA, lonA, latB, lonB, EarthRadiusMeters)
}

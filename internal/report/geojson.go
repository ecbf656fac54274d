package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/parking-cli/internal/model"
)

// FeatureCollection converts facilities to GeoJSON point features. Properties
// carry the facility fields; the collection bbox spans every point.
func FeatureCollection(facilities []model.Facility) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(facilities))}
	if len(facilities) == 0 {
		return fc
	}

	bounds := geom.NewBounds(geom.XY)
	for _, f := range facilities {
		pt := geom.NewPointFlat(geom.XY, []float64{f.Lon, f.Lat})
		bounds.Extend(pt)
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         f.ID,
			Geometry:   pt,
			Properties: facilityProperties(f),
		})
	}
	fc.BBox = bounds
	return fc
}

func facilityProperties(f model.Facility) map[string]any {
	props := map[string]any{
		"id":              f.ID,
		"name":            f.Name,
		"source":          string(f.Source),
		"city":            f.City,
		"district":        f.District,
		"address":         f.Address,
		"space_number":    f.SpaceNumber,
		"day_rate":        round2(f.DayRate),
		"night_rate":      round2(f.NightRate),
		"monthly_rate":    round2(f.MonthlyRate),
		"max_hourly_rate": round2(f.MaxHourlyRate()),
	}
	for k, v := range f.Attributes {
		if _, taken := props[k]; !taken {
			props[k] = v
		}
	}
	return props
}

// WriteGeoJSON writes facilities as a GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, facilities []model.Facility) error {
	data, err := json.Marshal(FeatureCollection(facilities))
	if err != nil {
		return eris.Wrap(err, "report: marshal geojson")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "report: write geojson")
	}
	return nil
}

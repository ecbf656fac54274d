package normalize

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/parking-cli/internal/geo"
	"github.com/sells-group/parking-cli/internal/model"
)

// Validator drops rows whose coordinates are unusable.
type Validator struct {
	Region   geo.Region
	LatField string
	LonField string
}

// NewValidator returns a validator for the given region reading lat/lon from
// the named columns.
func NewValidator(region geo.Region, latField, lonField string) Validator {
	return Validator{Region: region, LatField: latField, LonField: lonField}
}

// Validate returns a copy of row with the coordinate columns coerced to
// float64. It fails with ErrInvalidRecord when either coordinate is missing
// or non-numeric, when both are zero, or when the point is outside the region.
func (v Validator) Validate(row model.Row) (model.Row, error) {
	lat, ok := toFloat(row[v.LatField])
	if !ok {
		return nil, eris.Wrapf(ErrInvalidRecord, "normalize: %s missing or not numeric", v.LatField)
	}
	lon, ok := toFloat(row[v.LonField])
	if !ok {
		return nil, eris.Wrapf(ErrInvalidRecord, "normalize: %s missing or not numeric", v.LonField)
	}
	if lat == 0 && lon == 0 {
		return nil, eris.Wrap(ErrInvalidRecord, "normalize: zero coordinates")
	}
	if !v.Region.Contains(lat, lon) {
		return nil, eris.Wrapf(ErrInvalidRecord, "normalize: (%v, %v) outside region", lat, lon)
	}

	out := row.Clone()
	out[v.LatField] = lat
	out[v.LonField] = lon
	return out, nil
}

// Filter validates every row and keeps the valid ones in their original order.
func (v Validator) Filter(rows []model.Row) ([]model.Row, int) {
	kept := make([]model.Row, 0, len(rows))
	dropped := 0
	for i, row := range rows {
		valid, err := v.Validate(row)
		if err != nil {
			dropped++
			zap.L().Debug("normalize: dropping row",
				zap.Int("row", i),
				zap.Error(err),
			)
			continue
		}
		kept = append(kept, valid)
	}
	return kept, dropped
}

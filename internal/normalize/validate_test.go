package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/parking-cli/internal/geo"
	"github.com/sells-group/parking-cli/internal/model"
)

func newTestValidator() Validator {
	return NewValidator(geo.TaiwanRegion(), "lat", "lon")
}

func TestValidate_CoercesCoordinates(t *testing.T) {
	row := model.Row{"id": "1", "lat": "25.0330", "lon": " 121.5654"}

	out, err := newTestValidator().Validate(row)
	require.NoError(t, err)
	assert.InDelta(t, 25.0330, out["lat"], 1e-9)
	assert.InDelta(t, 121.5654, out["lon"], 1e-9)
	assert.Equal(t, "1", out["id"])
	// Input row is untouched.
	assert.Equal(t, "25.0330", row["lat"])
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		row  model.Row
	}{
		{"missing lat", model.Row{"lon": 121.5}},
		{"missing lon", model.Row{"lat": 25.0}},
		{"non-numeric", model.Row{"lat": "north", "lon": 121.5}},
		{"blank", model.Row{"lat": "", "lon": ""}},
		{"both zero", model.Row{"lat": 0, "lon": 0}},
		{"lat zero", model.Row{"lat": 0, "lon": 121.5}},
		{"north of region", model.Row{"lat": 26.0, "lon": 121.5}},
		{"east of region", model.Row{"lat": 25.0, "lon": 123.0}},
		{"swapped axes", model.Row{"lat": 121.5, "lon": 25.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestValidator().Validate(tt.row)
			require.Error(t, err)
			assert.True(t, IsInvalidRecord(err))
		})
	}
}

func TestValidate_BoundaryInclusive(t *testing.T) {
	v := newTestValidator()
	for _, c := range [][2]float64{{21.5, 119.5}, {25.5, 122.5}, {21.5, 122.5}, {25.5, 119.5}} {
		_, err := v.Validate(model.Row{"lat": c[0], "lon": c[1]})
		assert.NoError(t, err, "corner %v", c)
	}
}

func TestValidate_CustomRegionAndFields(t *testing.T) {
	v := NewValidator(geo.NewRegion(10, 20, 100, 110), "緯度", "經度")

	_, err := v.Validate(model.Row{"緯度": 15.0, "經度": 105.0})
	assert.NoError(t, err)

	_, err = v.Validate(model.Row{"緯度": 25.0, "經度": 121.5})
	assert.True(t, IsInvalidRecord(err))
}

func TestFilter_StableOrder(t *testing.T) {
	rows := []model.Row{
		{"id": "a", "lat": 25.0, "lon": 121.5},
		{"id": "b", "lat": 0, "lon": 0},
		{"id": "c", "lat": "24.1", "lon": "120.6"},
		{"id": "d", "lat": 40.0, "lon": 121.5},
		{"id": "e", "lat": 22.6, "lon": 120.3},
	}

	kept, dropped := newTestValidator().Filter(rows)
	assert.Equal(t, 2, dropped)
	require.Len(t, kept, 3)
	assert.Equal(t, "a", kept[0]["id"])
	assert.Equal(t, "c", kept[1]["id"])
	assert.Equal(t, "e", kept[2]["id"])
}

package normalize

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/parking-cli/internal/model"
)

// Schema maps one source's column names onto the Facility shape.
type Schema struct {
	Source          model.Source `yaml:"source"`
	IDField         string       `yaml:"id_field"`
	NameField       string       `yaml:"name_field"`
	LatField        string       `yaml:"lat_field"`
	LonField        string       `yaml:"lon_field"`
	CityField       string       `yaml:"city_field"`
	DistrictField   string       `yaml:"district_field"`
	AddressField    string       `yaml:"address_field"`
	SpaceField      string       `yaml:"space_field"`
	DayFields       []string     `yaml:"day_fields"`
	NightFields     []string     `yaml:"night_fields"`
	MonthlyField    string       `yaml:"monthly_field"`
	AttributeFields []string     `yaml:"attribute_fields"`
}

// Schemas holds one schema per source.
type Schemas map[model.Source]Schema

// managedDayFields are the seven weekday columns of the managed export.
var managedDayFields = []string{
	"星期一day_rate", "星期二day_rate", "星期三day_rate", "星期四day_rate",
	"星期五day_rate", "星期六day_rate", "星期日day_rate",
}

// DefaultSchemas returns the column layouts of the managed and external exports.
func DefaultSchemas() Schemas {
	return Schemas{
		model.SourceManaged: {
			Source:          model.SourceManaged,
			IDField:         "id",
			NameField:       "name",
			LatField:        "lat",
			LonField:        "lon",
			CityField:       "city",
			DistrictField:   "zone",
			AddressField:    "address",
			SpaceField:      "space_number",
			DayFields:       append([]string(nil), managedDayFields...),
			NightFields:     []string{"夜間費率"},
			AttributeFields: []string{"building_type", "financial_class"},
		},
		model.SourceExternal: {
			Source:        model.SourceExternal,
			IDField:       "id",
			NameField:     "name",
			LatField:      "lat",
			LonField:      "lon",
			CityField:     "city",
			DistrictField: "district",
			AddressField:  "address_info",
			SpaceField:    "space_number",
			DayFields:     []string{"weekday_day", "weekend_day"},
			NightFields:   []string{"weekday_night", "weekend_night"},
			MonthlyField:  "monthly_rate",
		},
	}
}

// Get returns the schema for a source.
func (s Schemas) Get(src model.Source) (Schema, error) {
	schema, ok := s[src]
	if !ok {
		return Schema{}, eris.Errorf("normalize: no schema for source %q", src)
	}
	return schema, nil
}

// LoadSchemas reads a YAML schema file and overlays it on DefaultSchemas.
// Keys left out of the file keep their default column names. An empty path
// returns the defaults.
func LoadSchemas(path string) (Schemas, error) {
	schemas := DefaultSchemas()
	if path == "" {
		return schemas, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "normalize: read schema file %s", path)
	}

	var wrapper struct {
		Schemas map[string]Schema `yaml:"schemas"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "normalize: parse schema file")
	}

	for key, override := range wrapper.Schemas {
		src := model.Source(key)
		if override.Source != "" {
			src = override.Source
		}
		if !src.Valid() {
			return nil, eris.Errorf("normalize: unknown source %q in schema file", key)
		}
		override.Source = src
		schemas[src] = overlay(schemas[src], override)
	}

	return schemas, nil
}

// overlay copies every non-empty field of o onto base.
func overlay(base, o Schema) Schema {
	base.Source = o.Source
	setIf(&base.IDField, o.IDField)
	setIf(&base.NameField, o.NameField)
	setIf(&base.LatField, o.LatField)
	setIf(&base.LonField, o.LonField)
	setIf(&base.CityField, o.CityField)
	setIf(&base.DistrictField, o.DistrictField)
	setIf(&base.AddressField, o.AddressField)
	setIf(&base.SpaceField, o.SpaceField)
	setIf(&base.MonthlyField, o.MonthlyField)
	if o.DayFields != nil {
		base.DayFields = o.DayFields
	}
	if o.NightFields != nil {
		base.NightFields = o.NightFields
	}
	if o.AttributeFields != nil {
		base.AttributeFields = o.AttributeFields
	}
	return base
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

package normalize

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/parking-cli/internal/model"
)

// Stats counts what happened to a batch of rows.
type Stats struct {
	Normalized int            `json:"normalized"`
	Skipped    int            `json:"skipped"`
	SchemaGaps map[string]int `json:"schema_gaps,omitempty"`
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithCityAliases rewrites city names through the given table.
func WithCityAliases(aliases map[string]string) Option {
	return func(n *Normalizer) {
		n.cityAliases = aliases
	}
}

// Normalizer reduces rows of one source schema to facilities.
type Normalizer struct {
	schema      Schema
	cityAliases map[string]string
}

// NewNormalizer creates a Normalizer for a schema.
func NewNormalizer(schema Schema, opts ...Option) *Normalizer {
	n := &Normalizer{schema: schema}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Schema returns the schema this normalizer reads.
func (n *Normalizer) Schema() Schema { return n.schema }

// Normalize converts one validated row into a facility.
func (n *Normalizer) Normalize(row model.Row) (model.Facility, error) {
	f, _, err := n.normalize(row)
	return f, err
}

// NormalizeAll converts rows in order. Rows that fail are logged and
// skipped; absent schema columns are tallied in Stats.SchemaGaps.
func (n *Normalizer) NormalizeAll(rows []model.Row) ([]model.Facility, Stats) {
	log := zap.L().With(zap.String("source", string(n.schema.Source)))

	stats := Stats{SchemaGaps: make(map[string]int)}
	out := make([]model.Facility, 0, len(rows))
	for i, row := range rows {
		f, gaps, err := n.normalize(row)
		if err != nil {
			stats.Skipped++
			log.Warn("normalize: skipping row", zap.Int("row", i), zap.Error(err))
			continue
		}
		for _, g := range gaps {
			stats.SchemaGaps[g]++
		}
		stats.Normalized++
		out = append(out, f)
	}

	if len(stats.SchemaGaps) > 0 {
		fields := make([]string, 0, len(stats.SchemaGaps))
		for k := range stats.SchemaGaps {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		log.Debug("normalize: schema gaps defaulted", zap.Strings("fields", fields))
	}

	return out, stats
}

func (n *Normalizer) normalize(row model.Row) (model.Facility, []string, error) {
	s := n.schema
	if !s.Source.Valid() {
		return model.Facility{}, nil, eris.Errorf("normalize: schema has unknown source %q", s.Source)
	}

	lat, ok := toFloat(row[s.LatField])
	if !ok {
		return model.Facility{}, nil, eris.Wrapf(ErrInvalidRecord, "normalize: %s missing", s.LatField)
	}
	lon, ok := toFloat(row[s.LonField])
	if !ok {
		return model.Facility{}, nil, eris.Wrapf(ErrInvalidRecord, "normalize: %s missing", s.LonField)
	}

	var gaps []string
	get := func(field string) any {
		if field == "" {
			return nil
		}
		v, present := row[field]
		if !present {
			gaps = append(gaps, field)
		}
		return v
	}
	for _, field := range s.DayFields {
		get(field)
	}
	for _, field := range s.NightFields {
		get(field)
	}

	f := model.Facility{
		ID:          toString(get(s.IDField)),
		Name:        toString(get(s.NameField)),
		Lat:         lat,
		Lon:         lon,
		City:        n.city(toString(get(s.CityField))),
		District:    toString(get(s.DistrictField)),
		Address:     toString(get(s.AddressField)),
		SpaceNumber: max(toInt(get(s.SpaceField)), 0),
		DayRate:     meanPositive(row, s.DayFields),
		NightRate:   meanPositive(row, s.NightFields),
		Source:      s.Source,
	}

	if monthly, ok := toFloat(get(s.MonthlyField)); ok && monthly > 0 {
		f.MonthlyRate = monthly
	}

	if len(s.AttributeFields) > 0 {
		f.Attributes = make(map[string]string, len(s.AttributeFields))
		for _, field := range s.AttributeFields {
			f.Attributes[field] = toString(get(field))
		}
	}

	return f, gaps, nil
}

func (n *Normalizer) city(name string) string {
	if alias, ok := n.cityAliases[name]; ok {
		return alias
	}
	return name
}

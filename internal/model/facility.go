package model

// Source tags which inventory a facility came from.
type Source string

const (
	SourceManaged  Source = "managed"
	SourceExternal Source = "external"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	return s == SourceManaged || s == SourceExternal
}

// Row is a loosely typed upstream record keyed by column name. Values are
// strings or numbers exactly as the loader produced them.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Facility is the normalized representation of a parking facility shared by
// both inventories. It is never mutated after normalization.
type Facility struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Lat         float64           `json:"lat"`
	Lon         float64           `json:"lon"`
	City        string            `json:"city"`
	District    string            `json:"district"`
	Address     string            `json:"address"`
	SpaceNumber int               `json:"space_number"`
	DayRate     float64           `json:"day_rate"`
	NightRate   float64           `json:"night_rate"`
	MonthlyRate float64           `json:"monthly_rate"`
	Source      Source            `json:"source"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// MaxHourlyRate is the higher of the day and night rates.
func (f Facility) MaxHourlyRate() float64 {
	return max(f.DayRate, f.NightRate)
}

// HasHourlyRate reports whether the facility carries a comparable hourly price.
func (f Facility) HasHourlyRate() bool {
	return f.DayRate > 0 || f.NightRate > 0
}

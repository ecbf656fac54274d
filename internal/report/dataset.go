package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/parking-cli/internal/dedupe"
	"github.com/sells-group/parking-cli/internal/model"
	"github.com/sells-group/parking-cli/internal/pipeline"
)

// CityCount counts facilities in one city by source.
type CityCount struct {
	Managed  int `json:"managed"`
	External int `json:"external"`
}

// DatasetStatistics summarizes the cleaned dataset.
type DatasetStatistics struct {
	ManagedCount   int                  `json:"managed_count"`
	ExternalCount  int                  `json:"external_count"`
	TotalCount     int                  `json:"total_count"`
	DuplicateCount int                  `json:"duplicate_count"`
	Cities         map[string]CityCount `json:"cities"`
}

// Dataset is the cleaned inventory written by the clean command and read
// back by the map.
type Dataset struct {
	RunID      string            `json:"run_id"`
	Managed    []model.Facility  `json:"managed"`
	External   []model.Facility  `json:"external"`
	Combined   []model.Facility  `json:"combined"`
	Duplicates []dedupe.Match    `json:"duplicates"`
	Statistics DatasetStatistics `json:"statistics"`
}

// BuildDataset assembles a Dataset from a run.
func BuildDataset(res *pipeline.Result) Dataset {
	ds := Dataset{
		RunID:      res.RunID,
		Managed:    nonNil(res.Managed),
		External:   nonNil(res.External),
		Combined:   res.Combined(),
		Duplicates: res.Duplicates,
		Statistics: DatasetStatistics{
			ManagedCount:   len(res.Managed),
			ExternalCount:  len(res.External),
			TotalCount:     len(res.Managed) + len(res.External),
			DuplicateCount: len(res.Duplicates),
			Cities:         make(map[string]CityCount),
		},
	}
	if ds.Duplicates == nil {
		ds.Duplicates = []dedupe.Match{}
	}
	for _, f := range ds.Combined {
		c := ds.Statistics.Cities[f.City]
		if f.Source == model.SourceManaged {
			c.Managed++
		} else {
			c.External++
		}
		ds.Statistics.Cities[f.City] = c
	}
	return ds
}

// WriteDatasetJSON writes ds as indented JSON.
func WriteDatasetJSON(w io.Writer, ds Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(ds), "report: encode dataset")
}

func nonNil(fs []model.Facility) []model.Facility {
	if fs == nil {
		return []model.Facility{}
	}
	return fs
}

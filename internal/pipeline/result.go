package pipeline

import (
	"time"

	"github.com/sells-group/parking-cli/internal/dedupe"
	"github.com/sells-group/parking-cli/internal/model"
	"github.com/sells-group/parking-cli/internal/normalize"
	"github.com/sells-group/parking-cli/internal/proximity"
)

// PhaseResult records one stage of a run.
type PhaseResult struct {
	Name       string `json:"name"`
	Records    int    `json:"records"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Counts tallies what each stage kept and dropped.
type Counts struct {
	ManagedRows       int             `json:"managed_rows"`
	ExternalRows      int             `json:"external_rows"`
	ManagedDropped    int             `json:"managed_dropped"`
	ExternalDropped   int             `json:"external_dropped"`
	ManagedNormalize  normalize.Stats `json:"managed_normalize"`
	ExternalNormalize normalize.Stats `json:"external_normalize"`
	Duplicates        int             `json:"duplicates"`
	PoolSize          int             `json:"pool_size"`
	PoolExcluded      int             `json:"pool_excluded"`
}

// Result is the immutable output of one run.
type Result struct {
	RunID      string                 `json:"run_id"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Managed    []model.Facility       `json:"managed"`
	External   []model.Facility       `json:"external"`
	Duplicates []dedupe.Match         `json:"duplicates"`
	Stats      []model.ProximityStats `json:"stats"`
	Summary    proximity.Summary      `json:"summary"`
	Counts     Counts                 `json:"counts"`
	Phases     []PhaseResult          `json:"phases"`

	statsByID map[string]int
}

// Combined returns managed facilities followed by the deduplicated
// external facilities.
func (r *Result) Combined() []model.Facility {
	out := make([]model.Facility, 0, len(r.Managed)+len(r.External))
	out = append(out, r.Managed...)
	return append(out, r.External...)
}

// StatsByID returns the stats of the first managed facility with id.
func (r *Result) StatsByID(id string) (model.ProximityStats, bool) {
	if r.statsByID == nil {
		for _, st := range r.Stats {
			if st.Managed.ID == id {
				return st, true
			}
		}
		return model.ProximityStats{}, false
	}
	i, ok := r.statsByID[id]
	if !ok {
		return model.ProximityStats{}, false
	}
	return r.Stats[i], true
}

func (r *Result) index() {
	r.statsByID = make(map[string]int, len(r.Stats))
	for i, st := range r.Stats {
		if _, dup := r.statsByID[st.Managed.ID]; !dup {
			r.statsByID[st.Managed.ID] = i
		}
	}
}

// Package dedupe flags external facilities that duplicate a managed one.
//
// A duplicate is an external record within the distance threshold of a
// managed record whose names also match. Duplicates are dropped, never merged.
package dedupe

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/parking-cli/internal/config"
	"github.com/sells-group/parking-cli/internal/geo"
	"github.com/sells-group/parking-cli/internal/model"
)

// Config controls the matcher.
type Config struct {
	ThresholdMeters float64
	Index           string
	ProgressEvery   int
}

// DefaultConfig returns a 50 m threshold with a linear scan.
func DefaultConfig() Config {
	return Config{ThresholdMeters: 50, Index: config.IndexScan, ProgressEvery: 100}
}

// ConfigFrom adapts the application configuration.
func ConfigFrom(c config.DedupeConfig) Config {
	return Config{
		ThresholdMeters: c.ThresholdMeters,
		Index:           c.Index,
		ProgressEvery:   c.ProgressEvery,
	}
}

// Match records one flagged external facility and the managed facility it
// duplicates.
type Match struct {
	External       model.Facility `json:"external"`
	Managed        model.Facility `json:"managed"`
	DistanceMeters float64        `json:"distance_meters"`
}

// Result holds the surviving external facilities in input order and the
// flagged duplicates.
type Result struct {
	Kept       []model.Facility `json:"kept"`
	Duplicates []Match          `json:"duplicates"`
}

// Matcher removes external facilities that duplicate managed ones.
type Matcher struct {
	cfg Config
}

// NewMatcher creates a Matcher. A non-positive threshold is an error.
func NewMatcher(cfg Config) (*Matcher, error) {
	if cfg.ThresholdMeters <= 0 {
		return nil, eris.Errorf("dedupe: threshold must be > 0, got %v", cfg.ThresholdMeters)
	}
	switch cfg.Index {
	case "":
		cfg.Index = config.IndexScan
	case config.IndexScan, config.IndexGrid:
	default:
		return nil, eris.Errorf("dedupe: unknown index %q", cfg.Index)
	}
	return &Matcher{cfg: cfg}, nil
}

// Dedupe checks every external facility against the managed facilities in
// input order and drops it at the first managed facility that is closer
// than the threshold and has a matching name.
func (m *Matcher) Dedupe(ctx context.Context, managed, external []model.Facility) (Result, error) {
	log := zap.L().With(zap.String("component", "dedupe"))

	folded := make([]string, len(managed))
	for i, f := range managed {
		folded[i] = foldName(f.Name)
	}

	candidates := m.candidateFunc(managed)

	res := Result{Kept: make([]model.Facility, 0, len(external))}
	for i, ext := range external {
		if err := ctx.Err(); err != nil {
			return Result{}, eris.Wrap(err, "dedupe: cancelled")
		}
		if m.cfg.ProgressEvery > 0 && i > 0 && i%m.cfg.ProgressEvery == 0 {
			log.Info("dedupe: progress", zap.Int("checked", i), zap.Int("total", len(external)))
		}

		if match, ok := m.firstMatch(ext, managed, folded, candidates); ok {
			log.Info("dedupe: duplicate found",
				zap.String("external", ext.Name),
				zap.String("managed", match.Managed.Name),
				zap.Float64("distance_m", match.DistanceMeters),
			)
			res.Duplicates = append(res.Duplicates, match)
			continue
		}
		res.Kept = append(res.Kept, ext)
	}

	log.Info("dedupe: complete",
		zap.Int("external", len(external)),
		zap.Int("duplicates", len(res.Duplicates)),
		zap.Int("kept", len(res.Kept)),
	)
	return res, nil
}

func (m *Matcher) firstMatch(ext model.Facility, managed []model.Facility, folded []string, candidates func(lat, lon float64) []int) (Match, bool) {
	extName := foldName(ext.Name)
	visit := func(j int) (Match, bool) {
		mf := managed[j]
		d := geo.DistanceMeters(ext.Lat, ext.Lon, mf.Lat, mf.Lon)
		if d >= m.cfg.ThresholdMeters {
			return Match{}, false
		}
		if !foldedNamesMatch(extName, folded[j]) {
			return Match{}, false
		}
		return Match{External: ext, Managed: mf, DistanceMeters: d}, true
	}

	if candidates == nil {
		for j := range managed {
			if match, ok := visit(j); ok {
				return match, true
			}
		}
		return Match{}, false
	}
	for _, j := range candidates(ext.Lat, ext.Lon) {
		if match, ok := visit(j); ok {
			return match, true
		}
	}
	return Match{}, false
}

// candidateFunc returns nil for a linear scan, or a grid lookup whose
// results are ascending so first-match order equals the scan's.
func (m *Matcher) candidateFunc(managed []model.Facility) func(lat, lon float64) []int {
	if m.cfg.Index != config.IndexGrid {
		return nil
	}
	points := make([]geo.Point, len(managed))
	for i, f := range managed {
		points[i] = geo.Point{Lat: f.Lat, Lon: f.Lon}
	}
	return geo.NewGridIndex(points, m.cfg.ThresholdMeters).Candidates
}

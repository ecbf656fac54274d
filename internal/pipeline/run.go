// Package pipeline runs the batch: validate, normalize, dedupe, aggregate.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/parking-cli/internal/config"
	"github.com/sells-group/parking-cli/internal/dedupe"
	"github.com/sells-group/parking-cli/internal/geo"
	"github.com/sells-group/parking-cli/internal/model"
	"github.com/sells-group/parking-cli/internal/normalize"
	"github.com/sells-group/parking-cli/internal/proximity"
)

// Phase names recorded in Result.Phases.
const (
	PhaseValidate  = "validate"
	PhaseNormalize = "normalize"
	PhaseDedupe    = "dedupe"
	PhaseAggregate = "aggregate"
)

// Inputs holds the raw rows of both inventories.
type Inputs struct {
	Managed  []model.Row
	External []model.Row
}

// Options configures every stage of a run.
type Options struct {
	Region      geo.Region
	Schemas     normalize.Schemas
	CityAliases map[string]string
	Dedupe      dedupe.Config
	Proximity   proximity.Config

	// DedupeOnly stops after duplicate removal; Stats and Summary stay empty.
	DedupeOnly bool
}

// OptionsFrom builds Options from the application config.
func OptionsFrom(cfg *config.Config, schemas normalize.Schemas) Options {
	return Options{
		Region:      geo.NewRegion(cfg.Region.MinLat, cfg.Region.MaxLat, cfg.Region.MinLon, cfg.Region.MaxLon),
		Schemas:     schemas,
		CityAliases: cfg.CityAliases,
		Dedupe:      dedupe.ConfigFrom(cfg.Dedupe),
		Proximity:   proximity.ConfigFrom(cfg.Proximity),
	}
}

// DefaultOptions uses the built-in region, schemas, and thresholds.
func DefaultOptions() Options {
	return Options{
		Region:      geo.TaiwanRegion(),
		Schemas:     normalize.DefaultSchemas(),
		CityAliases: config.DefaultCityAliases(),
		Dedupe:      dedupe.DefaultConfig(),
		Proximity:   proximity.DefaultConfig(),
	}
}

// Pipeline is a configured batch run. It holds no state between runs.
type Pipeline struct {
	opts     Options
	managed  normalize.Schema
	external normalize.Schema
	matcher  *dedupe.Matcher
}

// New validates opts and prepares the matcher.
func New(opts Options) (*Pipeline, error) {
	managed, err := opts.Schemas.Get(model.SourceManaged)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: managed schema")
	}
	external, err := opts.Schemas.Get(model.SourceExternal)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: external schema")
	}
	matcher, err := dedupe.NewMatcher(opts.Dedupe)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: dedupe")
	}
	// Fail on a bad proximity config before doing any work.
	if _, err := proximity.NewAggregator(proximity.NewPool(nil), opts.Proximity); err != nil {
		return nil, eris.Wrap(err, "pipeline: proximity")
	}

	return &Pipeline{opts: opts, managed: managed, external: external, matcher: matcher}, nil
}

// Run executes every stage over in. Per-record problems are counted and
// logged; only cancellation or misconfiguration fails the run.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*Result, error) {
	res := &Result{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	log := zap.L().With(zap.String("run_id", res.RunID))
	log.Info("pipeline: starting run",
		zap.Int("managed_rows", len(in.Managed)),
		zap.Int("external_rows", len(in.External)),
	)

	trackPhase := func(name string, fn func() (int, error)) error {
		start := time.Now()
		records, err := fn()
		phase := PhaseResult{
			Name:       name,
			Records:    records,
			DurationMS: time.Since(start).Milliseconds(),
		}
		if err != nil {
			phase.Error = err.Error()
			log.Error("pipeline: phase failed", zap.String("phase", name), zap.Error(err))
		} else {
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int("records", records),
				zap.Int64("duration_ms", phase.DurationMS),
			)
		}
		res.Phases = append(res.Phases, phase)
		return err
	}

	var managedRows, externalRows []model.Row
	if err := trackPhase(PhaseValidate, func() (int, error) {
		mv := normalize.NewValidator(p.opts.Region, p.managed.LatField, p.managed.LonField)
		ev := normalize.NewValidator(p.opts.Region, p.external.LatField, p.external.LonField)
		managedRows, res.Counts.ManagedDropped = mv.Filter(in.Managed)
		externalRows, res.Counts.ExternalDropped = ev.Filter(in.External)
		res.Counts.ManagedRows = len(in.Managed)
		res.Counts.ExternalRows = len(in.External)
		log.Info("pipeline: invalid records dropped",
			zap.Int("managed", res.Counts.ManagedDropped),
			zap.Int("external", res.Counts.ExternalDropped),
		)
		return len(managedRows) + len(externalRows), ctx.Err()
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: validate")
	}

	var external []model.Facility
	if err := trackPhase(PhaseNormalize, func() (int, error) {
		aliases := normalize.WithCityAliases(p.opts.CityAliases)
		res.Managed, res.Counts.ManagedNormalize = normalize.NewNormalizer(p.managed, aliases).NormalizeAll(managedRows)
		external, res.Counts.ExternalNormalize = normalize.NewNormalizer(p.external, aliases).NormalizeAll(externalRows)
		return len(res.Managed) + len(external), ctx.Err()
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: normalize")
	}

	if err := trackPhase(PhaseDedupe, func() (int, error) {
		dr, err := p.matcher.Dedupe(ctx, res.Managed, external)
		if err != nil {
			return 0, err
		}
		res.External = dr.Kept
		res.Duplicates = dr.Duplicates
		res.Counts.Duplicates = len(dr.Duplicates)
		return len(dr.Kept), nil
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: dedupe")
	}

	if p.opts.DedupeOnly {
		return p.finish(res, log), nil
	}

	if err := trackPhase(PhaseAggregate, func() (int, error) {
		pool := proximity.NewPool(res.External)
		res.Counts.PoolSize = pool.Len()
		res.Counts.PoolExcluded = pool.Excluded()

		agg, err := proximity.NewAggregator(pool, p.opts.Proximity)
		if err != nil {
			return 0, err
		}
		res.Stats, err = agg.AggregateAll(ctx, res.Managed)
		if err != nil {
			return 0, err
		}
		res.Summary = proximity.Summarize(res.Stats)
		return len(res.Stats), nil
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: aggregate")
	}

	return p.finish(res, log), nil
}

func (p *Pipeline) finish(res *Result, log *zap.Logger) *Result {
	res.index()
	res.FinishedAt = time.Now().UTC()
	log.Info("pipeline: run complete",
		zap.Int("managed", len(res.Managed)),
		zap.Int("external", len(res.External)),
		zap.Int("duplicates", len(res.Duplicates)),
		zap.Int("with_neighbors", res.Summary.WithNeighbors),
		zap.Bool("dedupe_only", p.opts.DedupeOnly),
		zap.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)),
	)
	return res
}

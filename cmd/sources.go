package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/parking-cli/internal/config"
	"github.com/sells-group/parking-cli/internal/fetcher"
	"github.com/sells-group/parking-cli/internal/model"
	"github.com/sells-group/parking-cli/internal/normalize"
	"github.com/sells-group/parking-cli/internal/pipeline"
)

// Input flags shared by every command that runs the pipeline.
var (
	inputManaged  string
	inputExternal string
	inputEncoding string
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inputManaged, "managed", "", "managed inventory file (default from config)")
	cmd.Flags().StringVar(&inputExternal, "external", "", "external inventory file (default from config)")
	cmd.Flags().StringVar(&inputEncoding, "encoding", "", "CSV charset, e.g. utf-8 or big5 (default from config)")
}

// applyInputFlags lets command-line flags override the loaded config.
func applyInputFlags(c *config.Config) {
	if inputManaged != "" {
		c.Input.Managed = inputManaged
	}
	if inputExternal != "" {
		c.Input.External = inputExternal
	}
	if inputEncoding != "" {
		c.Input.Encoding = inputEncoding
	}
}

// loadInputs reads both inventories concurrently.
func loadInputs(ctx context.Context, c *config.Config) (pipeline.Inputs, error) {
	var in pipeline.Inputs
	opts := fetcher.LoadOptions{Encoding: c.Input.Encoding}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := fetcher.LoadRows(gctx, c.Input.Managed, opts)
		if err != nil {
			return eris.Wrapf(err, "load %s inventory", model.SourceManaged)
		}
		in.Managed = rows
		return nil
	})
	g.Go(func() error {
		rows, err := fetcher.LoadRows(gctx, c.Input.External, opts)
		if err != nil {
			return eris.Wrapf(err, "load %s inventory", model.SourceExternal)
		}
		in.External = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return pipeline.Inputs{}, err
	}
	return in, nil
}

// runPipeline validates c, loads both inventories, and executes one run.
// With dedupeOnly the proximity stage is skipped.
func runPipeline(ctx context.Context, c *config.Config, dedupeOnly bool) (*pipeline.Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	schemas, err := normalize.LoadSchemas(c.Input.SchemaFile)
	if err != nil {
		return nil, eris.Wrap(err, "load schemas")
	}

	opts := pipeline.OptionsFrom(c, schemas)
	opts.DedupeOnly = dedupeOnly
	p, err := pipeline.New(opts)
	if err != nil {
		return nil, eris.Wrap(err, "build pipeline")
	}

	in, err := loadInputs(ctx, c)
	if err != nil {
		return nil, err
	}

	res, err := p.Run(ctx, in)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline run")
	}

	zap.L().Info("pipeline complete",
		zap.String("run_id", res.RunID),
		zap.Int("managed", len(res.Managed)),
		zap.Int("external", len(res.External)),
		zap.Int("duplicates", len(res.Duplicates)),
		zap.Int("with_neighbors", res.Summary.WithNeighbors),
	)
	return res, nil
}

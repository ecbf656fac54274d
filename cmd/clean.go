package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/parking-cli/internal/report"
)

var cleanOut string

// cleanFormats are the deduplicated dataset outputs, without analysis tables.
var cleanFormats = []string{report.FormatJSON, report.FormatGeoJSON}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Validate and deduplicate inventories, then write the combined dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		applyInputFlags(cfg)
		applyOutputFlags(cfg, cleanOut, cleanFormats)

		res, err := runPipeline(ctx, cfg, true)
		if err != nil {
			return err
		}

		paths, err := report.Write(ctx, res, cfg.Output.Dir, cfg.Output.Formats)
		if err != nil {
			return eris.Wrap(err, "write dataset")
		}
		zap.L().Info("dataset written",
			zap.String("run_id", res.RunID),
			zap.Int("managed", len(res.Managed)),
			zap.Int("external", len(res.External)),
			zap.Int("duplicates", len(res.Duplicates)),
			zap.Strings("files", paths),
		)
		return nil
	},
}

func init() {
	addInputFlags(cleanCmd)
	cleanCmd.Flags().StringVar(&cleanOut, "out", "", "output directory (default from config)")
	rootCmd.AddCommand(cleanCmd)
}

package report

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/parking-cli/internal/pipeline"
)

// Output formats.
const (
	FormatCSV     = "csv"
	FormatPricing = "pricing"
	FormatXLSX    = "xlsx"
	FormatJSON    = "json"
	FormatGeoJSON = "geojson"
	FormatSQLite  = "sqlite"
)

var fileNames = map[string]string{
	FormatCSV:     "parking_analysis.csv",
	FormatPricing: "parking_pricing.csv",
	FormatXLSX:    "parking_analysis.xlsx",
	FormatJSON:    "parking_dataset.json",
	FormatGeoJSON: "parking_facilities.geojson",
	FormatSQLite:  "parking_report.db",
}

// FileName returns the output file name for a format.
func FileName(format string) (string, error) {
	name, ok := fileNames[format]
	if !ok {
		return "", eris.Errorf("report: unknown format %q", format)
	}
	return name, nil
}

// Write renders res in each format under dir and returns the paths written,
// in format order. Repeated formats are written once.
func Write(ctx context.Context, res *pipeline.Result, dir string, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "report: create %s", dir)
	}

	seen := make(map[string]bool, len(formats))
	var paths []string
	for _, format := range formats {
		if seen[format] {
			continue
		}
		seen[format] = true

		name, err := FileName(format)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, name)

		if err := writeFormat(ctx, res, format, path); err != nil {
			return paths, err
		}
		zap.L().Info("report: written",
			zap.String("run_id", res.RunID),
			zap.String("format", format),
			zap.String("path", path),
		)
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFormat(ctx context.Context, res *pipeline.Result, format, path string) error {
	switch format {
	case FormatCSV:
		return writeFile(path, func(w io.Writer) error { return WriteAnalysisCSV(w, res.Stats) })
	case FormatPricing:
		return writeFile(path, func(w io.Writer) error { return WritePricingCSV(w, res.Stats) })
	case FormatXLSX:
		return WriteAnalysisXLSX(path, res.Stats, res.Summary, res.Duplicates)
	case FormatJSON:
		return writeFile(path, func(w io.Writer) error { return WriteDatasetJSON(w, BuildDataset(res)) })
	case FormatGeoJSON:
		return writeFile(path, func(w io.Writer) error { return WriteGeoJSON(w, res.Combined()) })
	case FormatSQLite:
		return writeSQLite(ctx, res, path)
	default:
		return eris.Errorf("report: unknown format %q", format)
	}
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "report: close %s", path)
		}
	}()
	return fn(f)
}

func writeSQLite(ctx context.Context, res *pipeline.Result, path string) error {
	db, err := NewSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	return db.WriteRun(ctx, res)
}

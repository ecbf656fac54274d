package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/parking-cli/internal/model"
)

// Format identifies an input file type.
type Format string

// Supported input formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// DetectFormat picks the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", eris.Errorf("fetcher: unsupported input file %q", path)
	}
}

// LoadOptions configures LoadRows.
type LoadOptions struct {
	Encoding  string // CSV charset label, default utf-8
	Delimiter rune   // CSV delimiter, default ','
	SheetName string // XLSX worksheet, default first sheet
	JSONKey   string // JSON: read the array under this key instead of a top-level array
}

// LoadRows reads a CSV, XLSX, or JSON file into rows keyed by column name.
// For tabular files the first record is the header; blank records are
// skipped and short records simply lack the trailing columns. A .zip path
// must hold exactly one such file.
func LoadRows(ctx context.Context, path string, opts LoadOptions) ([]model.Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return loadZIP(ctx, path, opts)
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var rows []model.Row
	switch format {
	case FormatCSV:
		rows, err = loadCSV(ctx, path, opts)
	case FormatXLSX:
		rowCh, errCh := StreamXLSX(ctx, path, XLSXOptions{SheetName: opts.SheetName})
		rows, err = collectTable(rowCh, errCh)
	case FormatJSON:
		rows, err = loadJSON(ctx, path, opts)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: load %s", path)
	}

	zap.L().Info("fetcher: loaded rows",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

func loadZIP(ctx context.Context, path string, opts LoadOptions) ([]model.Row, error) {
	dir, err := os.MkdirTemp("", "parking-inventory-*")
	if err != nil {
		return nil, eris.Wrap(err, "zip: create temp dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	member, err := extractInventory(path, dir)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: load %s", path)
	}
	return LoadRows(ctx, member, opts)
}

func loadCSV(ctx context.Context, path string, opts LoadOptions) ([]model.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open")
	}
	defer f.Close() //nolint:errcheck

	r, err := DecodeReader(f, opts.Encoding)
	if err != nil {
		return nil, err
	}

	rowCh, errCh := StreamCSV(ctx, r, CSVOptions{Delimiter: opts.Delimiter, LazyQuotes: true})
	return collectTable(rowCh, errCh)
}

func loadJSON(ctx context.Context, path string, opts LoadOptions) ([]model.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "json: open")
	}
	defer f.Close() //nolint:errcheck

	r, err := DecodeReader(f, "utf-8")
	if err != nil {
		return nil, err
	}

	var (
		itemCh <-chan map[string]any
		errCh  <-chan error
	)
	if opts.JSONKey != "" {
		itemCh, errCh = DecodeJSONField[map[string]any](ctx, r, opts.JSONKey)
	} else {
		itemCh, errCh = DecodeJSONArray[map[string]any](ctx, r)
	}

	var rows []model.Row
	for item := range itemCh {
		rows = append(rows, model.Row(item))
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return rows, nil
}

// collectTable turns a record stream into rows using the first record as
// the header.
func collectTable(rowCh <-chan []string, errCh <-chan error) ([]model.Row, error) {
	var (
		header []string
		rows   []model.Row
	)
	for record := range rowCh {
		if header == nil {
			header = make([]string, len(record))
			for i, h := range record {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		if blank(record) {
			continue
		}

		row := make(model.Row, len(header))
		for i, v := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = strings.TrimSpace(v)
		}
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return rows, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

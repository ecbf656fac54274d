package report

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sells-group/parking-cli/internal/model"
)

// WriteAnalysisCSV writes one analysis row per facility.
func WriteAnalysisCSV(w io.Writer, stats []model.ProximityStats) error {
	return writeCSV(w, analysisColumns, stats)
}

// WritePricingCSV writes the readable pricing layout.
func WritePricingCSV(w io.Writer, stats []model.ProximityStats) error {
	return writeCSV(w, pricingColumns, stats)
}

// writeCSV encodes UTF-8 with a byte order mark so spreadsheet tools detect
// the encoding of the CJK text.
func writeCSV(w io.Writer, cols []column, stats []model.ProximityStats) error {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bw)

	if err := cw.Write(headers(cols)); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	record := make([]string, len(cols))
	for _, st := range stats {
		for i, c := range render(cols, newRow(st)) {
			record[i] = c.String()
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "report: flush csv")
	}
	return eris.Wrap(bw.Close(), "report: close csv")
}

// Package normalize turns loosely typed source rows into model.Facility records:
// coordinate validation against the operating region, per-schema rate
// reduction, and value coercion.
package normalize

import "github.com/rotisserie/eris"

// ErrInvalidRecord marks a row that cannot become a facility (missing or
// malformed coordinates, or a point outside the region). Such rows are
// dropped and counted, never fatal.
var ErrInvalidRecord = eris.New("invalid record")

// IsInvalidRecord reports whether err marks a dropped row.
func IsInvalidRecord(err error) bool {
	return eris.Is(err, ErrInvalidRecord)
}

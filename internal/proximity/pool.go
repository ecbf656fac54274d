package proximity

import (
	"github.com/sells-group/parking-cli/internal/model"
)

// Candidate is an external facility eligible for price comparison.
type Candidate struct {
	model.Facility
	MaxHourlyRate float64
}

// Pool is the filtered set of external facilities that carry an hourly
// rate. It is built once and shared by every aggregation.
type Pool struct {
	candidates []Candidate
	excluded   int
}

// NewPool keeps external facilities with a positive day or night rate, in
// input order. Monthly-only facilities are excluded.
func NewPool(external []model.Facility) *Pool {
	p := &Pool{candidates: make([]Candidate, 0, len(external))}
	for _, f := range external {
		if !f.HasHourlyRate() {
			p.excluded++
			continue
		}
		p.candidates = append(p.candidates, Candidate{Facility: f, MaxHourlyRate: f.MaxHourlyRate()})
	}
	return p
}

// Candidates returns the pool in input order.
func (p *Pool) Candidates() []Candidate { return p.candidates }

// Len returns the number of candidates.
func (p *Pool) Len() int { return len(p.candidates) }

// Excluded returns how many facilities had no hourly rate.
func (p *Pool) Excluded() int { return p.excluded }

package pep

import (
	"github.com/matzehuels/pydocscraper/pkg/output"
)

const (
	// MismatchBucket labels rows whose page status contradicts the index.
	MismatchBucket = "Any statuses"

	// TotalLabel labels the final row of the result table.
	TotalLabel = "Total"
)

// Tally counts classified rows per canonical status.
type Tally struct {
	counts     map[Status]int
	mismatches int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[Status]int, len(Statuses))}
}

// Add counts one row whose status matched its abbreviation.
func (t *Tally) Add(s Status) {
	t.counts[s]++
}

// AddMismatch counts one row whose status contradicted its abbreviation.
func (t *Tally) AddMismatch() {
	t.mismatches++
}

// Count returns the bucket for s.
func (t *Tally) Count(s Status) int {
	return t.counts[s]
}

// Mismatches returns the mismatch bucket.
func (t *Tally) Mismatches() int {
	return t.mismatches
}

// Total is the sum of all buckets, mismatches included.
func (t *Tally) Total() int {
	total := t.mismatches
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Table renders the tally as (Status, Count) rows in fixed order, closed by
// the mismatch bucket and the total.
func (t *Tally) Table() output.Table {
	tbl := output.NewTable("Status", "Count")
	for _, s := range Statuses {
		tbl.AppendCount(string(s), t.counts[s])
	}
	tbl.AppendCount(MismatchBucket, t.mismatches)
	tbl.AppendCount(TotalLabel, t.Total())
	return tbl
}

package pep

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pydocscraper/pkg/observability"
	"github.com/matzehuels/pydocscraper/pkg/output"
)

// Outcome kinds reported to crawl hooks.
const (
	OutcomeTallied     = observability.OutcomeTallied
	OutcomeMismatch    = observability.OutcomeMismatch
	OutcomeFetchFailed = observability.OutcomeFetchFailed
)

// Row is one entry of an index table.
type Row struct {
	Subject    string // anchor text, usually the PEP number
	URL        string // absolute URL of the PEP page
	Abbrev     Abbrev
	HasPreview bool // false when the row carried no abbreviation marker
}

// MismatchRecord describes a page whose status the abbreviation does not allow.
type MismatchRecord struct {
	URL      string
	Observed string
	Expected []Status
}

// FetchFailure records a PEP page that could not be fetched.
type FetchFailure struct {
	URL string
	Err error
}

// Outcome is the result of classifying a single row.
type Outcome struct {
	Row      Row
	Status   string          // observed status, empty when the fetch failed
	Mismatch *MismatchRecord // set when Status is not allowed by Row.Abbrev
	FetchErr error           // set when the page could not be fetched
}

// Kind returns one of the Outcome* constants.
func (o Outcome) Kind() string {
	switch {
	case o.FetchErr != nil:
		return OutcomeFetchFailed
	case o.Mismatch != nil:
		return OutcomeMismatch
	default:
		return OutcomeTallied
	}
}

// Classify checks an observed status against the row's abbreviation.
func Classify(row Row, status string) Outcome {
	out := Outcome{Row: row, Status: status}
	if !row.Abbrev.Allows(status) {
		out.Mismatch = &MismatchRecord{
			URL:      row.URL,
			Observed: status,
			Expected: row.Abbrev.Expected(),
		}
	}
	return out
}

// Report accumulates the results of a reconciliation pass.
type Report struct {
	Tally          *Tally
	MissingPreview []string
	Mismatches     []MismatchRecord
	FetchFailures  []FetchFailure
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{Tally: NewTally()}
}

// Record folds one outcome into the report. Each outcome lands in exactly
// one tally bucket unless its fetch failed, in which case it lands in none.
func (r *Report) Record(o Outcome) {
	if !o.Row.HasPreview {
		r.MissingPreview = append(r.MissingPreview, o.Row.Subject)
	}
	switch o.Kind() {
	case OutcomeFetchFailed:
		r.FetchFailures = append(r.FetchFailures, FetchFailure{URL: o.Row.URL, Err: o.FetchErr})
	case OutcomeMismatch:
		r.Mismatches = append(r.Mismatches, *o.Mismatch)
		r.Tally.AddMismatch()
	default:
		r.Tally.Add(Status(o.Status))
	}
}

// Table returns the (Status, Count) result table.
func (r *Report) Table() output.Table {
	return r.Tally.Table()
}

// Log writes the accumulated diagnostics in one batch.
func (r *Report) Log(logger *log.Logger) {
	if len(r.MissingPreview) > 0 {
		logger.Warn("Rows without status preview", "count", len(r.MissingPreview), "rows", strings.Join(r.MissingPreview, ", "))
	}
	if len(r.Mismatches) > 0 {
		logger.Info("Mismatched statuses", "count", len(r.Mismatches))
		for _, m := range r.Mismatches {
			logger.Info("Mismatch", "url", m.URL, "status", m.Observed, "expected", joinStatuses(m.Expected))
		}
	}
	for _, f := range r.FetchFailures {
		logger.Warn("Could not fetch PEP page", "url", f.URL, "err", f.Err)
	}
}

func joinStatuses(ss []Status) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

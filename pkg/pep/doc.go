// Package pep reconciles the PEP index against the PEP pages themselves.
//
// The index at peps.python.org lists every PEP in one or more summary tables.
// Each row carries a two-letter marker such as "SF" (Standards Track, Final);
// the first letter is the PEP type and the rest is the status abbreviation.
// The [Reconciler] walks every row, follows the link to the PEP page, reads
// the authoritative status from the page header and checks it against the
// statuses the abbreviation allows.
//
// # Tally
//
// Every row that reaches classification increments exactly one bucket of the
// [Tally]: its canonical status when it matches the abbreviation, or the
// mismatch bucket ("Any statuses") when it does not. Rows whose page could
// not be fetched never reach classification and are only reported.
//
// # Reporting
//
// Rows without an abbreviation, mismatches and fetch failures are gathered in
// the [Report] and logged in one batch after the walk with [Report.Log].
//
// # Row boundary
//
// [Reconciler.ClassifyRow] handles one row and returns an [Outcome] without
// touching shared state; [Report.Record] folds outcomes into the report. The
// fold is order independent, so rows may later be classified by a worker
// pool without changing the totals.
package pep

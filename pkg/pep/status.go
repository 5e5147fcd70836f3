package pep

import (
	"github.com/matzehuels/pydocscraper/pkg/errors"
)

// Status is a canonical PEP status as printed on the PEP page.
type Status string

const (
	StatusAccepted    Status = "Accepted"
	StatusActive      Status = "Active"
	StatusDeferred    Status = "Deferred"
	StatusDraft       Status = "Draft"
	StatusFinal       Status = "Final"
	StatusProvisional Status = "Provisional"
	StatusRejected    Status = "Rejected"
	StatusSuperseded  Status = "Superseded"
	StatusWithdrawn   Status = "Withdrawn"
)

// Statuses lists every canonical status in result-table order.
var Statuses = []Status{
	StatusAccepted,
	StatusActive,
	StatusDeferred,
	StatusDraft,
	StatusFinal,
	StatusProvisional,
	StatusRejected,
	StatusSuperseded,
	StatusWithdrawn,
}

// Abbrev is the status abbreviation shown in the index tables.
type Abbrev int

const (
	AbbrevNone        Abbrev = iota // no status letter: draft or active
	AbbrevActive                    // A
	AbbrevDeferred                  // D
	AbbrevFinal                     // F
	AbbrevProvisional               // P
	AbbrevRejected                  // R
	AbbrevSuperseded                // S
	AbbrevWithdrawn                 // W
)

// Abbrevs lists every abbreviation.
var Abbrevs = []Abbrev{
	AbbrevNone,
	AbbrevActive,
	AbbrevDeferred,
	AbbrevFinal,
	AbbrevProvisional,
	AbbrevRejected,
	AbbrevSuperseded,
	AbbrevWithdrawn,
}

// ParseAbbrev maps the letter(s) left after the type marker to an Abbrev.
func ParseAbbrev(code string) (Abbrev, error) {
	switch code {
	case "":
		return AbbrevNone, nil
	case "A":
		return AbbrevActive, nil
	case "D":
		return AbbrevDeferred, nil
	case "F":
		return AbbrevFinal, nil
	case "P":
		return AbbrevProvisional, nil
	case "R":
		return AbbrevRejected, nil
	case "S":
		return AbbrevSuperseded, nil
	case "W":
		return AbbrevWithdrawn, nil
	}
	return AbbrevNone, errors.New(errors.ErrCodeInvalidAbbreviation, "unknown status abbreviation %q", code)
}

// Code returns the letter shown in the index, "" for AbbrevNone.
func (a Abbrev) Code() string {
	switch a {
	case AbbrevNone:
		return ""
	case AbbrevActive:
		return "A"
	case AbbrevDeferred:
		return "D"
	case AbbrevFinal:
		return "F"
	case AbbrevProvisional:
		return "P"
	case AbbrevRejected:
		return "R"
	case AbbrevSuperseded:
		return "S"
	case AbbrevWithdrawn:
		return "W"
	}
	return "?"
}

// Expected returns the canonical statuses a PEP marked with a may have,
// in preference order.
func (a Abbrev) Expected() []Status {
	switch a {
	case AbbrevNone:
		return []Status{StatusDraft, StatusActive}
	case AbbrevActive:
		return []Status{StatusActive, StatusAccepted}
	case AbbrevDeferred:
		return []Status{StatusDeferred}
	case AbbrevFinal:
		return []Status{StatusFinal}
	case AbbrevProvisional:
		return []Status{StatusProvisional}
	case AbbrevRejected:
		return []Status{StatusRejected}
	case AbbrevSuperseded:
		return []Status{StatusSuperseded}
	case AbbrevWithdrawn:
		return []Status{StatusWithdrawn}
	}
	return nil
}

// Allows reports whether status is one of a's expected statuses.
func (a Abbrev) Allows(status string) bool {
	for _, s := range a.Expected() {
		if string(s) == status {
			return true
		}
	}
	return false
}

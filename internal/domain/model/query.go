package model

import (
	"errors"
	"strings"
)

// ErrInvalidStatus is returned for an unknown candidate status filter.
var ErrInvalidStatus = errors.New("invalid candidate status")

// Status narrows the candidate view by scorecard progress.
type Status string

// Candidate status filters.
const (
	StatusAll      Status = "all"
	StatusComplete Status = "complete"
	StatusPending  Status = "pending"
)

// ParseStatus maps free text onto a Status. Empty text means StatusAll.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusComplete:
		return StatusComplete, nil
	case StatusPending:
		return StatusPending, nil
	default:
		return "", ErrInvalidStatus
	}
}

// CandidateQuery restricts which candidate summaries are shown.
// Zero values mean "no restriction".
type CandidateQuery struct {
	Recruiter   string   `json:"recruiter"`
	Departments []string `json:"departments"`
	Status      Status   `json:"status"`
}

// CohortFilter restricts a cohort rollup.
//
// Departments scopes the records before aggregation, Members keeps only the
// named cohort values and Search is a case-insensitive substring match on the
// cohort name. All three compose with AND.
type CohortFilter struct {
	Search      string   `json:"search"`
	Members     []string `json:"members"`
	Departments []string `json:"departments"`
}

// Query is the full set of view parameters for one report. It is passed by
// value and never mutated by the pipeline.
type Query struct {
	Candidates   CandidateQuery `json:"candidates"`
	Departments  CohortFilter   `json:"departments"`
	Interviewers CohortFilter   `json:"interviewers"`
}

// Set builds a membership set from values. A nil set means "no restriction".
func Set(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// Cell is one loosely-typed spreadsheet value. Strings, numbers, booleans and
// null all decode into their textual form so that parsing decisions stay in
// the normalizer rather than failing the whole batch at decode time.
type Cell string

// UnmarshalJSON accepts any JSON value. Non-string values keep their raw
// JSON text; null becomes the empty cell.
func (c *Cell) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*c = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Cell(s)
	default:
		*c = Cell(b)
	}
	return nil
}

// String returns the cell text.
func (c Cell) String() string { return string(c) }

// RawRecord is one row of the interview sheet before normalization.
type RawRecord struct {
	CandidateID   Cell `json:"candidate_id"`
	Department    Cell `json:"department"`
	Recruiter     Cell `json:"recruiter"`
	InterviewerID Cell `json:"interviewer_id"`
	InterviewSlot Cell `json:"interview_slot"`
	Score         Cell `json:"raw_score"`
	Submitted     Cell `json:"submitted"`
	InterviewedAt Cell `json:"interviewed_at"`
	SubmittedAt   Cell `json:"submitted_at"`

	ReferenceScore     Cell `json:"reference_score"`
	PerformanceReview  Cell `json:"performance_review"`
	Promoted           Cell `json:"promoted"`
	EducationScore     Cell `json:"education_score"`
	InterpersonalScore Cell `json:"interpersonal_score"`
}

// Signals holds the auxiliary quality-of-hire inputs. Every field is nullable.
type Signals struct {
	ReferenceScore     *float64 `json:"reference_score"`
	PerformanceReview  *float64 `json:"performance_review"`
	Promoted           *bool    `json:"promoted"`
	EducationScore     *float64 `json:"education_score"`
	InterpersonalScore *float64 `json:"interpersonal_score"`
}

// Record is one interviewer's evaluation of one candidate after normalization.
// Empty categorical fields mean "absent" and are skipped by the rollup keyed
// on that dimension.
type Record struct {
	Row           int        `json:"row"`
	CandidateID   string     `json:"candidate_id"`
	Department    string     `json:"department"`
	Recruiter     string     `json:"recruiter"`
	InterviewerID string     `json:"interviewer_id"`
	InterviewSlot string     `json:"interview_slot"`
	Score         *float64   `json:"raw_score"`
	Submitted     bool       `json:"submitted"`
	InterviewedAt *time.Time `json:"interviewed_at,omitempty"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	Signals       Signals    `json:"signals"`
}

// EffectiveScore returns the score that may take part in averages.
// A scorecard that was not submitted never contributes, even when the sheet
// carries a stray number for it.
func (r Record) EffectiveScore() *float64 {
	if !r.Submitted {
		return nil
	}
	return r.Score
}

// SubmissionLatency reports how long the scorecard took to come in after the
// interview. ok is false when the record is not submitted or either timestamp
// is missing.
func (r Record) SubmissionLatency() (latency time.Duration, ok bool) {
	if !r.Submitted || r.InterviewedAt == nil || r.SubmittedAt == nil {
		return 0, false
	}
	return r.SubmittedAt.Sub(*r.InterviewedAt), true
}

// NeedsReminder is true while the scorecard is still outstanding.
func (r Record) NeedsReminder() bool { return !r.Submitted }

// Issue describes a field that could not be parsed and was degraded to null.
type Issue struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

package source

import (
	"fmt"
	"strings"

	"github.com/okian/scorecard/internal/domain/model"
)

type setter func(*model.RawRecord, string)

type column struct {
	name    string
	aliases []string
	set     setter
}

// columns lists every recognized column with the header spellings seen in
// exported interview sheets.
var columns = []column{ //nolint:gochecknoglobals // static lookup table
	{"candidate_id", []string{"candidate", "candidate id", "candidate name"}, func(r *model.RawRecord, v string) { r.CandidateID = model.Cell(v) }},
	{"department", []string{"dept"}, func(r *model.RawRecord, v string) { r.Department = model.Cell(v) }},
	{"recruiter", nil, func(r *model.RawRecord, v string) { r.Recruiter = model.Cell(v) }},
	{"interviewer_id", []string{"interviewer", "internal interviewer"}, func(r *model.RawRecord, v string) { r.InterviewerID = model.Cell(v) }},
	{"interview_slot", []string{"slot", "round", "interview"}, func(r *model.RawRecord, v string) { r.InterviewSlot = model.Cell(v) }},
	{"raw_score", []string{"score", "interview score"}, func(r *model.RawRecord, v string) { r.Score = model.Cell(v) }},
	{"submitted", []string{"submitted_flag", "scorecard_submitted"}, func(r *model.RawRecord, v string) { r.Submitted = model.Cell(v) }},
	{"interviewed_at", []string{"interview_time"}, func(r *model.RawRecord, v string) { r.InterviewedAt = model.Cell(v) }},
	{"submitted_at", []string{"submission_time"}, func(r *model.RawRecord, v string) { r.SubmittedAt = model.Cell(v) }},
	{"reference_score", nil, func(r *model.RawRecord, v string) { r.ReferenceScore = model.Cell(v) }},
	{"performance_review", []string{"performance_review_score"}, func(r *model.RawRecord, v string) { r.PerformanceReview = model.Cell(v) }},
	{"promoted", []string{"promoted_within_12_months"}, func(r *model.RawRecord, v string) { r.Promoted = model.Cell(v) }},
	{"education_score", nil, func(r *model.RawRecord, v string) { r.EducationScore = model.Cell(v) }},
	{"interpersonal_score", nil, func(r *model.RawRecord, v string) { r.InterpersonalScore = model.Cell(v) }},
}

// headerKey folds a header cell to snake case.
func headerKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(h)
}

func lookup() map[string]int {
	m := make(map[string]int, len(columns)*2)
	for i, c := range columns {
		m[c.name] = i
		for _, a := range c.aliases {
			m[headerKey(a)] = i
		}
	}
	return m
}

// mapping binds header positions to column setters.
type mapping []setter

func newMapping(header []string) (mapping, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}
	idx := lookup()
	m := make(mapping, len(header))
	seen := make(map[int]string, len(header))
	for pos, h := range header {
		ci, ok := idx[headerKey(h)]
		if !ok {
			continue
		}
		if prev, dup := seen[ci]; dup {
			return nil, fmt.Errorf("%w: %q and %q", ErrDuplicateColumn, prev, h)
		}
		seen[ci] = h
		m[pos] = columns[ci].set
	}
	if _, ok := seen[0]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, columns[0].name)
	}
	return m, nil
}

// record builds one row. Short rows leave trailing fields empty.
func (m mapping) record(cells []string) model.RawRecord {
	var r model.RawRecord
	for pos, set := range m {
		if set == nil || pos >= len(cells) {
			continue
		}
		set(&r, cells[pos])
	}
	return r
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Package normalize turns loosely-typed sheet rows into comparable records.
//
// Malformed fields never abort a batch: they degrade to null and are reported
// as model.Issue values. Only rows without a candidate identity are rejected.
package normalize

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/scorecard/internal/domain/model"
)

// ErrMissingCandidate marks a row that has no candidate identity.
var ErrMissingCandidate = errors.New("missing candidate id")

// Field names used in issues and metrics.
const (
	FieldScore              = "raw_score"
	FieldSubmitted          = "submitted"
	FieldInterviewedAt      = "interviewed_at"
	FieldSubmittedAt        = "submitted_at"
	FieldReferenceScore     = "reference_score"
	FieldPerformanceReview  = "performance_review"
	FieldPromoted           = "promoted"
	FieldEducationScore     = "education_score"
	FieldInterpersonalScore = "interpersonal_score"
)

const submittedLiteral = "yes"

// timeLayouts are tried in order when parsing timestamps.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Result is the output of normalizing a whole table.
type Result struct {
	Records []model.Record
	Issues  []model.Issue
	Stats   model.IngestStats
}

// All normalizes every row, keeping input order. row indexes in issues are
// zero-based positions in rows.
func All(rows []model.RawRecord) Result {
	res := Result{
		Records: make([]model.Record, 0, len(rows)),
		Issues:  []model.Issue{},
		Stats: model.IngestStats{
			Rows:            len(rows),
			MalformedFields: map[string]int{},
		},
	}
	for i, raw := range rows {
		rec, issues, err := Normalize(i, raw)
		for _, is := range issues {
			res.Stats.MalformedFields[is.Field]++
		}
		res.Issues = append(res.Issues, issues...)
		if err != nil {
			res.Stats.Rejected++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	res.Stats.Accepted = len(res.Records)
	return res
}

// Normalize converts one raw row. It returns ErrMissingCandidate when the row
// has no usable candidate id; every other problem is reported as an issue.
func Normalize(row int, raw model.RawRecord) (model.Record, []model.Issue, error) {
	var issues []model.Issue
	note := func(field string, value model.Cell, reason string) {
		issues = append(issues, model.Issue{Row: row, Field: field, Value: string(value), Reason: reason})
	}

	candidate := category(raw.CandidateID)
	if candidate == "" {
		return model.Record{}, nil, ErrMissingCandidate
	}

	rec := model.Record{
		Row:           row,
		CandidateID:   candidate,
		Department:    category(raw.Department),
		Recruiter:     category(raw.Recruiter),
		InterviewerID: category(raw.InterviewerID),
		InterviewSlot: category(raw.InterviewSlot),
	}

	var ok bool
	if rec.Score, ok = Decimal(raw.Score); !ok {
		note(FieldScore, raw.Score, "not a finite number")
	}
	if rec.Submitted, ok = Submitted(raw.Submitted); !ok {
		note(FieldSubmitted, raw.Submitted, "unrecognized submission status")
	}
	if rec.InterviewedAt, ok = Timestamp(raw.InterviewedAt); !ok {
		note(FieldInterviewedAt, raw.InterviewedAt, "unrecognized timestamp")
	}
	if rec.SubmittedAt, ok = Timestamp(raw.SubmittedAt); !ok {
		note(FieldSubmittedAt, raw.SubmittedAt, "unrecognized timestamp")
	}

	decimals := []struct {
		field string
		cell  model.Cell
		dst   **float64
	}{
		{FieldReferenceScore, raw.ReferenceScore, &rec.Signals.ReferenceScore},
		{FieldPerformanceReview, raw.PerformanceReview, &rec.Signals.PerformanceReview},
		{FieldEducationScore, raw.EducationScore, &rec.Signals.EducationScore},
		{FieldInterpersonalScore, raw.InterpersonalScore, &rec.Signals.InterpersonalScore},
	}
	for _, d := range decimals {
		if *d.dst, ok = Decimal(d.cell); !ok {
			note(d.field, d.cell, "not a finite number")
		}
	}
	if rec.Signals.Promoted, ok = Indicator(raw.Promoted); !ok {
		note(FieldPromoted, raw.Promoted, "unrecognized indicator")
	}

	return rec, issues, nil
}

// category keeps a categorical value as-is, except that blank text is absent.
func category(c model.Cell) string {
	if strings.TrimSpace(string(c)) == "" {
		return ""
	}
	return string(c)
}

// Decimal parses a nullable decimal. Blank cells are null without complaint;
// unparseable or non-finite text is null and ok is false. It never defaults
// to zero.
func Decimal(c model.Cell) (v *float64, ok bool) {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}

// Submitted reports whether the free-text status equals "yes" after trimming
// and lower-casing. Anything else is false; ok is false only for text that is
// not a known status at all.
func Submitted(c model.Cell) (submitted bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(string(c))) {
	case submittedLiteral:
		return true, true
	case "", "no", "pending", "false":
		return false, true
	default:
		return false, false
	}
}

// Indicator parses a nullable yes/no style flag.
func Indicator(c model.Cell) (v *bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(string(c))) {
	case "":
		return nil, true
	case "yes", "y", "true", "1":
		return model.Bool(true), true
	case "no", "n", "false", "0":
		return model.Bool(false), true
	default:
		return nil, false
	}
}

// Timestamp parses a nullable timestamp in one of the accepted layouts.
func Timestamp(c model.Cell) (v *time.Time, ok bool) {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return nil, true
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

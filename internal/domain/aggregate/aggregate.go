// Package aggregate groups normalized interview records into candidate summaries.
package aggregate

import (
	"github.com/okian/scorecard/internal/domain/model"
)

// accumulator tracks the running totals for one candidate.
type accumulator struct {
	sum    float64
	scored int
}

// Summarize returns one summary per distinct candidate id, in order of first
// appearance. Department and recruiter come from the candidate's first record;
// auxiliary signals take the first non-null value seen. Decision and QoH score
// are left for later stages.
func Summarize(records []model.Record) []model.CandidateSummary {
	index := make(map[string]int)
	out := make([]model.CandidateSummary, 0)
	accs := make([]accumulator, 0)

	for _, r := range records {
		if r.CandidateID == "" {
			continue
		}
		i, ok := index[r.CandidateID]
		if !ok {
			i = len(out)
			index[r.CandidateID] = i
			out = append(out, model.CandidateSummary{
				CandidateID: r.CandidateID,
				Department:  r.Department,
				Recruiter:   r.Recruiter,
			})
			accs = append(accs, accumulator{})
		}

		s := &out[i]
		s.TotalCount++
		if r.Submitted {
			s.SubmittedCount++
		}
		if score := r.EffectiveScore(); score != nil {
			accs[i].sum += *score
			accs[i].scored++
		}
		mergeSignals(&s.Signals, r.Signals)
	}

	for i := range out {
		if accs[i].scored > 0 {
			out[i].AverageScore = model.Float(accs[i].sum / float64(accs[i].scored))
		}
	}
	return out
}

// mergeSignals fills null signal fields of dst from src.
func mergeSignals(dst *model.Signals, src model.Signals) {
	if dst.ReferenceScore == nil {
		dst.ReferenceScore = src.ReferenceScore
	}
	if dst.PerformanceReview == nil {
		dst.PerformanceReview = src.PerformanceReview
	}
	if dst.Promoted == nil {
		dst.Promoted = src.Promoted
	}
	if dst.EducationScore == nil {
		dst.EducationScore = src.EducationScore
	}
	if dst.InterpersonalScore == nil {
		dst.InterpersonalScore = src.InterpersonalScore
	}
}

// Select returns the summaries visible under q, preserving order. A candidate
// is complete once its submitted count reaches panelSize.
func Select(summaries []model.CandidateSummary, q model.CandidateQuery, panelSize int) []model.CandidateSummary {
	departments := model.Set(q.Departments)
	out := make([]model.CandidateSummary, 0, len(summaries))
	for _, s := range summaries {
		if q.Recruiter != "" && s.Recruiter != q.Recruiter {
			continue
		}
		if departments != nil {
			if _, ok := departments[s.Department]; !ok {
				continue
			}
		}
		switch q.Status {
		case model.StatusComplete:
			if s.SubmittedCount < panelSize {
				continue
			}
		case model.StatusPending:
			if s.SubmittedCount >= panelSize {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// Reminders lists every outstanding scorecard belonging to the given
// candidates, in record order.
func Reminders(records []model.Record, candidates []model.CandidateSummary) []model.Reminder {
	visible := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		visible[c.CandidateID] = struct{}{}
	}
	out := make([]model.Reminder, 0)
	for _, r := range records {
		if !r.NeedsReminder() {
			continue
		}
		if _, ok := visible[r.CandidateID]; !ok {
			continue
		}
		out = append(out, model.Reminder{
			CandidateID:   r.CandidateID,
			InterviewerID: r.InterviewerID,
			InterviewSlot: r.InterviewSlot,
			Department:    r.Department,
			Recruiter:     r.Recruiter,
		})
	}
	return out
}

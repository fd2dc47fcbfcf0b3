// Package cohort rolls interview records up by department or interviewer.
//
// Department completion is counted from raw records while the department
// average is the mean of candidate averages, so a candidate with several
// interviews is never double counted. Interviewer statistics come from records
// alone. Filters narrow the view and never change how records are attributed
// to the cohorts that remain.
package cohort

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/scorecard/internal/domain/model"
)

// Roller computes cohort summaries. It is immutable and safe for concurrent use.
type Roller struct {
	completionThreshold float64
	latencyThreshold    time.Duration
}

// New builds a Roller and validates its thresholds.
func New(opts ...Option) (*Roller, error) {
	r := &Roller{
		completionThreshold: DefaultCompletionThreshold,
		latencyThreshold:    DefaultLatencyThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.completionThreshold <= 0 {
		return nil, fmt.Errorf("%w: completion %.1f", ErrInvalidThreshold, r.completionThreshold)
	}
	if r.latencyThreshold <= 0 {
		return nil, fmt.Errorf("%w: latency %s", ErrInvalidThreshold, r.latencyThreshold)
	}
	return r, nil
}

type bucket struct {
	conducted int
	submitted int
	scoreSum  float64
	scored    int
	latency   time.Duration
	timed     int
}

// Rollup groups records by key and applies filter. Rows are sorted by name.
func (r *Roller) Rollup(records []model.Record, candidates []model.CandidateSummary, key model.CohortKey, filter model.CohortFilter) ([]model.CohortSummary, error) {
	var keyOf func(model.Record) string
	switch key {
	case model.KeyDepartment:
		keyOf = func(rec model.Record) string { return rec.Department }
	case model.KeyInterviewer:
		keyOf = func(rec model.Record) string { return rec.InterviewerID }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	buckets := make(map[string]*bucket)
	for _, rec := range ScopeRecords(records, filter.Departments) {
		name := keyOf(rec)
		if name == "" {
			continue
		}
		b, ok := buckets[name]
		if !ok {
			b = &bucket{}
			buckets[name] = b
		}
		b.conducted++
		if rec.Submitted {
			b.submitted++
		}
		if key == model.KeyInterviewer {
			if s := rec.EffectiveScore(); s != nil {
				b.scoreSum += *s
				b.scored++
			}
		}
		if d, ok := rec.SubmissionLatency(); ok {
			b.latency += d
			b.timed++
		}
	}

	if key == model.KeyDepartment {
		for _, c := range candidates {
			b, ok := buckets[c.Department]
			if !ok || c.AverageScore == nil {
				continue
			}
			b.scoreSum += *c.AverageScore
			b.scored++
		}
	}

	members := model.Set(filter.Members)
	for name := range members {
		if _, ok := buckets[name]; !ok && name != "" {
			buckets[name] = &bucket{}
		}
	}

	out := make([]model.CohortSummary, 0, len(buckets))
	for name, b := range buckets {
		if members != nil {
			if _, ok := members[name]; !ok {
				continue
			}
		}
		if !Matches(name, filter.Search) {
			continue
		}
		out = append(out, r.summarize(name, key, b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Roller) summarize(name string, key model.CohortKey, b *bucket) model.CohortSummary {
	s := model.CohortSummary{
		Name:                name,
		InterviewsConducted: b.conducted,
		ScorecardsSubmitted: b.submitted,
	}
	if b.conducted == 0 {
		s.NoData = true
		return s
	}
	rate := CompletionRate(b.submitted, b.conducted)
	s.CompletionRate = &rate
	if b.scored > 0 {
		s.AverageScore = model.Float(b.scoreSum / float64(b.scored))
	}
	s.NeedsAttention = rate < r.completionThreshold
	if b.timed > 0 {
		avg := b.latency / time.Duration(b.timed)
		s.AvgSubmissionLatencyHours = model.Float(model.Round1(avg.Hours()))
		if key == model.KeyInterviewer && avg > r.latencyThreshold {
			s.NeedsAttention = true
		}
	}
	return s
}

// CompletionRate returns submitted/conducted as a percentage rounded to one
// decimal place. Callers must ensure conducted > 0.
func CompletionRate(submitted, conducted int) float64 {
	return model.Round1(float64(submitted) / float64(conducted) * 100)
}

// ScopeRecords keeps records whose department is in departments. An empty
// list keeps everything; records without a department are dropped once a
// scope is set.
func ScopeRecords(records []model.Record, departments []string) []model.Record {
	scope := model.Set(departments)
	if scope == nil {
		return records
	}
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := scope[rec.Department]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// Matches reports whether name contains search, ignoring case. An empty search
// matches everything.
func Matches(name, search string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

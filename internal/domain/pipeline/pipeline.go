// Package pipeline wires the scorecard stages into a single pure run:
// normalize, summarize, classify, score, select and roll up.
package pipeline

import (
	"fmt"

	"github.com/okian/scorecard/internal/domain/aggregate"
	"github.com/okian/scorecard/internal/domain/cohort"
	"github.com/okian/scorecard/internal/domain/decision"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/normalize"
	"github.com/okian/scorecard/internal/domain/quality"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithClassifier sets the decision classifier.
func WithClassifier(c *decision.Classifier) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.classifier = c
		}
	}
}

// WithScorer sets the quality-of-hire scorer.
func WithScorer(s *quality.Scorer) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.scorer = s
		}
	}
}

// WithRoller sets the cohort roller.
func WithRoller(r *cohort.Roller) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.roller = r
		}
	}
}

// Pipeline holds the configured stages. It has no mutable state, so one
// instance can serve concurrent runs.
type Pipeline struct {
	classifier *decision.Classifier
	scorer     *quality.Scorer
	roller     *cohort.Roller
}

// New builds a pipeline. Stages not supplied through options use defaults.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	var err error
	if p.classifier == nil {
		if p.classifier, err = decision.NewClassifier(); err != nil {
			return nil, err
		}
	}
	if p.scorer == nil {
		if p.scorer, err = quality.NewScorer(quality.DefaultWeights()); err != nil {
			return nil, err
		}
	}
	if p.roller == nil {
		if p.roller, err = cohort.New(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// PanelSize returns the classifier's panel size.
func (p *Pipeline) PanelSize() int { return p.classifier.PanelSize() }

// Run produces a report from raw rows. The same rows and query always yield
// the same report.
func (p *Pipeline) Run(rows []model.RawRecord, q model.Query) (model.Report, error) {
	status, err := model.ParseStatus(string(q.Candidates.Status))
	if err != nil {
		return model.Report{}, err
	}
	q.Candidates.Status = status

	norm := normalize.All(rows)
	records := norm.Records

	summaries := aggregate.Summarize(records)
	summaries = p.classifier.Apply(summaries)
	summaries = p.scorer.Apply(summaries)

	candidates := aggregate.Select(summaries, q.Candidates, p.classifier.PanelSize())

	departments, err := p.roller.Rollup(records, summaries, model.KeyDepartment, q.Departments)
	if err != nil {
		return model.Report{}, fmt.Errorf("department rollup: %w", err)
	}
	interviewers, err := p.roller.Rollup(records, summaries, model.KeyInterviewer, q.Interviewers)
	if err != nil {
		return model.Report{}, fmt.Errorf("interviewer rollup: %w", err)
	}

	return model.Report{
		Candidates:   candidates,
		Departments:  departments,
		Interviewers: interviewers,
		Reminders:    aggregate.Reminders(records, candidates),
		Ingest:       norm.Stats,
		Issues:       norm.Issues,
	}, nil
}

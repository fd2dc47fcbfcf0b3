// Package quality computes the weighted Quality-of-Hire composite.
package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/scorecard/internal/domain/model"
)

// Component names a QoH input.
type Component string

// Components, in summation order.
const (
	Interview         Component = "interview"
	Reference         Component = "reference"
	PerformanceReview Component = "performance_review"
	Promotion         Component = "promotion"
	Education         Component = "education"
	Interpersonal     Component = "interpersonal"
)

// Components lists every component in the fixed order used for summation.
var Components = []Component{Interview, Reference, PerformanceReview, Promotion, Education, Interpersonal}

const sumTolerance = 1e-9

// Weights maps every component to its share of the composite.
type Weights map[Component]float64

// DefaultWeights returns the stock weight set. Interpersonal carries 0.15 so
// that the table sums to exactly 1.
func DefaultWeights() Weights {
	return Weights{
		Interview:         0.20,
		Reference:         0.15,
		PerformanceReview: 0.25,
		Promotion:         0.15,
		Education:         0.10,
		Interpersonal:     0.15,
	}
}

// WeightsFromMap converts string keys, rejecting unknown component names.
func WeightsFromMap(m map[string]float64) (Weights, error) {
	known := make(map[Component]struct{}, len(Components))
	for _, c := range Components {
		known[c] = struct{}{}
	}
	w := make(Weights, len(m))
	var unknown []string
	for k, v := range m {
		c := Component(strings.ToLower(strings.TrimSpace(k)))
		if _, ok := known[c]; !ok {
			unknown = append(unknown, k)
			continue
		}
		w[c] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: unknown components %v", ErrInvalidWeights, unknown)
	}
	return w, nil
}

// Validate checks that every component is present, non-negative and that the
// weights sum to 1. Weights are never renormalized.
func (w Weights) Validate() error {
	sum := 0.0
	for _, c := range Components {
		v, ok := w[c]
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrInvalidWeights, c)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s weight %v", ErrInvalidWeights, c, v)
		}
		sum += v
	}
	if len(w) != len(Components) {
		return fmt.Errorf("%w: unexpected components", ErrInvalidWeights)
	}
	if math.Abs(sum-1) > sumTolerance {
		return fmt.Errorf("%w: weights sum to %.6f", ErrInvalidWeights, sum)
	}
	return nil
}

// Inputs are the per-candidate values on a 1-5 scale, nil when unknown.
type Inputs struct {
	Interview         *float64
	Reference         *float64
	PerformanceReview *float64
	Promoted          *bool
	Education         *float64
	Interpersonal     *float64
}

// InputsFor extracts scorer inputs from a candidate summary.
func InputsFor(s model.CandidateSummary) Inputs {
	return Inputs{
		Interview:         s.AverageScore,
		Reference:         s.Signals.ReferenceScore,
		PerformanceReview: s.Signals.PerformanceReview,
		Promoted:          s.Signals.Promoted,
		Education:         s.Signals.EducationScore,
		Interpersonal:     s.Signals.InterpersonalScore,
	}
}

// Scorer computes the QoH composite. It is immutable and safe for concurrent use.
type Scorer struct {
	weights     Weights
	promoted    float64
	notPromoted float64
}

// NewScorer validates w and builds a scorer.
func NewScorer(w Weights, opts ...Option) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{
		weights:     make(Weights, len(w)),
		promoted:    DefaultPromotedValue,
		notPromoted: DefaultNotPromotedValue,
	}
	for k, v := range w {
		s.weights[k] = v
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Score returns the weighted composite rounded to one decimal place, or nil
// when any component with a non-zero weight is missing.
func (s *Scorer) Score(in Inputs) *float64 {
	values := map[Component]*float64{
		Interview:         in.Interview,
		Reference:         in.Reference,
		PerformanceReview: in.PerformanceReview,
		Promotion:         s.promotion(in.Promoted),
		Education:         in.Education,
		Interpersonal:     in.Interpersonal,
	}
	total := 0.0
	for _, c := range Components {
		w := s.weights[c]
		if w == 0 {
			continue
		}
		v := values[c]
		if v == nil {
			return nil
		}
		total += w * *v
	}
	return model.Float(model.Round1(total))
}

// Apply returns a copy of summaries with QoH scores filled in.
func (s *Scorer) Apply(summaries []model.CandidateSummary) []model.CandidateSummary {
	out := make([]model.CandidateSummary, len(summaries))
	for i, c := range summaries {
		c.QoHScore = s.Score(InputsFor(c))
		out[i] = c
	}
	return out
}

func (s *Scorer) promotion(p *bool) *float64 {
	if p == nil {
		return nil
	}
	if *p {
		return model.Float(s.promoted)
	}
	return model.Float(s.notPromoted)
}

// Package decision maps candidate summaries onto hiring recommendations.
//
// Rules are evaluated in a fixed priority order and the first match wins:
//
//  1. WAITING when fewer than panel-size scorecards are submitted, or when
//     there is no average to judge.
//  2. AUTO_REJECT when the average is at or below the reject ceiling.
//  3. HM_REVIEW when the average is at or above the review floor.
//  4. NEEDS_DISCUSSION otherwise.
//
// The two-band profile replaces rules 2-4 with a single cutoff.
package decision

import (
	"fmt"

	"github.com/okian/scorecard/internal/domain/model"
)

// Profile names a rule set.
type Profile string

// Supported profiles.
const (
	ProfileThreeBand Profile = "three_band"
	ProfileTwoBand   Profile = "two_band"
)

// Defaults used when no option overrides them.
const (
	DefaultPanelSize = 4
	DefaultRejectMax = 3.4
	DefaultReviewMin = 3.5
	DefaultCutoff    = 4.0
)

// tolerance absorbs accumulated float error in averages such as 13.6/4.
const tolerance = 1e-9

// Classifier assigns decisions. It is immutable after construction and safe
// for concurrent use.
type Classifier struct {
	profile   Profile
	panelSize int
	rejectMax float64
	reviewMin float64
	cutoff    float64
}

// NewClassifier builds a classifier and validates its configuration.
func NewClassifier(opts ...Option) (*Classifier, error) {
	c := &Classifier{
		profile:   ProfileThreeBand,
		panelSize: DefaultPanelSize,
		rejectMax: DefaultRejectMax,
		reviewMin: DefaultReviewMin,
		cutoff:    DefaultCutoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Classifier) validate() error {
	if c.panelSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPanelSize, c.panelSize)
	}
	switch c.profile {
	case ProfileThreeBand:
		if c.rejectMax <= 0 || c.reviewMin <= 0 || c.rejectMax >= c.reviewMin {
			return fmt.Errorf("%w: reject max %.2f, review min %.2f", ErrInvalidBands, c.rejectMax, c.reviewMin)
		}
	case ProfileTwoBand:
		if c.cutoff <= 0 {
			return fmt.Errorf("%w: cutoff %.2f", ErrInvalidBands, c.cutoff)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProfile, c.profile)
	}
	return nil
}

// PanelSize returns the configured panel size.
func (c *Classifier) PanelSize() int { return c.panelSize }

// Profile returns the active profile.
func (c *Classifier) Profile() Profile { return c.profile }

// Classify returns the decision for s.
func (c *Classifier) Classify(s model.CandidateSummary) model.Decision {
	if s.SubmittedCount < c.panelSize || s.AverageScore == nil {
		return model.DecisionWaiting
	}
	avg := *s.AverageScore

	if c.profile == ProfileTwoBand {
		if avg < c.cutoff-tolerance {
			return model.DecisionAutoReject
		}
		return model.DecisionHMReview
	}

	switch {
	case avg <= c.rejectMax+tolerance:
		return model.DecisionAutoReject
	case avg >= c.reviewMin-tolerance:
		return model.DecisionHMReview
	default:
		return model.DecisionNeedsDiscussion
	}
}

// Apply returns a copy of summaries with decisions filled in.
func (c *Classifier) Apply(summaries []model.CandidateSummary) []model.CandidateSummary {
	out := make([]model.CandidateSummary, len(summaries))
	for i, s := range summaries {
		s.Decision = c.Classify(s)
		out[i] = s
	}
	return out
}

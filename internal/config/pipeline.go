package config

import (
	"github.com/okian/scorecard/internal/domain/cohort"
	"github.com/okian/scorecard/internal/domain/decision"
	"github.com/okian/scorecard/internal/domain/pipeline"
	"github.com/okian/scorecard/internal/domain/quality"
)

// Pipeline builds the scorecard pipeline described by c. Every stage validates
// its own settings, so this also serves as the policy check for Validate.
func (c *Config) Pipeline() (*pipeline.Pipeline, error) {
	classifier, err := decision.NewClassifier(
		decision.WithPanelSize(c.PanelSize),
		decision.WithBands(c.RejectMaxScore, c.ReviewMinScore),
		decision.WithProfile(decision.Profile(c.DecisionProfile)),
		decision.WithCutoff(c.TwoBandCutoff),
	)
	if err != nil {
		return nil, err
	}

	weights, err := quality.WeightsFromMap(c.QoHWeights)
	if err != nil {
		return nil, err
	}
	scorer, err := quality.NewScorer(weights, quality.WithPromotionValues(c.PromotedValue, c.NotPromotedValue))
	if err != nil {
		return nil, err
	}

	roller, err := cohort.New(
		cohort.WithCompletionThreshold(c.CompletionThreshold),
		cohort.WithLatencyThreshold(c.LatencyThreshold()),
	)
	if err != nil {
		return nil, err
	}

	return pipeline.New(
		pipeline.WithClassifier(classifier),
		pipeline.WithScorer(scorer),
		pipeline.WithRoller(roller),
	)
}

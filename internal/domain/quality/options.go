package quality

// Promotion indicator mapping onto the 1-5 scale.
const (
	DefaultPromotedValue    = 5.0
	DefaultNotPromotedValue = 1.0
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithPromotionValues sets the scale values used for promoted and
// not-promoted candidates.
func WithPromotionValues(promoted, notPromoted float64) Option {
	return func(s *Scorer) {
		s.promoted = promoted
		s.notPromoted = notPromoted
	}
}

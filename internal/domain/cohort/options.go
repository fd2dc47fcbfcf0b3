package cohort

import "time"

// Defaults for the needs-attention rule.
const (
	DefaultCompletionThreshold = 90.0
	DefaultLatencyThreshold    = 24 * time.Hour
)

// Option applies a configuration option to the Roller.
type Option func(*Roller)

// WithCompletionThreshold sets the completion percentage below which a cohort
// needs attention.
func WithCompletionThreshold(pct float64) Option {
	return func(r *Roller) {
		r.completionThreshold = pct
	}
}

// WithLatencyThreshold sets the average submission latency above which an
// interviewer needs attention.
func WithLatencyThreshold(d time.Duration) Option {
	return func(r *Roller) {
		r.latencyThreshold = d
	}
}

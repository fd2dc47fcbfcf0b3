// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Every policy value the scorecard core uses is configurable here; nothing
//   in the domain packages is hard-coded beyond its own defaults.
// - External errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"time"

	"github.com/okian/scorecard/internal/domain/cohort"
	"github.com/okian/scorecard/internal/domain/decision"
	"github.com/okian/scorecard/internal/domain/quality"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// MaxBodyBytes caps the size of a POST /reports body.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"gt=0"`

	// ReportCacheSize bounds how many generated reports are kept in memory.
	ReportCacheSize int `koanf:"report_cache_size" validate:"gt=0"`

	// RateLimitRPS and RateLimitBurst configure the per-client limiter.
	// A zero rate disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"gte=0"`

	// TrustedProxies are peer addresses allowed to name the client through
	// X-Forwarded-For. Without them the limiter keys on the socket address.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"dive,ip"`

	// WorkerCount sizes the pool that runs asynchronous report jobs.
	WorkerCount int `koanf:"worker_count" validate:"gt=0"`

	// QueueSize bounds the number of asynchronous jobs waiting for a worker.
	QueueSize int `koanf:"queue_size" validate:"gt=0"`

	// ShutdownTimeoutSeconds bounds graceful HTTP shutdown.
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds" validate:"gt=0"`

	// PanelSize is the expected number of interviews per candidate.
	PanelSize int `koanf:"panel_size" validate:"gt=0"`

	// RejectMaxScore and ReviewMinScore bound the three-band decision rule.
	RejectMaxScore float64 `koanf:"reject_max_score" validate:"gt=0"`
	ReviewMinScore float64 `koanf:"review_min_score" validate:"gt=0,gtfield=RejectMaxScore"`

	// DecisionProfile selects three_band or two_band.
	DecisionProfile string `koanf:"decision_profile" validate:"oneof=three_band two_band"`

	// TwoBandCutoff is the single cutoff used by the two_band profile.
	TwoBandCutoff float64 `koanf:"two_band_cutoff" validate:"gt=0"`

	// CompletionThreshold is the completion percentage below which a cohort
	// needs attention.
	CompletionThreshold float64 `koanf:"completion_threshold" validate:"gt=0,lte=100"`

	// LatencyThresholdHours is the average submission latency above which an
	// interviewer needs attention.
	LatencyThresholdHours float64 `koanf:"latency_threshold_hours" validate:"gt=0"`

	// QoHWeights maps quality-of-hire components to weights summing to 1.
	QoHWeights map[string]float64 `koanf:"qoh_weights" validate:"required"`

	// PromotedValue and NotPromotedValue place the promotion indicator on the
	// 1-5 scale.
	PromotedValue    float64 `koanf:"promoted_value" validate:"gt=0"`
	NotPromotedValue float64 `koanf:"not_promoted_value" validate:"gt=0"`
}

// New creates a Config with defaults. Context is accepted first to satisfy the
// project-wide convention.
func New(_ context.Context) *Config {
	weights := make(map[string]float64, len(quality.Components))
	for c, w := range quality.DefaultWeights() {
		weights[string(c)] = w
	}
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		MaxBodyBytes:           8 << 20,
		ReportCacheSize:        256,
		RateLimitRPS:           20,
		RateLimitBurst:         40,
		WorkerCount:            4,
		QueueSize:              64,
		ShutdownTimeoutSeconds: 10,
		PanelSize:              decision.DefaultPanelSize,
		RejectMaxScore:         decision.DefaultRejectMax,
		ReviewMinScore:         decision.DefaultReviewMin,
		DecisionProfile:        string(decision.ProfileThreeBand),
		TwoBandCutoff:          decision.DefaultCutoff,
		CompletionThreshold:    cohort.DefaultCompletionThreshold,
		LatencyThresholdHours:  cohort.DefaultLatencyThreshold.Hours(),
		QoHWeights:             weights,
		PromotedValue:          quality.DefaultPromotedValue,
		NotPromotedValue:       quality.DefaultNotPromotedValue,
	}
}

// LatencyThreshold returns LatencyThresholdHours as a duration.
func (c *Config) LatencyThreshold() time.Duration {
	return time.Duration(c.LatencyThresholdHours * float64(time.Hour))
}

// ShutdownTimeout returns ShutdownTimeoutSeconds as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/types"
	"github.com/okian/scorecard/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Generate runs the pipeline synchronously and stores the report.
	Generate(ctx context.Context, rows []model.RawRecord, q model.Query) (types.ReportEnvelope, error)

	// Submit queues rows for background generation. Returns the report id.
	Submit(ctx context.Context, rows []model.RawRecord, q model.Query) (string, error)

	// Read operations expose stored reports.
	Report(ctx context.Context, id string) (types.ReportEnvelope, error)
	Reminders(ctx context.Context, id string) ([]model.Reminder, error)
	List(ctx context.Context, limit int) ([]types.ReportInfo, error)
}

const (
	defaultMaxBodyBytes = 8 << 20
	defaultListLimit    = 20
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	reportsHandler *ReportsHandler

	rps     float64
	burst   int
	proxies []string
	logger  logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes caps the size of POST /reports bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.reportsHandler.maxBody = n
		}
	}
}

// WithRateLimit enables per-client rate limiting on POST /reports. A
// non-positive rate leaves limiting off.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.rps, s.burst = rps, burst
	}
}

// WithTrustedProxies lists peer addresses whose X-Forwarded-For and
// X-Real-IP headers identify the client for rate limiting.
func WithTrustedProxies(addrs ...string) Option {
	return func(s *Server) {
		s.proxies = append(s.proxies, addrs...)
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		reportsHandler: NewReportsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	s.reportsHandler.logger = s.logger
	return s
}

// Register attaches all HTTP routes to mux. The rate limiter's housekeeping
// stops when ctx ends.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	create := s.reportsHandler.HandleCreate
	if s.rps > 0 {
		create = NewRateLimiter(ctx, s.rps, s.burst, s.proxies...).Middleware(create, "reports")
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /reports", MetricsMiddleware(create, "reports"))
	mux.HandleFunc("GET /reports", MetricsMiddleware(s.reportsHandler.HandleList, "reports_list"))
	mux.HandleFunc("GET /reports/{id}", MetricsMiddleware(s.reportsHandler.HandleGet, "report"))
	mux.HandleFunc("GET /reports/{id}/reminders", MetricsMiddleware(s.reportsHandler.HandleReminders, "reminders"))
}

// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scorecard/internal/adapters/mq/queue"
	"github.com/okian/scorecard/internal/adapters/mq/worker"
	"github.com/okian/scorecard/internal/adapters/repository"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/pipeline"
	"github.com/okian/scorecard/internal/domain/types"
	"github.com/okian/scorecard/pkg/logger"
	"github.com/okian/scorecard/pkg/metrics"
)

// JobState is the lifecycle of an asynchronously submitted report.
type JobState string

// Job states. A finished job is dropped from tracking once its report is
// stored, so only pending and failed jobs are ever reported.
const (
	JobPending JobState = "pending"
	JobFailed  JobState = "failed"
)

type jobStatus struct {
	state JobState
	err   error
}

// Service generates, stores and serves scorecard reports.
type Service struct {
	mu sync.RWMutex

	// Core components
	pipeline *pipeline.Pipeline
	store    repository.Store
	queue    *queue.InMemoryQueue
	pool     *worker.Pool

	// Configuration
	workerCount int
	queueSize   int
	cacheSize   int

	// State
	started bool
	jobs    map[string]jobStatus
	failed  []string // failed job ids, oldest first
	now     func() time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPipeline sets the report pipeline. Without it the default policy is used.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(s *Service) {
		if p != nil {
			s.pipeline = p
		}
	}
}

// WithStore sets the report store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithWorkerCount sets the number of report workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of waiting report jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCacheSize sets how many reports the default store keeps.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for GeneratedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   64,
		cacheSize:   256,
		jobs:        make(map[string]jobStatus),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.pipeline == nil {
		p, err := pipeline.New()
		if err != nil {
			return fmt.Errorf("build pipeline: %w", err)
		}
		s.pipeline = p
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithCapacity(s.cacheSize))
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s)
	// Workers outlive ctx so Stop can drain what is already queued.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "scorecard service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("panelSize", s.pipeline.PanelSize()),
	)
	return nil
}

// Stop drains queued jobs and shuts the worker pool down.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	pool := s.pool
	s.mu.Unlock()

	s.logger.Info(ctx, "stopping scorecard service...")
	if err := pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop workers: %w", err)
	}
	s.logger.Info(ctx, "scorecard service stopped")
	return nil
}

func (s *Service) running() (*pipeline.Pipeline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipeline, s.started
}

// Generate runs the pipeline synchronously and stores the result.
func (s *Service) Generate(ctx context.Context, rows []model.RawRecord, q model.Query) (types.ReportEnvelope, error) {
	if _, ok := s.running(); !ok {
		return types.ReportEnvelope{}, ErrNotStarted
	}
	return s.generate(ctx, uuid.NewString(), rows, q)
}

func (s *Service) generate(ctx context.Context, id string, rows []model.RawRecord, q model.Query) (types.ReportEnvelope, error) {
	p, _ := s.running()

	start := time.Now()
	report, err := p.Run(rows, q)
	metrics.RecordPipelineDuration(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordReportError()
		metrics.RecordErrorByComponent("service", errorType(err))
		return types.ReportEnvelope{}, err
	}

	env := types.ReportEnvelope{
		ID:          id,
		GeneratedAt: s.now().UTC(),
		Query:       q,
		Report:      report,
	}
	if err := s.store.Put(ctx, env); err != nil {
		metrics.RecordReportError()
		metrics.RecordErrorByComponent("service", "store")
		return types.ReportEnvelope{}, fmt.Errorf("store report: %w", err)
	}

	recordReport(report)
	s.logger.Info(ctx, "report generated",
		logger.String("id", id),
		logger.Int("rows", report.Ingest.Rows),
		logger.Int("rejected", report.Ingest.Rejected),
		logger.Int("candidates", len(report.Candidates)),
		logger.Int("reminders", len(report.Reminders)),
		logger.Duration("took", time.Since(start)),
	)
	return env, nil
}

func recordReport(r model.Report) { //nolint:gocritic // hugeParam: read-only
	metrics.RecordReportGenerated()
	metrics.RecordIngest(r.Ingest.Rows, r.Ingest.Rejected, r.Ingest.MalformedFields)
	for i := range r.Candidates {
		metrics.RecordDecision(string(r.Candidates[i].Decision))
	}
	metrics.UpdateCohortsNeedingAttention(string(model.KeyDepartment), flagged(r.Departments))
	metrics.UpdateCohortsNeedingAttention(string(model.KeyInterviewer), flagged(r.Interviewers))
	metrics.UpdateRemindersPending(len(r.Reminders))
}

func flagged(rows []model.CohortSummary) int {
	n := 0
	for i := range rows {
		if rows[i].NeedsAttention {
			n++
		}
	}
	return n
}

func errorType(err error) string {
	if errors.Is(err, model.ErrInvalidStatus) {
		return "invalid_query"
	}
	return "pipeline"
}

// Submit queues rows for background generation and returns the report id.
// The query is validated up front so a bad filter fails the request rather
// than the job.
func (s *Service) Submit(ctx context.Context, rows []model.RawRecord, q model.Query) (string, error) {
	if _, ok := s.running(); !ok {
		return "", ErrNotStarted
	}
	if _, err := model.ParseStatus(string(q.Candidates.Status)); err != nil {
		return "", err
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.jobs[id] = jobStatus{state: JobPending}
	s.mu.Unlock()

	if !s.queue.Enqueue(ctx, queue.Job{ID: id, Rows: rows, Query: q, SubmittedAt: time.Now()}) {
		s.mu.Lock()
		delete(s.jobs, id)
		s.mu.Unlock()
		return "", ErrQueueFull
	}
	s.logger.Debug(ctx, "report job queued", logger.String("id", id), logger.Int("rows", len(rows)))
	return id, nil
}

// Process runs one queued job. It satisfies worker.Processor.
func (s *Service) Process(ctx context.Context, j queue.Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	_, err := s.generate(ctx, j.ID, j.Rows, j.Query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.jobs[j.ID] = jobStatus{state: JobFailed, err: err}
		s.failed = append(s.failed, j.ID)
		// Failed jobs are kept as long as reports are, then forgotten.
		for len(s.failed) > s.cacheSize {
			delete(s.jobs, s.failed[0])
			s.failed = s.failed[1:]
		}
		return err
	}
	delete(s.jobs, j.ID)
	return nil
}

// Report returns a stored report. A job that is still queued yields
// ErrReportPending and a failed job yields ErrReportFailed.
func (s *Service) Report(ctx context.Context, id string) (types.ReportEnvelope, error) {
	s.mu.RLock()
	st, tracked := s.jobs[id]
	s.mu.RUnlock()
	if tracked {
		switch st.state {
		case JobPending:
			return types.ReportEnvelope{}, ErrReportPending
		case JobFailed:
			return types.ReportEnvelope{}, fmt.Errorf("%w: %w", ErrReportFailed, st.err)
		}
	}
	if s.store == nil {
		return types.ReportEnvelope{}, ErrNotStarted
	}
	return s.store.Get(ctx, id)
}

// Reminders returns the outstanding scorecards of a stored report.
func (s *Service) Reminders(ctx context.Context, id string) ([]model.Reminder, error) {
	env, err := s.Report(ctx, id)
	if err != nil {
		return nil, err
	}
	return env.Report.Reminders, nil
}

// List returns up to limit stored reports, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]types.ReportInfo, error) {
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store.List(ctx, limit)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if s.started {
		pending, failed := 0, 0
		for _, st := range s.jobs {
			if st.state == JobPending {
				pending++
			} else {
				failed++
			}
		}
		stats["queueLength"] = s.queue.Len(ctx)
		stats["storedReports"] = s.store.Count(ctx)
		stats["pendingJobs"] = pending
		stats["failedJobs"] = failed
		stats["panelSize"] = s.pipeline.PanelSize()
	}
	return stats
}

// Package scheduler periodically drains the configured watch searches
// through the job service, which stores every hit in the job graph.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/wunderfrucht/jobsuche/internal/config"
	"github.com/wunderfrucht/jobsuche/internal/domain"
	"github.com/wunderfrucht/jobsuche/internal/domain/job"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
)

// Scheduler wraps robfig/cron and runs every watch query on each tick.
type Scheduler struct {
	cron     *cron.Cron
	service  job.Service
	queries  []config.WatchQuery
	maxItems int
	spec     string
	logger   *logging.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	initial sync.WaitGroup
}

// RunResult is the outcome of one watch query in a cycle.
type RunResult struct {
	Query     config.WatchQuery
	Jobs      int
	Limited   bool
	Truncated bool
	Err       error
}

// New creates a Scheduler for watch. Start must be called to begin ticking.
func New(service job.Service, watch config.Watch, logger *logging.Logger) *Scheduler {
	logger = logger.Named("scheduler")
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger{logger}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})),
		),
		service:  service,
		queries:  watch.Queries,
		maxItems: watch.MaxItems,
		spec:     watch.Schedule,
		logger:   logger,
	}
}

// Start registers the watch job and starts the cron loop. One cycle also
// runs immediately so the graph is populated without waiting for a tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.queries) == 0 {
		return fmt.Errorf("scheduler: no watch queries")
	}

	runCtx, cancel := context.WithCancel(ctx)
	id, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(runCtx) })
	if err != nil {
		cancel()
		return fmt.Errorf("scheduler: invalid schedule %q: %w", s.spec, err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("watch scheduler started", "schedule", s.spec, "queries", len(s.queries))

	// The first cycle goes through the wrapped job so it shares the
	// skip-if-running guard with the ticks.
	job := s.cron.Entry(id).WrappedJob
	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		job.Run()
	}()
	return nil
}

// RunOnce collects every watch query in order. A failing query is logged
// and does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) []RunResult {
	s.logger.Info("watch cycle started", "queries", len(s.queries))

	results := make([]RunResult, 0, len(s.queries))
	for _, q := range s.queries {
		if ctx.Err() != nil {
			break
		}

		params := domain.SearchParams{Title: q.Title, Location: q.Location}
		collected, err := s.service.Collect(ctx, params, s.maxItems)
		res := RunResult{
			Query:     q,
			Jobs:      len(collected.Jobs),
			Limited:   collected.Limited,
			Truncated: collected.Truncated,
			Err:       err,
		}
		results = append(results, res)

		if err != nil {
			s.logger.Warn("watch query failed", "query", q.String(), "jobs", res.Jobs, "err", err)
			continue
		}
		s.logger.Info("watch query done",
			"query", q.String(),
			"jobs", res.Jobs,
			"limited", res.Limited,
			"truncated", res.Truncated,
		)
	}

	s.logger.Info("watch cycle complete", "queries", len(results))
	return results
}

// Shutdown stops the cron loop, cancels a running cycle and waits for it
// to return or for ctx to expire.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	stopped := s.cron.Stop()
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-stopped.Done()
		s.initial.Wait()
	}()

	select {
	case <-done:
		s.logger.Info("watch scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler: shutdown: %w", ctx.Err())
	}
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	log *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "err", err)...)
}

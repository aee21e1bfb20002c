// Package jobs runs the background maintenance of the lead capture API on
// robfig/cron schedules.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/doorline/leadcapture-api/internal/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a job run when no timeout is configured
const DefaultTimeout = 5 * time.Minute

// Job is a unit of scheduled work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler manages background jobs using cron scheduling.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	timeout time.Duration
	mu      sync.Mutex
	jobs    map[string]cron.EntryID
}

// NewScheduler creates a new job scheduler. Each run gets its own context
// bounded by timeout.
func NewScheduler(logger *zap.Logger, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		logger:  logger,
		timeout: timeout,
		jobs:    make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler. Jobs added before this call will begin running.
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler", zap.Strings("jobs", s.JobNames()))
	s.cron.Start()
}

// Stop stops the scheduler. The returned context is done once running jobs
// have completed.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob schedules job under cronExpr. The expression takes a leading
// seconds field:
//   - "0 */10 * * * *" - every ten minutes
//   - "0 0 2 * * *"    - daily at 02:00
//   - "@every 1h"      - every hour
func (s *Scheduler) AddJob(cronExpr string, job Job) error {
	name := job.Name()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		_ = s.RunNow(context.Background(), job)
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("added scheduled job",
		zap.String("job_name", name),
		zap.String("cron_expr", cronExpr))

	return nil
}

// RunNow runs job once with the scheduler timeout and records the outcome
func (s *Scheduler) RunNow(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	name := job.Name()
	start := time.Now()
	s.logger.Debug("running scheduled job", zap.String("job_name", name))

	err := job.Run(ctx)
	metrics.RecordJob(name, err)

	if err != nil {
		s.logger.Error("scheduled job failed",
			zap.String("job_name", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return err
	}
	s.logger.Debug("completed scheduled job",
		zap.String("job_name", name),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// RemoveJob removes a job by name.
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.cron.Remove(entryID)
	delete(s.jobs, name)

	s.logger.Info("removed scheduled job",
		zap.String("job_name", name))

	return nil
}

// JobNames returns the names of all registered jobs in sorted order.
func (s *Scheduler) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package scheduler runs a job, such as the release gate, on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/efinstitute/sitegate/internal/logging"
)

// Parser accepts standard five-field specs, an optional leading seconds
// field, and descriptors like @hourly or @every 10m.
var Parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Job is one scheduled run.
type Job func(ctx context.Context) error

// Scheduler runs a single job on a schedule. Runs never overlap: a tick that
// fires while the previous run is still going is skipped.
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	job      Job
	logger   *zap.Logger
	cron     *cron.Cron
}

// New parses spec and returns a Scheduler for job.
func New(spec string, job Job, logger *zap.Logger) (*Scheduler, error) {
	schedule, err := Parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	logger = logging.OrNop(logger)
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		spec:     spec,
		schedule: schedule,
		job:      job,
		logger:   logger,
		// Prevent overlapping runs
		cron: cron.New(cron.WithParser(Parser), cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
	}, nil
}

// Next returns the first activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Start runs the schedule until ctx is cancelled, then waits for a run in
// progress to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled run failed", zap.Error(err))
		}
	}))

	s.logger.Info("scheduler started", zap.String("schedule", s.spec), zap.Time("next", s.Next(time.Now())))
	s.cron.Start()

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// RunOnce runs the job immediately.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	started := time.Now()
	s.logger.Debug("scheduled run starting")
	if err := s.job(ctx); err != nil {
		return fmt.Errorf("run failed after %s: %w", time.Since(started).Round(time.Millisecond), err)
	}
	s.logger.Debug("scheduled run finished", zap.Duration("duration", time.Since(started)))
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Package jobs runs the portal's periodic maintenance on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"time"

	"sms-portal/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 5 * time.Minute

// Runner is the work the scheduler triggers. *service.Service implements it.
type Runner interface {
	DeactivateLapsed(ctx context.Context) (int64, error)
	SendPendingReminders(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	logger *zap.Logger
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

// New registers the lapse and reminder jobs. An empty spec disables that job.
func New(conf config.Cron, runner Runner, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{s: logger.Sugar()}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		runner: runner,
		logger: logger,
	}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"deactivate-lapsed", conf.Lapse, s.deactivateLapsed},
		{"pending-reminders", conf.Reminders, s.sendReminders},
	}
	for _, j := range jobs {
		if j.spec == "" {
			logger.Info("Cron job disabled", zap.String("job", j.name))
			continue
		}
		j := j
		if _, err := s.cron.AddFunc(j.spec, func() { s.run(j.name, j.run) }); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", j.name, j.spec, err)
		}
		logger.Info("Cron job scheduled", zap.String("job", j.name), zap.String("spec", j.spec))
	}
	return s, nil
}

func (s *Scheduler) run(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		s.logger.Error("Cron job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Info("Cron job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
}

func (s *Scheduler) deactivateLapsed(ctx context.Context) error {
	n, err := s.runner.DeactivateLapsed(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("Lapsed societies deactivated", zap.Int64("count", n))
	return nil
}

func (s *Scheduler) sendReminders(ctx context.Context) error {
	n, err := s.runner.SendPendingReminders(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("Pending approval reminders sent", zap.Int("digests", n))
	return nil
}

// Jobs reports how many jobs are scheduled
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

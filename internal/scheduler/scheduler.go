// Package scheduler runs the recurring funds credits on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/cache"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/services"
	"edustaff-backend/internal/timeutil"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner executes one credit job.
type Runner interface {
	Run(ctx context.Context, job string, now time.Time) (*models.CreditRunReport, error)
}

// Locker serialises runs of the same job and period across replicas.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error)
}

// Options configure the cron entries. Timezone only decides when the crons
// fire; credit periods and their lock keys always follow the IST calendar
// the guard rows use.
type Options struct {
	Timezone          string
	DailyBonusCron    string
	MonthlySalaryCron string
	LockTTL           time.Duration
}

type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	locker  Locker
	lockTTL time.Duration
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

func New(runner Runner, locker Locker, opts Options, logger *zap.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", opts.Timezone, err)
	}
	ttl := opts.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		runner:  runner,
		locker:  locker,
		lockTTL: ttl,
		loc:     loc,
		logger:  logger.With(zap.String("component", "scheduler")),
		now:     time.Now,
	}

	if loc.String() != timeutil.IST.String() {
		s.logger.Warn("scheduler timezone differs from the IST credit calendar",
			zap.String("timezone", loc.String()))
	}

	jobs := []struct{ name, spec string }{
		{services.JobDailyBonus, opts.DailyBonusCron},
		{services.JobMonthlySalary, opts.MonthlySalaryCron},
	}
	for _, j := range jobs {
		job := j.name
		if _, err := s.cron.AddFunc(j.spec, func() { s.fire(job) }); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", job, j.spec, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("job scheduled", zap.Time("next", e.Next))
	}
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) fire(job string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.lockTTL)
	defer cancel()

	if _, err := s.RunNow(ctx, job); err != nil {
		if apperr.Is(err, apperr.Conflict) {
			s.logger.Info("job already running elsewhere", zap.String("job", job))
			return
		}
		s.logger.Error("scheduled job failed", zap.String("job", job), zap.Error(err))
	}
}

// RunNow runs job immediately under the (job, period) lock. A run already
// holding the lock yields a Conflict error.
func (s *Scheduler) RunNow(ctx context.Context, job string) (*models.CreditRunReport, error) {
	if job != services.JobDailyBonus && job != services.JobMonthlySalary {
		return nil, apperr.NotFoundf("unknown job %q", job)
	}
	now := s.now().In(s.loc)
	key := fmt.Sprintf(cache.JobLockKeyFmt, job, services.Period(job, now))

	release, ok, err := s.locker.TryLock(ctx, key, s.lockTTL)
	if err != nil {
		s.logger.Warn("lock unavailable, running unlocked", zap.String("key", key), zap.Error(err))
		release, ok = func() {}, true
	}
	if !ok {
		return nil, apperr.Conflictf("%s is already running for %s", job, services.Period(job, now))
	}
	defer release()

	return s.runner.Run(ctx, job, now)
}

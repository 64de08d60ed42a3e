package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/services"

	"go.uber.org/zap"
)

type stubRunner struct {
	mu   sync.Mutex
	runs []string
}

func (r *stubRunner) Run(ctx context.Context, job string, now time.Time) (*models.CreditRunReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, job)
	return &models.CreditRunReport{Job: job, Period: services.Period(job, now)}, nil
}

type mapLocker struct {
	mu   sync.Mutex
	held map[string]bool
	keys []string
	err  error
}

func (l *mapLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, false, l.err
	}
	l.keys = append(l.keys, key)
	if l.held[key] {
		return nil, false, nil
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, true, nil
}

func newTestScheduler(t *testing.T, runner Runner, locker Locker) *Scheduler {
	t.Helper()
	s, err := New(runner, locker, Options{
		Timezone:          "Asia/Kolkata",
		DailyBonusCron:    "0 4 * * *",
		MonthlySalaryCron: "30 4 * * *",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.now = func() time.Time { return time.Date(2025, 6, 14, 23, 30, 0, 0, time.UTC) } // 15 Jun 05:00 IST
	return s
}

func TestRunNowUsesPeriodLock(t *testing.T) {
	runner := &stubRunner{}
	locker := &mapLocker{held: map[string]bool{}}
	s := newTestScheduler(t, runner, locker)

	rep, err := s.RunNow(context.Background(), services.JobMonthlySalary)
	if err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if rep.Period != "2025-06" {
		t.Errorf("period = %s, want 2025-06", rep.Period)
	}
	if len(locker.keys) != 1 || locker.keys[0] != "edustaff:lock:monthly-salary:2025-06" {
		t.Errorf("lock keys = %v", locker.keys)
	}
	if len(locker.held) != 0 {
		t.Errorf("lock not released")
	}

	if _, err := s.RunNow(context.Background(), services.JobDailyBonus); err != nil {
		t.Fatalf("RunNow daily: %v", err)
	}
	if locker.keys[1] != "edustaff:lock:daily-bonus:2025-06-15" {
		t.Errorf("daily key = %s", locker.keys[1])
	}
}

func TestRunNowPeriodFollowsISTCalendar(t *testing.T) {
	runner := &stubRunner{}
	locker := &mapLocker{held: map[string]bool{}}
	s, err := New(runner, locker, Options{
		Timezone:          "UTC",
		DailyBonusCron:    "0 22 * * *",
		MonthlySalaryCron: "0 23 * * *",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// 30 Jun 20:00 UTC is already 1 Jul 01:30 in IST.
	s.now = func() time.Time { return time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC) }

	for _, job := range []string{services.JobDailyBonus, services.JobMonthlySalary} {
		if _, err := s.RunNow(context.Background(), job); err != nil {
			t.Fatalf("RunNow %s: %v", job, err)
		}
	}
	want := []string{"edustaff:lock:daily-bonus:2025-07-01", "edustaff:lock:monthly-salary:2025-07"}
	if len(locker.keys) != 2 || locker.keys[0] != want[0] || locker.keys[1] != want[1] {
		t.Errorf("lock keys = %v, want %v", locker.keys, want)
	}
}

func TestRunNowConflictsWhileHeld(t *testing.T) {
	runner := &stubRunner{}
	locker := &mapLocker{held: map[string]bool{"edustaff:lock:daily-bonus:2025-06-15": true}}
	s := newTestScheduler(t, runner, locker)

	_, err := s.RunNow(context.Background(), services.JobDailyBonus)
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("err = %v, want conflict", err)
	}
	if len(runner.runs) != 0 {
		t.Errorf("job ran despite held lock")
	}
}

func TestRunNowWithoutLockBackend(t *testing.T) {
	runner := &stubRunner{}
	s := newTestScheduler(t, runner, &mapLocker{err: errors.New("redis down")})

	if _, err := s.RunNow(context.Background(), services.JobDailyBonus); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if len(runner.runs) != 1 {
		t.Errorf("runs = %v", runner.runs)
	}
}

func TestRunNowUnknownJob(t *testing.T) {
	s := newTestScheduler(t, &stubRunner{}, &mapLocker{held: map[string]bool{}})
	if _, err := s.RunNow(context.Background(), "payroll"); apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := New(&stubRunner{}, &mapLocker{}, Options{Timezone: "Asia/Kolkata", DailyBonusCron: "every day", MonthlySalaryCron: "30 4 * * *"}, zap.NewNop())
	if err == nil {
		t.Fatal("expected an error for an invalid cron spec")
	}
	if _, err := New(&stubRunner{}, &mapLocker{}, Options{Timezone: "Mars/Olympus"}, zap.NewNop()); err == nil {
		t.Fatal("expected an error for an unknown timezone")
	}
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(t, &stubRunner{}, &mapLocker{held: map[string]bool{}})
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

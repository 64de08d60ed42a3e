package services

import (
	"context"
	"time"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/metrics"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/timeutil"

	"go.uber.org/zap"
)

const (
	JobDailyBonus    = "daily-bonus"
	JobMonthlySalary = "monthly-salary"
)

// CreditPlan is the scheduled credit configuration.
type CreditPlan struct {
	DailyBonusAmount     int64
	DailyBonusIdempotent bool
	MonthlySalaryAmount  int64
}

// CreditService pays the recurring daily bonus and monthly salary. Each
// employee is credited in its own transaction; one failure does not stop
// the batch.
type CreditService struct {
	Employees EmployeeStore
	Credits   CreditStore
	Plan      CreditPlan

	logger *zap.Logger
}

func NewCreditService(employees EmployeeStore, credits CreditStore, plan CreditPlan, logger *zap.Logger) *CreditService {
	return &CreditService{
		Employees: employees,
		Credits:   credits,
		Plan:      plan,
		logger:    logger.With(zap.String("component", "credits")),
	}
}

// Period names the idempotency period of job at now. Periods follow the
// organisation's IST calendar, the same one the guard rows are keyed on,
// whatever timezone the scheduler fires in.
func Period(job string, now time.Time) string {
	now = timeutil.ToIST(now)
	if job == JobMonthlySalary {
		return now.Format("2006-01")
	}
	return now.Format(timeutil.DateLayout)
}

// RunDailyBonus credits every employee, whatever the role, for today.
func (s *CreditService) RunDailyBonus(ctx context.Context, now time.Time) (*models.CreditRunReport, error) {
	day := timeutil.StartOfDay(timeutil.ToIST(now))
	return s.run(ctx, JobDailyBonus, now, hierarchy.EmployeeRoles,
		func(ctx context.Context, id string) (bool, error) {
			return s.Credits.CreditBonus(ctx, id, s.Plan.DailyBonusAmount, day, s.Plan.DailyBonusIdempotent)
		})
}

// RunMonthlySalary credits every home-teacher once for the current month.
func (s *CreditService) RunMonthlySalary(ctx context.Context, now time.Time) (*models.CreditRunReport, error) {
	month := timeutil.StartOfMonth(timeutil.ToIST(now))
	return s.run(ctx, JobMonthlySalary, now, []hierarchy.Role{hierarchy.HomeTeacher},
		func(ctx context.Context, id string) (bool, error) {
			return s.Credits.CreditSalary(ctx, id, s.Plan.MonthlySalaryAmount, month)
		})
}

// Run dispatches by job name.
func (s *CreditService) Run(ctx context.Context, job string, now time.Time) (*models.CreditRunReport, error) {
	switch job {
	case JobDailyBonus:
		return s.RunDailyBonus(ctx, now)
	case JobMonthlySalary:
		return s.RunMonthlySalary(ctx, now)
	}
	return nil, apperr.NotFoundf("unknown job %q", job)
}

func (s *CreditService) run(ctx context.Context, job string, now time.Time, roles []hierarchy.Role, credit func(context.Context, string) (bool, error)) (*models.CreditRunReport, error) {
	report := &models.CreditRunReport{
		Job:     job,
		Period:  Period(job, now),
		Started: time.Now(),
	}
	defer func() {
		metrics.ScheduledRunDuration.WithLabelValues(job).Observe(time.Since(report.Started).Seconds())
	}()

	ids, err := s.Employees.ListIDsByRole(ctx, roles...)
	if err != nil {
		s.logger.Error("list eligible employees failed", zap.String("job", job), zap.Error(err))
		return nil, err
	}
	report.Eligible = len(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("credit run interrupted", zap.String("job", job), zap.Int("remaining", report.Eligible-report.Credited-report.Skipped-report.Failed))
			report.Finished = time.Now()
			return report, err
		}

		ok, err := credit(ctx, id)
		switch {
		case err != nil:
			report.Failed++
			metrics.ScheduledCreditsTotal.WithLabelValues(job, "failed").Inc()
			s.logger.Error("credit failed",
				zap.String("job", job),
				zap.String("employee_id", id),
				zap.Error(err),
			)
		case ok:
			report.Credited++
			metrics.ScheduledCreditsTotal.WithLabelValues(job, "credited").Inc()
		default:
			report.Skipped++
			metrics.ScheduledCreditsTotal.WithLabelValues(job, "skipped").Inc()
		}
	}

	report.Finished = time.Now()
	s.logger.Info("credit run finished",
		zap.String("job", job),
		zap.String("period", report.Period),
		zap.Int("eligible", report.Eligible),
		zap.Int("credited", report.Credited),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"edustaff-backend/internal/models"
	"edustaff-backend/internal/timeutil"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CreditRepository writes scheduled credits. Each credit is its own
// transaction guarded by a per-period log row.
type CreditRepository struct {
	DB *pgxpool.Pool
}

func NewCreditRepository(db *pgxpool.Pool) *CreditRepository {
	return &CreditRepository{DB: db}
}

// CreditSalary pays amount to empID for the month containing month, unless
// that month was already paid. It reports whether a credit happened.
func (r *CreditRepository) CreditSalary(ctx context.Context, empID string, amount int64, month time.Time) (bool, error) {
	salaryMonth := timeutil.StartOfMonth(month)

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO salary_credit_log (emp_id, salary_amount, salary_month, status)
		VALUES ($1, $2, $3, 'credited')
		ON CONFLICT (emp_id, salary_month) DO NOTHING
	`, empID, amount, salaryMonth)
	if err != nil {
		return false, fmt.Errorf("failed to insert salary log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	ref := salaryMonth.Format(timeutil.DateLayout)
	if _, err := applyFundsMove(ctx, tx, fundsMove{
		EmployeeID:    empID,
		Amount:        amount,
		EntryType:     models.LedgerEntryMonthlySalary,
		ReferenceID:   &ref,
		ReferenceType: "salary",
	}); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// CreditBonus pays amount to empID for day. With guarded set, a second
// credit for the same day is skipped; without it every call pays.
func (r *CreditRepository) CreditBonus(ctx context.Context, empID string, amount int64, day time.Time, guarded bool) (bool, error) {
	bonusDate := timeutil.StartOfDay(day)

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if guarded {
		tag, err := tx.Exec(ctx, `
			INSERT INTO bonus_credit_log (emp_id, bonus_amount, bonus_date)
			VALUES ($1, $2, $3)
			ON CONFLICT (emp_id, bonus_date) DO NOTHING
		`, empID, amount, bonusDate)
		if err != nil {
			return false, fmt.Errorf("failed to insert bonus log: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return false, nil
		}
	}

	ref := bonusDate.Format(timeutil.DateLayout)
	if _, err := applyFundsMove(ctx, tx, fundsMove{
		EmployeeID:    empID,
		Amount:        amount,
		EntryType:     models.LedgerEntryDailyBonus,
		ReferenceID:   &ref,
		ReferenceType: "bonus",
	}); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// GetSalaryCredit returns the salary log row for empID's month.
func (r *CreditRepository) GetSalaryCredit(ctx context.Context, empID string, month time.Time) (*models.SalaryCredit, error) {
	var c models.SalaryCredit
	err := r.DB.QueryRow(ctx, `
		SELECT emp_id, salary_amount, salary_month, credited_at, status
		FROM salary_credit_log
		WHERE emp_id = $1 AND salary_month = $2
	`, empID, timeutil.StartOfMonth(month)).Scan(&c.EmployeeID, &c.Amount, &c.SalaryMonth, &c.CreditedAt, &c.Status)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// CountSalaryCredits counts salary log rows for empID's month.
func (r *CreditRepository) CountSalaryCredits(ctx context.Context, empID string, month time.Time) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM salary_credit_log WHERE emp_id = $1 AND salary_month = $2
	`, empID, timeutil.StartOfMonth(month)).Scan(&n)
	return n, err
}

package repositories

import (
	"context"

	"edustaff-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SalarySlipRepository struct {
	DB *pgxpool.Pool
}

func NewSalarySlipRepository(db *pgxpool.Pool) *SalarySlipRepository {
	return &SalarySlipRepository{DB: db}
}

// Upsert records a slip generation. Regenerating a period only refreshes
// generated_at.
func (r *SalarySlipRepository) Upsert(ctx context.Context, employeeID string, month, year int) (*models.SalarySlipRecord, error) {
	rec := &models.SalarySlipRecord{EmployeeID: employeeID, Month: month, Year: year}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO salary_slip_history (employee_id, month, year)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, month, year)
		DO UPDATE SET generated_at = NOW()
		RETURNING id, generated_at, created_at
	`, employeeID, month, year).Scan(&rec.ID, &rec.GeneratedAt, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecent returns the employee's latest slips by period.
func (r *SalarySlipRepository) ListRecent(ctx context.Context, employeeID string, limit int) ([]models.SalarySlipRecord, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, employee_id, month, year, generated_at, created_at
		FROM salary_slip_history
		WHERE employee_id = $1
		ORDER BY year DESC, month DESC
		LIMIT $2
	`, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SalarySlipRecord{}
	for rows.Next() {
		var s models.SalarySlipRecord
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.Month, &s.Year, &s.GeneratedAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

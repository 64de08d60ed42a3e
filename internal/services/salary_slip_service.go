package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/repositories"
	"edustaff-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const (
	slipHistoryLimit = 12
	slipYearsBack    = 5
)

// SalarySlipService issues monthly salary slips to home-teachers.
type SalarySlipService struct {
	Employees     EmployeeStore
	Slips         SalarySlipStore
	Credits       CreditStore
	Archive       Archiver // optional
	MonthlySalary int64

	logger *zap.Logger
	now    func() time.Time
}

func NewSalarySlipService(employees EmployeeStore, slips SalarySlipStore, credits CreditStore, archive Archiver, monthlySalary int64, logger *zap.Logger) *SalarySlipService {
	return &SalarySlipService{
		Employees:     employees,
		Slips:         slips,
		Credits:       credits,
		Archive:       archive,
		MonthlySalary: monthlySalary,
		logger:        logger.With(zap.String("component", "salary_slips")),
		now:           timeutil.Now,
	}
}

func notHomeTeacher() *models.SalarySlip {
	return &models.SalarySlip{Status: models.StatusBad, Message: "salary slips are issued to home-teachers only"}
}

// Generate records and returns the slip for req's period.
func (s *SalarySlipService) Generate(ctx context.Context, actor hierarchy.Actor, req *models.SalarySlipRequest) (*models.SalarySlip, error) {
	if actor.Role != hierarchy.HomeTeacher {
		return notHomeTeacher(), nil
	}

	emp, err := s.Employees.Get(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFoundf("employee %s not found", actor.ID)
		}
		return nil, apperr.Storage(err, "load employee")
	}
	if emp.Role != hierarchy.HomeTeacher {
		return notHomeTeacher(), nil
	}

	if err := s.validatePeriod(emp, req.Month, req.Year); err != nil {
		return nil, err
	}

	rec, err := s.Slips.Upsert(ctx, emp.ID, req.Month, req.Year)
	if err != nil {
		return nil, apperr.Storage(err, "record salary slip")
	}

	period := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, timeutil.IST)
	slip := &models.SalarySlip{
		Status:        models.StatusGood,
		EmployeeID:    emp.ID,
		Name:          emp.Name,
		Email:         emp.Email,
		Phone:         emp.Phone,
		Month:         req.Month,
		Year:          req.Year,
		Period:        period.Format(timeutil.MonthLayout),
		MonthlySalary: s.MonthlySalary,
		JoinedAt:      emp.CreatedAt,
		GeneratedAt:   rec.GeneratedAt,
	}

	if emp.ManagerID != nil {
		if mgr, err := s.Employees.Get(ctx, *emp.ManagerID); err == nil {
			slip.ManagerName = mgr.Name
		}
	}

	credit, err := s.Credits.GetSalaryCredit(ctx, emp.ID, period)
	switch {
	case err == nil:
		slip.Credited = credit.Amount
		at := credit.CreditedAt
		slip.CreditedAt = &at
	case errors.Is(err, repositories.ErrNotFound):
	default:
		return nil, apperr.Storage(err, "load salary credit")
	}
	return slip, nil
}

// validatePeriod accepts months between the joining month and now, going
// back at most slipYearsBack years.
func (s *SalarySlipService) validatePeriod(emp *models.Employee, month, year int) error {
	if month < 1 || month > 12 {
		return apperr.Validationf("month must be between 1 and 12")
	}
	now := timeutil.ToIST(s.now())
	if year < now.Year()-slipYearsBack || year > now.Year() {
		return apperr.Validationf("year must be between %d and %d", now.Year()-slipYearsBack, now.Year())
	}

	period := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timeutil.IST)
	if period.After(timeutil.StartOfMonth(now)) {
		return apperr.Validationf("%s is in the future", period.Format(timeutil.MonthLayout))
	}
	if !emp.CreatedAt.IsZero() && period.Before(timeutil.StartOfMonth(timeutil.ToIST(emp.CreatedAt))) {
		return apperr.Validationf("%s is before the joining month", period.Format(timeutil.MonthLayout))
	}
	return nil
}

// Recent lists the caller's latest slips.
func (s *SalarySlipService) Recent(ctx context.Context, actor hierarchy.Actor) (*models.SalarySlipList, error) {
	if actor.Role != hierarchy.HomeTeacher {
		return &models.SalarySlipList{Status: models.StatusBad, Message: notHomeTeacher().Message, Slips: []models.SalarySlipRecord{}}, nil
	}
	recs, err := s.Slips.ListRecent(ctx, actor.ID, slipHistoryLimit)
	if err != nil {
		return nil, apperr.Storage(err, "list salary slips")
	}
	return &models.SalarySlipList{Status: models.StatusGood, Slips: recs}, nil
}

// ArchiveKey is where a slip PDF is stored.
func ArchiveKey(employeeID string, year, month int) string {
	return fmt.Sprintf("salary-slips/%s/%d-%02d.pdf", employeeID, year, month)
}

// PDF generates the slip and renders it. When an archive is configured the
// document is uploaded too; an upload failure is logged and not returned.
func (s *SalarySlipService) PDF(ctx context.Context, actor hierarchy.Actor, year, month int) ([]byte, *models.SalarySlip, error) {
	slip, err := s.Generate(ctx, actor, &models.SalarySlipRequest{Month: month, Year: year})
	if err != nil {
		return nil, nil, err
	}
	if slip.Status != models.StatusGood {
		return nil, slip, nil
	}

	body, err := RenderSalarySlipPDF(slip)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, err, "render salary slip")
	}

	if s.Archive != nil {
		key := ArchiveKey(slip.EmployeeID, year, month)
		if err := s.Archive.Put(ctx, key, body, "application/pdf"); err != nil {
			s.logger.Warn("archive salary slip failed", zap.String("key", key), zap.Error(err))
		} else {
			slip.ArchiveKey = key
		}
	}
	return body, slip, nil
}

// RenderSalarySlipPDF lays out one slip on an A4 page.
func RenderSalarySlipPDF(slip *models.SalarySlip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Salary Slip", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(190, 6, slip.Period, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Employee", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("ID: %s", slip.EmployeeID), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", slip.Name), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Email: %s", slip.Email), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", slip.Phone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Field Manager: %s", slip.ManagerName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Joined: %s", timeutil.ToIST(slip.JoinedAt).Format("02-Jan-2006")), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Earnings", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(95, 7, "Monthly Salary", "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 7, "Credited", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 8, fmt.Sprintf("Rs. %d", slip.MonthlySalary), "1", 0, "C", false, 0, "")
	pdf.CellFormat(95, 8, fmt.Sprintf("Rs. %d", slip.Credited), "1", 1, "C", false, 0, "")

	status := "Not yet credited"
	if slip.CreditedAt != nil {
		status = "Credited on " + timeutil.ToIST(*slip.CreditedAt).Format(timeutil.DisplayLayout)
	}
	pdf.Ln(3)
	pdf.CellFormat(190, 7, status, "", 1, "L", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.ToIST(slip.GeneratedAt).Format(timeutil.DisplayLayout)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

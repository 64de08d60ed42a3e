package services

import (
	"context"
	"errors"
	"time"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/repositories"
	"edustaff-backend/internal/timeutil"
)

// ReportService serves date-bounded, role-scoped history over transfers
// and commissions. Summaries are computed over the scoped rows only.
type ReportService struct {
	Ledger      LedgerStore
	Commissions CommissionStore
	Employees   EmployeeStore

	TransferRule   RangeRule
	CommissionRule RangeRule

	now func() time.Time
}

func NewReportService(ledger LedgerStore, commissions CommissionStore, employees EmployeeStore, transferRule, commissionRule RangeRule) *ReportService {
	return &ReportService{
		Ledger:         ledger,
		Commissions:    commissions,
		Employees:      employees,
		TransferRule:   transferRule,
		CommissionRule: commissionRule,
		now:            timeutil.Now,
	}
}

func (s *ReportService) TransferHistory(ctx context.Context, actor hierarchy.Actor, req *models.HistoryRequest) (*models.TransferHistory, error) {
	r, err := ResolveRange(req.StartDate, req.EndDate, s.now(), s.TransferRule)
	if err != nil {
		return nil, err
	}

	out := &models.TransferHistory{
		Status:    models.StatusGood,
		Transfers: []models.FundsTransfer{},
		Summary:   models.TransferSummary{DateRange: r},
	}

	from, to := window(r)
	filter := repositories.TransferFilter{From: from, To: to}
	switch actor.Role {
	case hierarchy.Admin, hierarchy.Branch:
	case hierarchy.Manager:
		id := actor.ID
		filter.Participant = &id
	default:
		return out, nil
	}

	rows, err := s.Ledger.ListTransfers(ctx, filter)
	if err != nil {
		return nil, apperr.Storage(err, "list transfers")
	}
	out.Transfers = rows
	out.Summary = SummarizeTransfers(rows, actor.ID, r)
	return out, nil
}

// SummarizeTransfers totals rows from viewerID's point of view.
func SummarizeTransfers(rows []models.FundsTransfer, viewerID string, r models.DateRange) models.TransferSummary {
	sum := models.TransferSummary{Count: len(rows), DateRange: r}
	for _, t := range rows {
		sum.TotalAmount += t.Amount
		if t.ReceiverID == viewerID {
			sum.TotalReceived += t.Amount
		}
		if t.SenderID != nil && *t.SenderID == viewerID {
			sum.TotalSent += t.Amount
		}
	}
	return sum
}

func (s *ReportService) CommissionHistory(ctx context.Context, actor hierarchy.Actor, req *models.HistoryRequest) (*models.CommissionHistory, error) {
	r, err := ResolveRange(req.StartDate, req.EndDate, s.now(), s.CommissionRule)
	if err != nil {
		return nil, err
	}

	out := &models.CommissionHistory{
		Status:      models.StatusGood,
		Commissions: []models.Commission{},
		Summary:     models.CommissionSummary{DateRange: r},
	}

	from, to := window(r)
	filter := repositories.CommissionFilter{From: from, To: to}
	id := actor.ID
	switch actor.Role {
	case hierarchy.Admin, hierarchy.Branch:
	case hierarchy.Manager:
		filter.ManagerID = &id
	case hierarchy.FieldManager:
		filter.FieldManagerID = &id
	default:
		return out, nil
	}

	rows, err := s.Commissions.List(ctx, filter)
	if err != nil {
		return nil, apperr.Storage(err, "list commissions")
	}
	out.Commissions = rows
	out.Summary = SummarizeCommissions(rows, actor, r)
	return out, nil
}

// SummarizeCommissions totals rows. TotalCommission is what the viewer
// earned: the manager column for managers, the field-manager column for
// field-managers and both for everyone else.
func SummarizeCommissions(rows []models.Commission, actor hierarchy.Actor, r models.DateRange) models.CommissionSummary {
	sum := models.CommissionSummary{TotalRegistrations: len(rows), DateRange: r}
	for _, c := range rows {
		var fmc int64
		if c.FieldManagerCommission != nil {
			fmc = *c.FieldManagerCommission
		}
		sum.TotalManagerCommission += c.ManagerCommission
		sum.TotalFieldManagerCommission += fmc

		switch c.CreatedRole {
		case hierarchy.FieldManager:
			sum.FieldManagersRecruited++
		case hierarchy.HomeTeacher:
			sum.HomeTeachersRecruited++
		}
	}

	switch actor.Role {
	case hierarchy.Manager:
		sum.TotalCommission = sum.TotalManagerCommission
	case hierarchy.FieldManager:
		sum.TotalCommission = sum.TotalFieldManagerCommission
	default:
		sum.TotalCommission = sum.TotalManagerCommission + sum.TotalFieldManagerCommission
	}
	return sum
}

// MonthlyCommissions reports what employeeID earned in one calendar month.
// Admin, branch, the employee and the employee's supervisor may ask.
func (s *ReportService) MonthlyCommissions(ctx context.Context, actor hierarchy.Actor, employeeID string, year, month int) (*models.MonthlyCommission, error) {
	if month < 1 || month > 12 {
		return nil, apperr.Validationf("month must be between 1 and 12")
	}
	if year < 2000 || year > s.now().Year() {
		return nil, apperr.Validationf("year %d is out of range", year)
	}

	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFoundf("employee %s not found", employeeID)
		}
		return nil, apperr.Storage(err, "load employee")
	}
	allowed := actor.Role.SeesEverything() || actor.ID == emp.ID ||
		(emp.ManagerID != nil && *emp.ManagerID == actor.ID)
	if !allowed {
		return nil, apperr.Forbiddenf("commissions of %s are not visible to you", employeeID)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timeutil.IST)
	to := from.AddDate(0, 1, 0)
	rows, err := s.Commissions.List(ctx, repositories.CommissionFilter{From: from, To: to, Beneficiary: &emp.ID})
	if err != nil {
		return nil, apperr.Storage(err, "list commissions")
	}

	out := &models.MonthlyCommission{
		EmployeeID:    emp.ID,
		Year:          year,
		Month:         month,
		Registrations: int64(len(rows)),
		Entries:       rows,
	}
	for _, c := range rows {
		if c.ManagerID != nil && *c.ManagerID == emp.ID {
			out.Total += c.ManagerCommission
		}
		if c.FieldManagerID != nil && *c.FieldManagerID == emp.ID && c.FieldManagerCommission != nil {
			out.Total += *c.FieldManagerCommission
		}
	}
	return out, nil
}

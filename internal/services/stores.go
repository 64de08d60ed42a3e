package services

import (
	"context"
	"time"

	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/repositories"
)

// The services depend on these narrow views of the repositories so they can
// be exercised against in-memory fakes.

type EmployeeStore interface {
	Get(ctx context.Context, id string) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	Create(ctx context.Context, c *models.EmployeeCreation) error
	ListAll(ctx context.Context) ([]*models.Employee, error)
	ListDirectReports(ctx context.Context, managerID string, role hierarchy.Role) ([]*models.Employee, error)
	ListTwoLevels(ctx context.Context, managerID string) ([]*models.Employee, error)
	ListIDsByRole(ctx context.Context, roles ...hierarchy.Role) ([]string, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
	FieldManagerSummaries(ctx context.Context, managerID string) ([]models.FieldManagerSummary, error)
}

type LedgerStore interface {
	Transfer(ctx context.Context, senderID *string, receiverID string, amount int64, at time.Time) (*models.FundsTransfer, error)
	GetFunds(ctx context.Context, employeeID string) (int64, error)
	Reconcile(ctx context.Context, employeeID string) (*models.Reconciliation, error)
	ListTransfers(ctx context.Context, f repositories.TransferFilter) ([]models.FundsTransfer, error)
	ListEntries(ctx context.Context, employeeID string, limit int) ([]models.LedgerEntry, error)
}

type CommissionStore interface {
	List(ctx context.Context, f repositories.CommissionFilter) ([]models.Commission, error)
	TotalForManager(ctx context.Context, managerID string) (int64, error)
}

type CreditStore interface {
	CreditSalary(ctx context.Context, empID string, amount int64, month time.Time) (bool, error)
	CreditBonus(ctx context.Context, empID string, amount int64, day time.Time, guarded bool) (bool, error)
	GetSalaryCredit(ctx context.Context, empID string, month time.Time) (*models.SalaryCredit, error)
}

type SalarySlipStore interface {
	Upsert(ctx context.Context, employeeID string, month, year int) (*models.SalarySlipRecord, error)
	ListRecent(ctx context.Context, employeeID string, limit int) ([]models.SalarySlipRecord, error)
}

type InquiryStore interface {
	Create(ctx context.Context, q *models.UserInquiry) error
	List(ctx context.Context) ([]models.UserInquiry, error)
}

// Archiver stores rendered documents, e.g. in S3-compatible storage.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

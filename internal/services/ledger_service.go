package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/metrics"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/repositories"
	"edustaff-backend/internal/timeutil"

	"go.uber.org/zap"
)

// LedgerService moves funds between employees under the active policy.
type LedgerService struct {
	Repo      LedgerStore
	Employees EmployeeStore
	Policy    hierarchy.Policy

	logger *zap.Logger
	now    func() time.Time
}

func NewLedgerService(repo LedgerStore, employees EmployeeStore, policy hierarchy.Policy, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		Repo:      repo,
		Employees: employees,
		Policy:    policy,
		logger:    logger.With(zap.String("component", "ledger")),
		now:       timeutil.Now,
	}
}

// Transfer credits receiverID with amount, debiting actor unless actor is
// admin. The receiver's stored row decides authorization.
func (s *LedgerService) Transfer(ctx context.Context, actor hierarchy.Actor, req *models.TransferRequest) (*models.FundsTransfer, error) {
	if req.Amount <= 0 {
		metrics.FundsTransfersTotal.WithLabelValues("invalid").Inc()
		return nil, apperr.Validationf("amount must be a positive integer")
	}
	receiverID := strings.TrimSpace(req.ReceiverID)
	if receiverID == "" {
		return nil, apperr.Validationf("receiver_id is required")
	}
	if receiverID == actor.ID {
		return nil, apperr.Validationf("cannot transfer funds to yourself")
	}

	receiver, err := s.Employees.Get(ctx, receiverID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.FundsTransfersTotal.WithLabelValues("not_found").Inc()
			return nil, apperr.NotFoundf("receiver %s not found", receiverID)
		}
		return nil, apperr.Storage(err, "load receiver")
	}

	if !s.Policy.CanFund(actor, receiver.Target()) {
		metrics.FundsTransfersTotal.WithLabelValues("forbidden").Inc()
		return nil, apperr.Forbiddenf("%s may not fund %s", actor.Role, receiver.ID)
	}

	var sender *string
	if !actor.IsAdmin() {
		id := actor.ID
		sender = &id
	}

	t, err := s.Repo.Transfer(ctx, sender, receiver.ID, req.Amount, s.now())
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrInsufficientFunds):
		metrics.FundsTransfersTotal.WithLabelValues("insufficient_funds").Inc()
		return nil, apperr.Validationf("insufficient funds")
	case errors.Is(err, repositories.ErrNotFound):
		metrics.FundsTransfersTotal.WithLabelValues("not_found").Inc()
		return nil, apperr.NotFoundf("receiver %s not found", receiver.ID)
	default:
		metrics.FundsTransfersTotal.WithLabelValues("error").Inc()
		s.logger.Error("transfer failed", zap.String("receiver_id", receiver.ID), zap.Error(err))
		return nil, apperr.Storage(err, "transfer funds")
	}

	metrics.FundsTransfersTotal.WithLabelValues("ok").Inc()
	metrics.FundsTransferredAmount.Add(float64(t.Amount))
	s.logger.Info("funds transferred",
		zap.Int64("transfer_id", t.ID),
		zap.String("sender_id", actor.ID),
		zap.String("receiver_id", t.ReceiverID),
		zap.Int64("amount", t.Amount),
	)
	return t, nil
}

// Balance is get-own-balance. Admin has no funds row, which is a business
// outcome rather than an error.
func (s *LedgerService) Balance(ctx context.Context, actor hierarchy.Actor) (*models.BalanceResponse, error) {
	if actor.IsAdmin() {
		return &models.BalanceResponse{Status: models.StatusBad, Message: "admin has no funds balance"}, nil
	}
	funds, err := s.GetFunds(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &models.BalanceResponse{Status: models.StatusGood, EmpID: actor.ID, Funds: &funds}, nil
}

// GetFunds returns an employee's stored balance.
func (s *LedgerService) GetFunds(ctx context.Context, employeeID string) (int64, error) {
	funds, err := s.Repo.GetFunds(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, apperr.NotFoundf("employee %s not found", employeeID)
		}
		return 0, apperr.Storage(err, "get funds")
	}
	return funds, nil
}

// Reconcile checks stored funds against the ledger for one employee.
func (s *LedgerService) Reconcile(ctx context.Context, employeeID string) (*models.Reconciliation, error) {
	rec, err := s.Repo.Reconcile(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFoundf("employee %s not found", employeeID)
		}
		return nil, apperr.Storage(err, "reconcile")
	}
	if !rec.Balanced {
		s.logger.Warn("ledger out of balance",
			zap.String("employee_id", employeeID),
			zap.Int64("stored", rec.StoredFunds),
			zap.Int64("ledger", rec.LedgerSum),
		)
	}
	return rec, nil
}

// Entries returns the caller's own recent ledger movements.
func (s *LedgerService) Entries(ctx context.Context, actor hierarchy.Actor, limit int) ([]models.LedgerEntry, error) {
	if actor.IsAdmin() {
		return []models.LedgerEntry{}, nil
	}
	entries, err := s.Repo.ListEntries(ctx, actor.ID, limit)
	if err != nil {
		return nil, apperr.Storage(err, "list ledger entries")
	}
	return entries, nil
}

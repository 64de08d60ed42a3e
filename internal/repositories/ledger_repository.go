package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"edustaff-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository owns funds transfers and the per-employee ledger.
type LedgerRepository struct {
	DB *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// Transfer moves amount to receiverID. A nil senderID is an admin/system
// credit with no debit side. The debit, the credit, the transfer row and
// both ledger entries commit together.
func (r *LedgerRepository) Transfer(ctx context.Context, senderID *string, receiverID string, amount int64, at time.Time) (*models.FundsTransfer, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	t := &models.FundsTransfer{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO funds_transfers (sender_id, receiver_id, amount, transferred_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, transferred_at
	`, senderID, receiverID, amount, at).Scan(&t.ID, &t.TransferredAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to insert transfer: %w", err)
	}
	ref := strconv.FormatInt(t.ID, 10)

	if senderID != nil {
		if _, err := applyFundsMove(ctx, tx, fundsMove{
			EmployeeID:    *senderID,
			Amount:        -amount,
			EntryType:     models.LedgerEntryTransferOut,
			ReferenceID:   &ref,
			ReferenceType: "transfer",
		}); err != nil {
			return nil, err
		}
	}

	if _, err := applyFundsMove(ctx, tx, fundsMove{
		EmployeeID:    receiverID,
		Amount:        amount,
		EntryType:     models.LedgerEntryTransferIn,
		ReferenceID:   &ref,
		ReferenceType: "transfer",
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// GetFunds returns the stored balance for an employee
func (r *LedgerRepository) GetFunds(ctx context.Context, employeeID string) (int64, error) {
	var funds int64
	err := r.DB.QueryRow(ctx, `SELECT funds FROM employees WHERE id = $1`, employeeID).Scan(&funds)
	if err != nil {
		return 0, notFound(err)
	}
	return funds, nil
}

// Reconcile compares stored funds with the sum of the employee's ledger.
func (r *LedgerRepository) Reconcile(ctx context.Context, employeeID string) (*models.Reconciliation, error) {
	rec := &models.Reconciliation{EmployeeID: employeeID}
	err := r.DB.QueryRow(ctx, `
		SELECT e.funds, COALESCE((SELECT SUM(amount) FROM ledger_entries WHERE employee_id = e.id), 0)
		FROM employees e
		WHERE e.id = $1
	`, employeeID).Scan(&rec.StoredFunds, &rec.LedgerSum)
	if err != nil {
		return nil, notFound(err)
	}
	rec.Balanced = rec.StoredFunds == rec.LedgerSum
	return rec, nil
}

// TransferFilter narrows ListTransfers. Participant matches either side.
type TransferFilter struct {
	From        time.Time
	To          time.Time
	Participant *string
}

// ListTransfers returns transfers in [From, To) newest first.
func (r *LedgerRepository) ListTransfers(ctx context.Context, f TransferFilter) ([]models.FundsTransfer, error) {
	conditions := []string{"t.transferred_at >= $1", "t.transferred_at < $2"}
	args := []any{f.From, f.To}
	if f.Participant != nil {
		args = append(args, *f.Participant)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(t.sender_id = $%d OR t.receiver_id = $%d)", n, n))
	}

	query := `
		SELECT t.id, t.sender_id, t.receiver_id, t.amount, t.transferred_at,
			COALESCE(s.name, 'Admin'), COALESCE(rc.name, '')
		FROM funds_transfers t
		LEFT JOIN employees s ON s.id = t.sender_id
		LEFT JOIN employees rc ON rc.id = t.receiver_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY t.transferred_at DESC, t.id DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.FundsTransfer{}
	for rows.Next() {
		var t models.FundsTransfer
		if err := rows.Scan(&t.ID, &t.SenderID, &t.ReceiverID, &t.Amount, &t.TransferredAt,
			&t.SenderName, &t.ReceiverName); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListEntries returns an employee's most recent ledger entries.
func (r *LedgerRepository) ListEntries(ctx context.Context, employeeID string, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, employee_id, entry_type, amount, running_balance, reference_id, reference_type, created_at
		FROM ledger_entries
		WHERE employee_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.LedgerEntry{}
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.EntryType, &e.Amount, &e.RunningBalance,
			&e.ReferenceID, &e.ReferenceType, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"edustaff-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// fundsMove is one signed change to an employee's funds and the ledger row
// that explains it. Both are written through the same querier, which must
// be a transaction.
type fundsMove struct {
	EmployeeID    string
	Amount        int64 // positive credit, negative debit
	EntryType     models.LedgerEntryType
	ReferenceID   *string
	ReferenceType string
}

// applyFundsMove mutates funds with a single conditional UPDATE and appends
// the ledger entry. Debits never take a balance below zero.
func applyFundsMove(ctx context.Context, q querier, m fundsMove) (int64, error) {
	var balance int64
	var err error

	if m.Amount < 0 {
		err = q.QueryRow(ctx, `
			UPDATE employees SET funds = funds - $1
			WHERE id = $2 AND funds >= $1
			RETURNING funds
		`, -m.Amount, m.EmployeeID).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if qerr := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`, m.EmployeeID).Scan(&exists); qerr != nil {
				return 0, qerr
			}
			if !exists {
				return 0, ErrNotFound
			}
			return 0, ErrInsufficientFunds
		}
	} else {
		err = q.QueryRow(ctx, `
			UPDATE employees SET funds = funds + $1
			WHERE id = $2
			RETURNING funds
		`, m.Amount, m.EmployeeID).Scan(&balance)
		err = notFound(err)
	}
	if err != nil {
		return 0, err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO ledger_entries (employee_id, entry_type, amount, running_balance, reference_id, reference_type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.EmployeeID, m.EntryType, m.Amount, balance, m.ReferenceID, m.ReferenceType)
	if err != nil {
		return 0, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return balance, nil
}

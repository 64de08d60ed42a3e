package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"edustaff-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CommissionRepository struct {
	DB *pgxpool.Pool
}

func NewCommissionRepository(db *pgxpool.Pool) *CommissionRepository {
	return &CommissionRepository{DB: db}
}

// CommissionFilter narrows List. ManagerID and FieldManagerID are ANDed
// when both are set; Beneficiary matches either column.
type CommissionFilter struct {
	From           time.Time
	To             time.Time
	ManagerID      *string
	FieldManagerID *string
	Beneficiary    *string
}

// List returns commission rows registered in [From, To), newest first.
func (r *CommissionRepository) List(ctx context.Context, f CommissionFilter) ([]models.Commission, error) {
	conditions := []string{"c.registered_at >= $1", "c.registered_at < $2"}
	args := []any{f.From, f.To}

	if f.ManagerID != nil {
		args = append(args, *f.ManagerID)
		conditions = append(conditions, fmt.Sprintf("c.manager_id = $%d", len(args)))
	}
	if f.FieldManagerID != nil {
		args = append(args, *f.FieldManagerID)
		conditions = append(conditions, fmt.Sprintf("c.field_manager_id = $%d", len(args)))
	}
	if f.Beneficiary != nil {
		args = append(args, *f.Beneficiary)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(c.manager_id = $%d OR c.field_manager_id = $%d)", n, n))
	}

	query := `
		SELECT c.id, c.manager_id, c.field_manager_id, c.manager_commission, c.field_manager_commission,
			c.created_role, c.created_id, c.registered_at, COALESCE(e.name, '')
		FROM commissions c
		LEFT JOIN employees e ON e.id = c.created_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY c.registered_at DESC, c.id DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Commission{}
	for rows.Next() {
		var c models.Commission
		if err := rows.Scan(&c.ID, &c.ManagerID, &c.FieldManagerID, &c.ManagerCommission,
			&c.FieldManagerCommission, &c.CreatedRole, &c.CreatedID, &c.RegisteredAt, &c.CreatedName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TotalForManager sums every manager_commission ever recorded for managerID.
func (r *CommissionRepository) TotalForManager(ctx context.Context, managerID string) (int64, error) {
	var total int64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(manager_commission), 0) FROM commissions WHERE manager_id = $1
	`, managerID).Scan(&total)
	return total, err
}

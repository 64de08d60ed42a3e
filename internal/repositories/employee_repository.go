package repositories

import (
	"context"
	"fmt"

	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EmployeeRepository struct {
	DB *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{DB: db}
}

const employeeColumns = `id, role, manager_id, name, fname, mname, dob, addr, city, district, state,
	email, phn, password_hash, funds, created_at`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.Role, &e.ManagerID, &e.Name, &e.FatherName, &e.MotherName, &e.DOB,
		&e.Address, &e.City, &e.District, &e.State, &e.Email, &e.Phone, &e.PasswordHash,
		&e.Funds, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEmployees(rows pgx.Rows) ([]*models.Employee, error) {
	defer rows.Close()

	var out []*models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EmployeeRepository) Get(ctx context.Context, id string) (*models.Employee, error) {
	e, err := scanEmployee(r.DB.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	return e, notFound(err)
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	e, err := scanEmployee(r.DB.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE LOWER(email) = LOWER($1)`, email))
	return e, notFound(err)
}

// Create runs one create-subordinate unit of work in a single transaction:
// the creator's fee debit, the employee insert, the creator's commission
// credit, the commission row and every ledger entry. Nothing is written if
// any step fails.
func (r *EmployeeRepository) Create(ctx context.Context, c *models.EmployeeCreation) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	e := c.Employee
	ref := e.ID

	// Debit first so the creator row is locked before anything else is written
	if c.Debit > 0 {
		if _, err := applyFundsMove(ctx, tx, fundsMove{
			EmployeeID:    c.CreatorID,
			Amount:        -c.Debit,
			EntryType:     models.LedgerEntryCreationFee,
			ReferenceID:   &ref,
			ReferenceType: "employee",
		}); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO employees (id, role, manager_id, name, fname, mname, dob, addr, city, district, state,
			email, phn, password_hash, funds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 0, $15)
		RETURNING funds, created_at
	`, e.ID, e.Role, e.ManagerID, e.Name, e.FatherName, e.MotherName, e.DOB,
		e.Address, e.City, e.District, e.State, e.Email, e.Phone, e.PasswordHash, e.CreatedAt,
	).Scan(&e.Funds, &e.CreatedAt)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			if constraint == "employees_pkey" {
				return ErrDuplicateID
			}
			return ErrDuplicateContact
		}
		return fmt.Errorf("failed to insert employee: %w", err)
	}

	if c.Credit > 0 {
		if _, err := applyFundsMove(ctx, tx, fundsMove{
			EmployeeID:    c.CreatorID,
			Amount:        c.Credit,
			EntryType:     models.LedgerEntryCommission,
			ReferenceID:   &ref,
			ReferenceType: "employee",
		}); err != nil {
			return err
		}
	}

	if cm := c.Commission; cm != nil {
		cm.CreatedID = e.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO commissions (manager_id, field_manager_id, manager_commission, field_manager_commission,
				created_role, created_id, registered_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, cm.ManagerID, cm.FieldManagerID, cm.ManagerCommission, cm.FieldManagerCommission,
			cm.CreatedRole, cm.CreatedID, cm.RegisteredAt,
		).Scan(&cm.ID)
		if err != nil {
			return fmt.Errorf("failed to insert commission: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListAll returns every employee, top of the hierarchy first, newest first
// within a role.
func (r *EmployeeRepository) ListAll(ctx context.Context) ([]*models.Employee, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+employeeColumns+` FROM employees
		ORDER BY CASE role
			WHEN 'branch' THEN 1
			WHEN 'manager' THEN 2
			WHEN 'field-manager' THEN 3
			WHEN 'home-teacher' THEN 4
			ELSE 5 END,
			created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}

// ListDirectReports returns employees whose manager_id is managerID,
// optionally restricted to one role.
func (r *EmployeeRepository) ListDirectReports(ctx context.Context, managerID string, role hierarchy.Role) ([]*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE manager_id = $1`
	args := []any{managerID}
	if role != "" {
		query += ` AND role = $2`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}

// ListTwoLevels returns the direct reports of managerID plus the direct
// reports of those reports.
func (r *EmployeeRepository) ListTwoLevels(ctx context.Context, managerID string) ([]*models.Employee, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+employeeColumns+` FROM employees
		WHERE manager_id = $1
		   OR manager_id IN (SELECT id FROM employees WHERE manager_id = $1)
		ORDER BY created_at DESC
	`, managerID)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}

// ListIDsByRole returns the ids of every employee holding one of roles.
func (r *EmployeeRepository) ListIDsByRole(ctx context.Context, roles ...hierarchy.Role) ([]string, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	rows, err := r.DB.Query(ctx, `SELECT id FROM employees WHERE role = ANY($1) ORDER BY id`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Stats counts employees per role and sums positive balances.
func (r *EmployeeRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT role, COUNT(*), COALESCE(SUM(CASE WHEN funds > 0 THEN funds ELSE 0 END), 0)
		FROM employees
		GROUP BY role
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &models.DashboardStats{RoleCounts: make(map[hierarchy.Role]int64)}
	for _, role := range hierarchy.EmployeeRoles {
		stats.RoleCounts[role] = 0
	}
	for rows.Next() {
		var role hierarchy.Role
		var count, funds int64
		if err := rows.Scan(&role, &count, &funds); err != nil {
			return nil, err
		}
		stats.RoleCounts[role] = count
		stats.TotalEmployees += count
		stats.TotalFunds += funds
	}
	return stats, rows.Err()
}

// FieldManagerSummaries lists a manager's field-managers with how many
// home-teachers each one supervises.
func (r *EmployeeRepository) FieldManagerSummaries(ctx context.Context, managerID string) ([]models.FieldManagerSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT fm.id, fm.name, fm.email, fm.phn, fm.funds, fm.created_at,
			(SELECT COUNT(*) FROM employees ht WHERE ht.manager_id = fm.id AND ht.role = 'home-teacher')
		FROM employees fm
		WHERE fm.manager_id = $1 AND fm.role = 'field-manager'
		ORDER BY fm.created_at DESC
	`, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.FieldManagerSummary{}
	for rows.Next() {
		var s models.FieldManagerSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Funds, &s.CreatedAt, &s.HomeTeacherCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

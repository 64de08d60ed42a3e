package models

import (
	"time"

	"edustaff-backend/internal/hierarchy"
)

// Commission records what a creation event owes up the chain. It does not
// move funds by itself.
type Commission struct {
	ID                     int64          `json:"id"`
	ManagerID              *string        `json:"manager_id"`
	FieldManagerID         *string        `json:"field_manager_id"`
	ManagerCommission      int64          `json:"manager_commission"`
	FieldManagerCommission *int64         `json:"field_manager_commission"`
	CreatedRole            hierarchy.Role `json:"created_role"`
	CreatedID              string         `json:"created_id"`
	RegisteredAt           time.Time      `json:"registered_at"`

	CreatedName string `json:"created_name,omitempty"`
}

// MonthlyCommission is one employee's commission total for a calendar month.
type MonthlyCommission struct {
	EmployeeID    string       `json:"employee_id"`
	Year          int          `json:"year"`
	Month         int          `json:"month"`
	Total         int64        `json:"total"`
	Registrations int64        `json:"registrations"`
	Entries       []Commission `json:"entries"`
}

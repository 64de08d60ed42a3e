package models

import (
	"time"

	"edustaff-backend/internal/hierarchy"
)

type Employee struct {
	ID           string         `json:"id"`
	Role         hierarchy.Role `json:"role"`
	ManagerID    *string        `json:"manager_id"`
	Name         string         `json:"name"`
	FatherName   string         `json:"fname"`
	MotherName   string         `json:"mname"`
	DOB          time.Time      `json:"dob"`
	Address      string         `json:"addr"`
	City         string         `json:"city"`
	District     string         `json:"district"`
	State        string         `json:"state"`
	Email        string         `json:"email"`
	Phone        string         `json:"phn"`
	PasswordHash string         `json:"-"` // Never expose in JSON
	Funds        int64          `json:"funds"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Target is the view of the employee the hierarchy policy reasons about.
func (e *Employee) Target() hierarchy.Target {
	return hierarchy.Target{ID: e.ID, Role: e.Role, ManagerID: e.ManagerID}
}

// EmployeeProfile is the employee as returned to other employees.
type EmployeeProfile struct {
	Employee
	ManagerName string `json:"manager_name,omitempty"`
}

// CreateEmployeeRequest is the profile payload for create-subordinate.
// ManagerID names the upstream employee when the policy needs one supplied.
type CreateEmployeeRequest struct {
	Name      string  `json:"name"`
	FName     string  `json:"fname"`
	MName     string  `json:"mname"`
	DOB       string  `json:"dob"`
	Addr      string  `json:"addr"`
	City      string  `json:"city"`
	District  string  `json:"district"`
	State     string  `json:"state"`
	Email     string  `json:"email"`
	Phone     string  `json:"phn"`
	Password  string  `json:"pwd"`
	Role      string  `json:"role"`
	ManagerID *string `json:"manager_id,omitempty"`
}

// EmployeeCreation is one atomic create-subordinate unit of work.
// Debit and Credit are applied to CreatorID; Commission is optional.
type EmployeeCreation struct {
	Employee   *Employee
	CreatorID  string
	Debit      int64
	Credit     int64
	Commission *Commission
}

// CreateEmployeeResult is the business outcome of create-subordinate.
type CreateEmployeeResult struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Funds      *int64 `json:"funds,omitempty"`
}

// EmployeeNode is one node of the hierarchy tree.
type EmployeeNode struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Role      hierarchy.Role  `json:"role"`
	Email     string          `json:"email"`
	Phone     string          `json:"phn"`
	Funds     int64           `json:"funds"`
	CreatedAt time.Time       `json:"created_at"`
	Children  []*EmployeeNode `json:"children,omitempty"`
}

// DashboardStats summarises the organisation for admin and branch.
type DashboardStats struct {
	TotalEmployees int64                    `json:"total_employees"`
	RoleCounts     map[hierarchy.Role]int64 `json:"role_counts"`
	TotalFunds     int64                    `json:"total_funds"`
}

// FieldManagerSummary is a manager's view of one of their field-managers.
type FieldManagerSummary struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phn"`
	Funds            int64     `json:"funds"`
	HomeTeacherCount int64     `json:"home_teacher_count"`
	CreatedAt        time.Time `json:"created_at"`
}

type ManagerTeam struct {
	ManagerID       string                `json:"manager_id"`
	FieldManagers   []FieldManagerSummary `json:"field_managers"`
	TotalCommission int64                 `json:"total_commission"`
}

type FieldManagerTeam struct {
	FieldManagerID string      `json:"field_manager_id"`
	HomeTeachers   []*Employee `json:"home_teachers"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"pwd"`
	Role     string `json:"role"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"pwd"`
	OTP      string `json:"otp,omitempty"`
}

// AuthResponse is returned by both login paths; Status is "good" or "bad".
type AuthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	Role    string `json:"role,omitempty"`
	EmpID   string `json:"emp_id,omitempty"`
}

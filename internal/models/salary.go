package models

import "time"

type SalarySlipRecord struct {
	ID          int64     `json:"id"`
	EmployeeID  string    `json:"employee_id"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	GeneratedAt time.Time `json:"generated_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// SalarySlip is the rendered slip for one home-teacher and month.
type SalarySlip struct {
	Status        string     `json:"status"`
	Message       string     `json:"message,omitempty"`
	EmployeeID    string     `json:"employee_id,omitempty"`
	Name          string     `json:"name,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phn,omitempty"`
	ManagerName   string     `json:"manager_name,omitempty"`
	Month         int        `json:"month,omitempty"`
	Year          int        `json:"year,omitempty"`
	Period        string     `json:"period,omitempty"`
	MonthlySalary int64      `json:"monthly_salary"`
	Credited      int64      `json:"credited"`
	CreditedAt    *time.Time `json:"credited_at,omitempty"`
	JoinedAt      time.Time  `json:"joined_at"`
	GeneratedAt   time.Time  `json:"generated_at"`
	ArchiveKey    string     `json:"archive_key,omitempty"`
}

type SalarySlipRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// SalarySlipList is the recent-slips payload.
type SalarySlipList struct {
	Status  string             `json:"status"`
	Message string             `json:"message,omitempty"`
	Slips   []SalarySlipRecord `json:"slips"`
}

// SalaryCredit is a salary_credit_log row.
type SalaryCredit struct {
	EmployeeID  string    `json:"emp_id"`
	Amount      int64     `json:"salary_amount"`
	SalaryMonth time.Time `json:"salary_month"`
	CreditedAt  time.Time `json:"credited_at"`
	Status      string    `json:"status"`
}

// CreditRunReport is the outcome of one scheduled credit batch.
type CreditRunReport struct {
	Job      string    `json:"job"`
	Period   string    `json:"period"`
	Eligible int       `json:"eligible"`
	Credited int       `json:"credited"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
	Started  time.Time `json:"started_at"`
	Finished time.Time `json:"finished_at"`
}

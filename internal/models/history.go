package models

import "time"

// HistoryRequest carries the optional YYYY-MM-DD bounds of a history query.
type HistoryRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// DateRange is a resolved, inclusive pair of IST calendar dates.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

type TransferSummary struct {
	Count         int       `json:"count"`
	TotalAmount   int64     `json:"total_amount"`
	TotalReceived int64     `json:"total_received"`
	TotalSent     int64     `json:"total_sent"`
	DateRange     DateRange `json:"date_range"`
}

type TransferHistory struct {
	Status    string          `json:"status"`
	Transfers []FundsTransfer `json:"transfers"`
	Summary   TransferSummary `json:"summary"`
}

type CommissionSummary struct {
	TotalManagerCommission      int64     `json:"total_manager_commission"`
	TotalFieldManagerCommission int64     `json:"total_field_manager_commission"`
	TotalCommission             int64     `json:"total_commission"`
	FieldManagersRecruited      int       `json:"field_managers_recruited"`
	HomeTeachersRecruited       int       `json:"home_teachers_recruited"`
	TotalRegistrations          int       `json:"total_registrations"`
	DateRange                   DateRange `json:"date_range"`
}

type CommissionHistory struct {
	Status      string            `json:"status"`
	Commissions []Commission      `json:"commissions"`
	Summary     CommissionSummary `json:"summary"`
}

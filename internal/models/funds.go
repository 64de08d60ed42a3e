package models

import "time"

// Business outcome markers shared by every {status, message} payload.
const (
	StatusGood = "good"
	StatusBad  = "bad"
)

type FundsTransfer struct {
	ID            int64     `json:"id"`
	SenderID      *string   `json:"sender_id"` // nil means admin/system
	ReceiverID    string    `json:"receiver_id"`
	Amount        int64     `json:"amount"`
	TransferredAt time.Time `json:"transferred_at"`

	SenderName   string `json:"sender_name,omitempty"`
	ReceiverName string `json:"receiver_name,omitempty"`
}

type TransferRequest struct {
	ReceiverID string `json:"receiver_id"`
	Amount     int64  `json:"amount"`
}

type BalanceResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	EmpID   string `json:"emp_id,omitempty"`
	Funds   *int64 `json:"funds,omitempty"`
}

// Reconciliation compares stored funds against the ledger.
type Reconciliation struct {
	EmployeeID  string `json:"employee_id"`
	StoredFunds int64  `json:"stored_funds"`
	LedgerSum   int64  `json:"ledger_sum"`
	Balanced    bool   `json:"balanced"`
}

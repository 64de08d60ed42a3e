package models

import "time"

// LedgerEntryType represents why an employee's funds moved
type LedgerEntryType string

const (
	LedgerEntryTransferIn    LedgerEntryType = "TRANSFER_IN"
	LedgerEntryTransferOut   LedgerEntryType = "TRANSFER_OUT"
	LedgerEntryCreationFee   LedgerEntryType = "CREATION_FEE" // Fee debited for recruiting a subordinate
	LedgerEntryCommission    LedgerEntryType = "COMMISSION"   // Commission credited for recruiting a subordinate
	LedgerEntryDailyBonus    LedgerEntryType = "DAILY_BONUS"
	LedgerEntryMonthlySalary LedgerEntryType = "MONTHLY_SALARY"
)

// LedgerEntry is one signed movement of an employee's funds. Amount is
// positive for credits and negative for debits; RunningBalance is the
// employee's funds right after this entry.
type LedgerEntry struct {
	ID             int64           `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	EntryType      LedgerEntryType `json:"entry_type"`
	Amount         int64           `json:"amount"`
	RunningBalance int64           `json:"running_balance"`
	ReferenceID    *string         `json:"reference_id"`   // transfer id, created employee id or period key
	ReferenceType  string          `json:"reference_type"` // 'transfer', 'employee', 'bonus', 'salary'
	CreatedAt      time.Time       `json:"created_at"`
}

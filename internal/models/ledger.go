package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralLedgerRow represents a row in the append-only general_ledger table.
type GeneralLedgerRow struct {
	RowID          string          `db:"row_id"`
	AccountID      string          `db:"account_id"`
	EntryID        string          `db:"entry_id"`
	LineNumber     int             `db:"line_number"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	PostedAt       time.Time       `db:"posted_at"`
	Compensates    bool            `db:"compensates"`
	DueDate        *time.Time      `db:"due_date"`   // Nullable
	SettledAt      *time.Time      `db:"settled_at"` // Nullable
}

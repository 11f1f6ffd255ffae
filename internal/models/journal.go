package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus mirrors domain.EntryStatus at the persistence layer.
type EntryStatus string

// JournalEntry represents a row in the journal_entries table.
type JournalEntry struct {
	EntryID           string          `db:"entry_id"`
	EntryNumber       string          `db:"entry_number"`
	EntryDate         time.Time       `db:"entry_date"`
	FiscalYear        int             `db:"fiscal_year"`
	FiscalPeriod      int             `db:"fiscal_period"`
	Description       string          `db:"description"`
	Status            EntryStatus     `db:"status"`
	TotalDebit        decimal.Decimal `db:"total_debit"`
	TotalCredit       decimal.Decimal `db:"total_credit"`
	ReversalOfEntryID *string         `db:"reversal_of_entry_id"` // Nullable
	ReversedByEntryID *string         `db:"reversed_by_entry_id"` // Nullable
	ApprovedBy        string          `db:"approved_by"`
	RejectionReason   string          `db:"rejection_reason"`
	AuditFields
}

// JournalEntryLine represents a row in the journal_entry_lines table.
type JournalEntryLine struct {
	LineID     string          `db:"line_id"`
	EntryID    string          `db:"entry_id"`
	LineNumber int             `db:"line_number"`
	AccountID  string          `db:"account_id"`
	Debit      decimal.Decimal `db:"debit"`
	Credit     decimal.Decimal `db:"credit"`
	Memo       string          `db:"memo"`
	DueDate    *time.Time      `db:"due_date"` // Nullable
	AuditFields
}

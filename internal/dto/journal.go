package dto

import (
	"time"

	"github.com/finvolt/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one line of a draft entry. Exactly one of
// Debit/Credit must be positive; the service enforces the one-sided rule
// beyond what the tags can express.
type CreateJournalLineRequest struct {
	AccountID string          `json:"accountID" validate:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
	DueDate   *time.Time      `json:"dueDate,omitempty"`
}

// CreateJournalEntryRequest creates a new DRAFT journal entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time                  `json:"entryDate" validate:"required"`
	Description string                     `json:"description" validate:"required"`
	Lines       []CreateJournalLineRequest `json:"lines" validate:"required,min=2,dive"`
}

// UpdateJournalEntryRequest edits an entry that is still in an editable state.
// Nil fields are left unchanged; a non-nil Lines replaces the full line set.
type UpdateJournalEntryRequest struct {
	EntryDate   *time.Time                 `json:"entryDate,omitempty"`
	Description *string                    `json:"description,omitempty"`
	Lines       []CreateJournalLineRequest `json:"lines,omitempty" validate:"omitempty,min=2,dive"`
}

// JournalEntryResponse is the outward representation of an entry.
type JournalEntryResponse struct {
	EntryID           string                     `json:"entryID"`
	EntryNumber       string                     `json:"entryNumber"`
	EntryDate         time.Time                  `json:"entryDate"`
	FiscalYear        int                        `json:"fiscalYear"`
	FiscalPeriod      int                        `json:"fiscalPeriod"`
	Description       string                     `json:"description"`
	Status            domain.EntryStatus         `json:"status"`
	TotalDebit        decimal.Decimal            `json:"totalDebit"`
	TotalCredit       decimal.Decimal            `json:"totalCredit"`
	ReversalOfEntryID *string                    `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID *string                    `json:"reversedByEntryID,omitempty"`
	Lines             []JournalEntryLineResponse `json:"lines,omitempty"`
}

// JournalEntryLineResponse is the outward representation of a line.
type JournalEntryLineResponse struct {
	LineNumber int             `json:"lineNumber"`
	AccountID  string          `json:"accountID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Memo       string          `json:"memo,omitempty"`
	DueDate    *time.Time      `json:"dueDate,omitempty"`
}

// ToJournalEntryResponse maps a domain entry (with whatever lines are loaded).
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		FiscalYear:        e.FiscalYear,
		FiscalPeriod:      e.FiscalPeriod,
		Description:       e.Description,
		Status:            e.Status,
		TotalDebit:        e.TotalDebit.Decimal(),
		TotalCredit:       e.TotalCredit.Decimal(),
		ReversalOfEntryID: e.ReversalOfEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
	}
	for _, l := range e.Lines {
		resp.Lines = append(resp.Lines, JournalEntryLineResponse{
			LineNumber: l.LineNumber,
			AccountID:  l.AccountID,
			Debit:      l.Debit.Decimal(),
			Credit:     l.Credit.Decimal(),
			Memo:       l.Memo,
			DueDate:    l.DueDate,
		})
	}
	return resp
}

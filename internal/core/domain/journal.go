package domain

import (
	"fmt"
	"time"

	"github.com/finvolt/posting_engine/internal/apperrors"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft     EntryStatus = "DRAFT"
	Submitted EntryStatus = "SUBMITTED"
	Approved  EntryStatus = "APPROVED"
	Rejected  EntryStatus = "REJECTED"
	Posted    EntryStatus = "POSTED"
	Unposted  EntryStatus = "UNPOSTED"
	Reversed  EntryStatus = "REVERSED"
)

// allowedTransitions is the full transition table. Anything absent here fails
// with ErrInvalidStateTransition. REJECTED and UNPOSTED behave like DRAFT:
// the entry can be edited and resubmitted. REVERSED is terminal.
var allowedTransitions = map[EntryStatus]map[EntryStatus]bool{
	Draft:     {Submitted: true},
	Rejected:  {Submitted: true},
	Unposted:  {Submitted: true},
	Submitted: {Approved: true, Rejected: true},
	Approved:  {Posted: true},
	Posted:    {Unposted: true, Reversed: true},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	return allowedTransitions[s][next]
}

// Editable reports whether an entry in this status may have its lines changed.
func (s EntryStatus) Editable() bool {
	return s == Draft || s == Rejected || s == Unposted
}

// JournalEntry is a single, balanced financial event composed of ordered lines.
//
// Once POSTED an entry is logically immutable: unpost and reverse never rewrite
// the ledger rows it produced, they only add compensating history.
type JournalEntry struct {
	EntryID      string      `json:"entryID"`     // Primary key (UUID)
	EntryNumber  string      `json:"entryNumber"` // Unique, generated, e.g. "JE-2026-000042"
	EntryDate    time.Time   `json:"entryDate"`
	FiscalYear   int         `json:"fiscalYear"`
	FiscalPeriod int         `json:"fiscalPeriod"`
	Description  string      `json:"description"`
	Status       EntryStatus `json:"status"`
	TotalDebit   Money       `json:"totalDebit"`
	TotalCredit  Money       `json:"totalCredit"`

	// ReversalOfEntryID marks this entry as the reversal of another.
	// A reversal entry cannot itself be reversed, so no cycle is possible.
	ReversalOfEntryID *string `json:"reversalOfEntryID,omitempty"`
	// ReversedByEntryID links a REVERSED entry to the entry that reversed it.
	ReversedByEntryID *string `json:"reversedByEntryID,omitempty"`

	ApprovedBy      string `json:"approvedBy,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`

	Lines []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// IsReversal reports whether this entry was created to reverse another.
func (e JournalEntry) IsReversal() bool {
	return e.ReversalOfEntryID != nil
}

// JournalEntryLine is one side-effect of an entry on a single account.
// Exactly one of Debit/Credit is strictly positive and the other exactly zero.
type JournalEntryLine struct {
	LineID     string `json:"lineID"` // Primary key (UUID)
	EntryID    string `json:"entryID"`
	LineNumber int    `json:"lineNumber"`
	AccountID  string `json:"accountID"`
	Debit      Money  `json:"debit"`
	Credit     Money  `json:"credit"`
	Memo       string `json:"memo,omitempty"`
	// DueDate is set on receivable/payable lines and flows onto the ledger
	// row, where the aging report picks it up. Nil for everything else.
	DueDate *time.Time `json:"dueDate,omitempty"`
	AuditFields
}

// Validate enforces the one-sided line invariant.
func (l JournalEntryLine) Validate() error {
	debitSet := l.Debit.IsPositive()
	creditSet := l.Credit.IsPositive()
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, l.LineNumber)
	}
	if debitSet == creditSet {
		return fmt.Errorf("%w: line %d must have exactly one of debit or credit set", apperrors.ErrValidation, l.LineNumber)
	}
	return nil
}

// Swapped returns a copy of the line with debit and credit exchanged.
// Used for reversal and compensating (unpost) postings.
func (l JournalEntryLine) Swapped() JournalEntryLine {
	out := l
	out.Debit, out.Credit = l.Credit, l.Debit
	return out
}

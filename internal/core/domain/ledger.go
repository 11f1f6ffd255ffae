package domain

import "time"

// GeneralLedgerRow is one immutable row in the general ledger, produced by
// posting one journal entry line. Rows are append-only: they are never updated
// or deleted after creation. Unposting and reversal add new rows with the
// sides swapped; the originals stay untouched as the audit trail.
type GeneralLedgerRow struct {
	RowID      string `json:"rowID"` // Primary key (UUID)
	AccountID  string `json:"accountID"`
	EntryID    string `json:"entryID"`
	LineNumber int    `json:"lineNumber"`
	Debit      Money  `json:"debit"`
	Credit     Money  `json:"credit"`
	// RunningBalance is the account's signed balance immediately after this
	// row was applied, by the account's normal side.
	RunningBalance Money     `json:"runningBalance"`
	PostedAt       time.Time `json:"postedAt"`

	// Compensates marks rows written by an unpost. They cancel an earlier
	// posting of the same entry without being a user-visible reversal entry.
	Compensates bool `json:"compensates,omitempty"`

	// DueDate carries the source line's due date for receivable/payable rows.
	DueDate *time.Time `json:"dueDate,omitempty"`
	// SettledAt is stamped by downstream settlement (payment allocation,
	// credit notes). Open rows with a due date feed the aging report.
	SettledAt *time.Time `json:"settledAt,omitempty"`
}

// Open reports whether the row is an unsettled receivable/payable row.
func (r GeneralLedgerRow) Open() bool {
	return r.DueDate != nil && r.SettledAt == nil
}

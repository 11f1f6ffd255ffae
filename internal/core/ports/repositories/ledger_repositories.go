package repositories

import (
	"context"
	"time"

	"github.com/finvolt/posting_engine/internal/core/domain"
)

// LedgerReader defines read operations over the append-only general ledger.
type LedgerReader interface {
	// RowsForAccount retrieves every ledger row for an account in posting order.
	RowsForAccount(ctx context.Context, accountID string) ([]domain.GeneralLedgerRow, error)

	// RowsForAccountAsOf retrieves rows posted on or before asOf.
	RowsForAccountAsOf(ctx context.Context, accountID string, asOf time.Time) ([]domain.GeneralLedgerRow, error)

	// RowsForEntry retrieves the rows a posted entry produced, including any
	// compensating rows written by a later unpost.
	RowsForEntry(ctx context.Context, entryID string) ([]domain.GeneralLedgerRow, error)

	// SumsForAccount returns the raw unsigned debit and credit totals for an
	// account, independent of its normal-side sign convention.
	SumsForAccount(ctx context.Context, accountID string) (debit, credit domain.Money, err error)

	// SumsForAccountAsOf is SumsForAccount restricted to rows posted on or
	// before asOf.
	SumsForAccountAsOf(ctx context.Context, accountID string, asOf time.Time) (debit, credit domain.Money, err error)

	// FindOpenRows retrieves unsettled rows carrying a due date, posted on or
	// before asOf. Input to the aging report.
	FindOpenRows(ctx context.Context, asOf time.Time) ([]domain.GeneralLedgerRow, error)
}

// LedgerWriter is the single mutation surface of the general ledger. Both
// methods execute as one atomic unit of work: either every row is written,
// every cached balance updated and the entry status flipped, or nothing is.
//
// Implementations must lock the touched accounts in ascending account-id
// order before reading balances, so that concurrent postings sharing accounts
// serialize without deadlocking.
type LedgerWriter interface {
	// AppendEntryRows writes one ledger row per line (in line-number order,
	// running balances computed against the locked account balances), applies
	// balanceChanges to the cached account balances, and moves the entry to
	// newStatus. The status move is compare-and-set against entry.Status as
	// the caller loaded it, so two workers racing on one entry cannot both
	// append rows; the loser fails with ErrInvalidStateTransition. With
	// compensates set the rows are marked as unpost compensation.
	AppendEntryRows(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine, balanceChanges map[string]domain.Money, newStatus domain.EntryStatus, compensates bool, postedAt time.Time, postedBy string) error

	// AppendReversalRows persists the reversing entry, writes its ledger rows
	// and balance updates, and marks the original entry REVERSED with the
	// back-link, all in the same unit of work.
	AppendReversalRows(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalEntryLine, balanceChanges map[string]domain.Money, originalEntryID string, postedAt time.Time, postedBy string) error
}

// LedgerRepositoryFacade combines ledger read and write interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

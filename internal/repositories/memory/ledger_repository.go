package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	"github.com/finvolt/posting_engine/internal/utils/accounting"
)

type ledgerRepository struct {
	store *Store
}

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepository)(nil)

func (r *ledgerRepository) RowsForAccount(ctx context.Context, accountID string) ([]domain.GeneralLedgerRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]domain.GeneralLedgerRow(nil), r.store.rowsByAccount[accountID]...), nil
}

func (r *ledgerRepository) RowsForAccountAsOf(ctx context.Context, accountID string, asOf time.Time) ([]domain.GeneralLedgerRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.GeneralLedgerRow
	for _, row := range r.store.rowsByAccount[accountID] {
		if !row.PostedAt.After(asOf) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *ledgerRepository) RowsForEntry(ctx context.Context, entryID string) ([]domain.GeneralLedgerRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]domain.GeneralLedgerRow(nil), r.store.rowsByEntry[entryID]...), nil
}

func (r *ledgerRepository) SumsForAccount(ctx context.Context, accountID string) (debit, credit domain.Money, err error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	debit, credit = domain.ZeroMoney(), domain.ZeroMoney()
	for _, row := range r.store.rowsByAccount[accountID] {
		debit = debit.Add(row.Debit)
		credit = credit.Add(row.Credit)
	}
	return debit, credit, nil
}

func (r *ledgerRepository) SumsForAccountAsOf(ctx context.Context, accountID string, asOf time.Time) (debit, credit domain.Money, err error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	debit, credit = domain.ZeroMoney(), domain.ZeroMoney()
	for _, row := range r.store.rowsByAccount[accountID] {
		if row.PostedAt.After(asOf) {
			continue
		}
		debit = debit.Add(row.Debit)
		credit = credit.Add(row.Credit)
	}
	return debit, credit, nil
}

func (r *ledgerRepository) FindOpenRows(ctx context.Context, asOf time.Time) ([]domain.GeneralLedgerRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.GeneralLedgerRow
	for _, rows := range r.store.rowsByAccount {
		for _, row := range rows {
			if row.Open() && !row.PostedAt.After(asOf) {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

// AppendEntryRows writes the entry's ledger rows, balance updates and status
// flip as one unit. Per-account locks are taken in ascending id order first;
// all validation happens before the first mutation so a failure leaves the
// store untouched.
func (r *ledgerRepository) AppendEntryRows(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine, balanceChanges map[string]domain.Money, newStatus domain.EntryStatus, compensates bool, postedAt time.Time, postedBy string) error {
	accountIDs := distinctAccountIDs(lines)
	unlock := r.store.lockAccounts(accountIDs)
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.entries[entry.EntryID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	// The caller validated against its own loaded copy; re-check the stored
	// status so two workers racing on the same entry cannot both post it.
	if stored.Status != entry.Status {
		return fmt.Errorf("%w: entry %s is %s, expected %s",
			apperrors.ErrInvalidStateTransition, entry.EntryID, stored.Status, entry.Status)
	}
	balances, err := r.workingBalances(accountIDs)
	if err != nil {
		return err
	}

	rows, err := r.buildRows(lines, balances, balanceChanges, compensates, postedAt)
	if err != nil {
		return err
	}

	r.applyRows(rows, balances, postedBy, postedAt)
	r.setEntryStatus(entry.EntryID, newStatus, postedBy, postedAt)
	return nil
}

// AppendReversalRows persists the reversing entry itself, its ledger rows and
// balance updates, and marks the original REVERSED, atomically.
func (r *ledgerRepository) AppendReversalRows(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalEntryLine, balanceChanges map[string]domain.Money, originalEntryID string, postedAt time.Time, postedBy string) error {
	accountIDs := distinctAccountIDs(lines)
	unlock := r.store.lockAccounts(accountIDs)
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	original, ok := r.store.entries[originalEntryID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, originalEntryID)
	}
	if original.Status != domain.Posted {
		return fmt.Errorf("%w: entry %s is %s", apperrors.ErrInvalidStateTransition, originalEntryID, original.Status)
	}
	if _, ok := r.store.entries[reversing.EntryID]; ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, reversing.EntryID)
	}
	balances, err := r.workingBalances(accountIDs)
	if err != nil {
		return err
	}
	rows, err := r.buildRows(lines, balances, balanceChanges, false, postedAt)
	if err != nil {
		return err
	}

	reversing.Status = domain.Posted
	reversing.Lines = nil
	r.store.entries[reversing.EntryID] = reversing
	r.store.entryLines[reversing.EntryID] = append([]domain.JournalEntryLine(nil), lines...)

	original.Status = domain.Reversed
	original.ReversedByEntryID = &reversing.EntryID
	original.LastUpdatedAt = postedAt
	original.LastUpdatedBy = postedBy
	r.store.entries[originalEntryID] = original

	r.applyRows(rows, balances, postedBy, postedAt)
	return nil
}

func distinctAccountIDs(lines []domain.JournalEntryLine) []string {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			ids = append(ids, l.AccountID)
		}
	}
	return ids
}

// workingBalances snapshots the cached balances of the locked accounts.
func (r *ledgerRepository) workingBalances(accountIDs []string) (map[string]domain.Money, error) {
	balances := make(map[string]domain.Money, len(accountIDs))
	for _, id := range accountIDs {
		account, ok := r.store.accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		balances[id] = account.Balance
	}
	return balances, nil
}

// buildRows produces one ledger row per line in line-number order, advancing
// the working balances as it goes. The accumulated per-account deltas are
// cross-checked against the caller's balanceChanges; a mismatch is an
// integrity fault and nothing is written. Caller holds store.mu.
func (r *ledgerRepository) buildRows(lines []domain.JournalEntryLine, balances map[string]domain.Money, balanceChanges map[string]domain.Money, compensates bool, postedAt time.Time) ([]domain.GeneralLedgerRow, error) {
	deltas := make(map[string]domain.Money, len(balances))
	rows := make([]domain.GeneralLedgerRow, 0, len(lines))

	for _, line := range lines {
		account, ok := r.store.accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, line.AccountID)
		}
		if _, ok := balanceChanges[line.AccountID]; !ok {
			return nil, fmt.Errorf("%w: no balance change computed for account %s",
				apperrors.ErrPostingIntegrity, line.AccountID)
		}

		change := accounting.SignedAmount(line.Debit, line.Credit, account.AccountType.NormalSide())
		balances[line.AccountID] = balances[line.AccountID].Add(change)
		if existing, ok := deltas[line.AccountID]; ok {
			deltas[line.AccountID] = existing.Add(change)
		} else {
			deltas[line.AccountID] = change
		}

		rows = append(rows, domain.GeneralLedgerRow{
			RowID:          uuid.NewString(),
			AccountID:      line.AccountID,
			EntryID:        line.EntryID,
			LineNumber:     line.LineNumber,
			Debit:          line.Debit,
			Credit:         line.Credit,
			RunningBalance: balances[line.AccountID],
			PostedAt:       postedAt,
			Compensates:    compensates,
			DueDate:        line.DueDate,
		})
	}

	for account, want := range balanceChanges {
		got, ok := deltas[account]
		if !ok || !got.Equal(want) {
			return nil, fmt.Errorf("%w: account %s delta %s does not match expected %s",
				apperrors.ErrPostingIntegrity, account, got.String(), want.String())
		}
	}
	return rows, nil
}

func (r *ledgerRepository) applyRows(rows []domain.GeneralLedgerRow, balances map[string]domain.Money, postedBy string, postedAt time.Time) {
	for _, row := range rows {
		r.store.rowsByAccount[row.AccountID] = append(r.store.rowsByAccount[row.AccountID], row)
		r.store.rowsByEntry[row.EntryID] = append(r.store.rowsByEntry[row.EntryID], row)
	}
	for id, balance := range balances {
		account := r.store.accounts[id]
		account.Balance = balance
		account.LastUpdatedAt = postedAt
		account.LastUpdatedBy = postedBy
		r.store.accounts[id] = account
	}
}

func (r *ledgerRepository) setEntryStatus(entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) {
	entry := r.store.entries[entryID]
	entry.Status = status
	entry.LastUpdatedAt = updatedAt
	entry.LastUpdatedBy = updatedBy
	r.store.entries[entryID] = entry
}

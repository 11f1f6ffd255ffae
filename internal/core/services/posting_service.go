package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/finvolt/posting_engine/internal/core/ports/services"
	"github.com/finvolt/posting_engine/internal/utils/accounting"
)

// ledgerPosterService turns approved journal entries into immutable ledger
// rows. Every posting is one atomic unit of work: the repository writes all
// rows, balance updates and the status flip together or not at all.
type ledgerPosterService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	fiscalSvc   portssvc.FiscalCalendarSvcFacade
}

// NewLedgerPosterService creates the ledger poster.
func NewLedgerPosterService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerRepositoryFacade, fiscalSvc portssvc.FiscalCalendarSvcFacade) portssvc.LedgerPosterSvc {
	return &ledgerPosterService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		fiscalSvc:   fiscalSvc,
	}
}

var _ portssvc.LedgerPosterSvc = (*ledgerPosterService)(nil)

// validateForPosting re-checks everything posting depends on. Time may have
// passed since approval, so the submit-time checks are all repeated here.
func (s *ledgerPosterService) validateForPosting(ctx context.Context, entry *domain.JournalEntry, lines []domain.JournalEntryLine) (map[string]domain.Account, error) {
	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, err
	}

	// Cross-check stored totals against the line sums. A mismatch means the
	// entry record was corrupted after approval; abort, never retry.
	totalDebit, totalCredit := accounting.SumLines(lines)
	if !entry.TotalDebit.Equal(totalDebit) || !entry.TotalCredit.Equal(totalCredit) {
		return nil, fmt.Errorf("%w: entry %s has totals %s/%s but line sums %s/%s",
			apperrors.ErrPostingIntegrity, entry.EntryID,
			entry.TotalDebit.String(), entry.TotalCredit.String(),
			totalDebit.String(), totalCredit.String())
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			accountIDs = append(accountIDs, l.AccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for posting: %w", err)
	}
	for _, id := range accountIDs {
		acc, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
		if !acc.IsPostingAccount {
			return nil, fmt.Errorf("%w: account %s (%s)", apperrors.ErrNonPostingAccount, acc.AccountCode, id)
		}
	}
	return accounts, nil
}

// orderedLines returns the entry's lines sorted by line number. Ledger rows
// and running balances are written in exactly this order.
func orderedLines(lines []domain.JournalEntryLine) []domain.JournalEntryLine {
	out := make([]domain.JournalEntryLine, len(lines))
	copy(out, lines)
	sort.Slice(out, func(i, j int) bool { return out[i].LineNumber < out[j].LineNumber })
	return out
}

// PostApprovedEntry posts one APPROVED entry.
func (s *ledgerPosterService) PostApprovedEntry(ctx context.Context, entry *domain.JournalEntry, postedBy string) error {
	if entry.Status != domain.Approved {
		return fmt.Errorf("%w: cannot post entry in status %s", apperrors.ErrInvalidStateTransition, entry.Status)
	}

	key := domain.PeriodKey{Year: entry.FiscalYear, Period: entry.FiscalPeriod}
	release := s.fiscalSvc.BeginPosting(key)
	defer release()

	open, err := s.fiscalSvc.IsOpen(ctx, entry.FiscalYear, entry.FiscalPeriod)
	if err != nil {
		return err
	}
	if !open {
		return fmt.Errorf("%w: %d/%d", apperrors.ErrClosedPeriod, entry.FiscalYear, entry.FiscalPeriod)
	}

	lines := orderedLines(entry.Lines)
	accounts, err := s.validateForPosting(ctx, entry, lines)
	if err != nil {
		return err
	}

	balanceChanges, err := accounting.BalanceChanges(lines, accounts)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.ledgerRepo.AppendEntryRows(ctx, *entry, lines, balanceChanges, domain.Posted, false, now, postedBy); err != nil {
		s.LogError(ctx, err, "Failed to post entry", slog.String("entry_id", entry.EntryID))
		return fmt.Errorf("failed to post entry %s: %w", entry.EntryID, err)
	}

	entry.Status = domain.Posted
	s.LogInfo(ctx, "Entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.Int("lines", len(lines)))
	return nil
}

// CompensateEntry cancels a POSTED entry's balance effect by appending a
// compensating row set with debit and credit swapped. The original rows stay
// untouched; the entry returns to the editable UNPOSTED state.
func (s *ledgerPosterService) CompensateEntry(ctx context.Context, entry *domain.JournalEntry, userID string) error {
	if entry.Status != domain.Posted {
		return fmt.Errorf("%w: cannot unpost entry in status %s", apperrors.ErrInvalidStateTransition, entry.Status)
	}

	key := domain.PeriodKey{Year: entry.FiscalYear, Period: entry.FiscalPeriod}
	release := s.fiscalSvc.BeginPosting(key)
	defer release()

	open, err := s.fiscalSvc.IsOpen(ctx, entry.FiscalYear, entry.FiscalPeriod)
	if err != nil {
		return err
	}
	if !open {
		return fmt.Errorf("%w: %d/%d", apperrors.ErrClosedPeriod, entry.FiscalYear, entry.FiscalPeriod)
	}

	swapped := make([]domain.JournalEntryLine, 0, len(entry.Lines))
	for _, l := range orderedLines(entry.Lines) {
		swapped = append(swapped, l.Swapped())
	}

	accountIDs := make([]string, 0, len(swapped))
	seen := make(map[string]struct{})
	for _, l := range swapped {
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			accountIDs = append(accountIDs, l.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts for unpost: %w", err)
	}

	balanceChanges, err := accounting.BalanceChanges(swapped, accounts)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.ledgerRepo.AppendEntryRows(ctx, *entry, swapped, balanceChanges, domain.Unposted, true, now, userID); err != nil {
		s.LogError(ctx, err, "Failed to unpost entry", slog.String("entry_id", entry.EntryID))
		return fmt.Errorf("failed to unpost entry %s: %w", entry.EntryID, err)
	}

	entry.Status = domain.Unposted
	s.LogInfo(ctx, "Entry unposted", slog.String("entry_id", entry.EntryID))
	return nil
}

// PostReversal posts a reversing entry and marks its original REVERSED in the
// same unit of work.
func (s *ledgerPosterService) PostReversal(ctx context.Context, reversing *domain.JournalEntry, originalEntryID string, postedBy string) error {
	key := domain.PeriodKey{Year: reversing.FiscalYear, Period: reversing.FiscalPeriod}
	release := s.fiscalSvc.BeginPosting(key)
	defer release()

	open, err := s.fiscalSvc.IsOpen(ctx, reversing.FiscalYear, reversing.FiscalPeriod)
	if err != nil {
		return err
	}
	if !open {
		return fmt.Errorf("%w: %d/%d", apperrors.ErrClosedPeriod, reversing.FiscalYear, reversing.FiscalPeriod)
	}

	lines := orderedLines(reversing.Lines)
	accounts, err := s.validateForPosting(ctx, reversing, lines)
	if err != nil {
		return err
	}
	balanceChanges, err := accounting.BalanceChanges(lines, accounts)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.ledgerRepo.AppendReversalRows(ctx, *reversing, lines, balanceChanges, originalEntryID, now, postedBy); err != nil {
		s.LogError(ctx, err, "Failed to post reversal",
			slog.String("reversing_entry_id", reversing.EntryID),
			slog.String("original_entry_id", originalEntryID))
		return fmt.Errorf("failed to post reversal of entry %s: %w", originalEntryID, err)
	}

	reversing.Status = domain.Posted
	s.LogInfo(ctx, "Reversal posted",
		slog.String("reversing_entry_id", reversing.EntryID),
		slog.String("original_entry_id", originalEntryID))
	return nil
}

// PostBulk posts a batch of approved entries. Entries are scheduled in waves:
// within a wave no two entries share an account, so they post in parallel;
// an entry sharing an account with the current wave starts the next one.
// Correctness does not depend on this scheduling; the repository's
// per-account locks serialize conflicting postings either way.
func (s *ledgerPosterService) PostBulk(ctx context.Context, entries []*domain.JournalEntry, postedBy string) error {
	waves := planPostingWaves(entries)

	var errs []error
	for _, wave := range waves {
		var wg sync.WaitGroup
		waveErrs := make([]error, len(wave))
		for i, entry := range wave {
			wg.Add(1)
			go func(i int, entry *domain.JournalEntry) {
				defer wg.Done()
				waveErrs[i] = s.PostApprovedEntry(ctx, entry, postedBy)
			}(i, entry)
		}
		wg.Wait()
		for _, err := range waveErrs {
			if err != nil {
				errs = append(errs, err)
				// A fatal integrity violation stops the whole batch.
				if errors.Is(err, apperrors.ErrPostingIntegrity) {
					return errors.Join(errs...)
				}
			}
		}
	}
	return errors.Join(errs...)
}

// planPostingWaves greedily groups entries so that no two entries within a
// wave touch the same account.
func planPostingWaves(entries []*domain.JournalEntry) [][]*domain.JournalEntry {
	var waves [][]*domain.JournalEntry
	var waveAccounts map[string]struct{}

	for _, entry := range entries {
		conflict := false
		if waveAccounts != nil {
			for _, l := range entry.Lines {
				if _, ok := waveAccounts[l.AccountID]; ok {
					conflict = true
					break
				}
			}
		}
		if waveAccounts == nil || conflict {
			waves = append(waves, nil)
			waveAccounts = make(map[string]struct{})
		}
		last := len(waves) - 1
		waves[last] = append(waves[last], entry)
		for _, l := range entry.Lines {
			waveAccounts[l.AccountID] = struct{}{}
		}
	}
	return waves
}

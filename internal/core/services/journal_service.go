package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/finvolt/posting_engine/internal/core/ports/services"
	"github.com/finvolt/posting_engine/internal/dto"
	"github.com/finvolt/posting_engine/internal/utils/accounting"
)

// journalService drives entries through their lifecycle. It owns everything
// up to and including the status bookkeeping; actual ledger writes are
// delegated to the poster.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalEntryRepositoryFacade
	poster      portssvc.LedgerPosterSvc
}

// NewJournalService creates the journal entry service.
func NewJournalService(journalRepo portsrepo.JournalEntryRepositoryFacade, poster portssvc.LedgerPosterSvc) portssvc.JournalSvcFacade {
	return &journalService{journalRepo: journalRepo, poster: poster}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts request lines into domain lines with sequential line
// numbers. Each line is shape-checked: exactly one positive side.
func buildLines(entryID string, reqLines []dto.CreateJournalLineRequest, userID string, now time.Time) ([]domain.JournalEntryLine, error) {
	lines := make([]domain.JournalEntryLine, 0, len(reqLines))
	for i, rl := range reqLines {
		line := domain.JournalEntryLine{
			LineID:     uuid.NewString(),
			EntryID:    entryID,
			LineNumber: i + 1,
			AccountID:  rl.AccountID,
			Debit:      domain.NewMoneyFromDecimal(rl.Debit),
			Credit:     domain.NewMoneyFromDecimal(rl.Credit),
			Memo:       rl.Memo,
			DueDate:    rl.DueDate,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// CreateDraftEntry creates a new entry in DRAFT. Lines must be well formed
// but the entry does not have to balance yet; balance is enforced at submit.
func (s *journalService) CreateDraftEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	lines, err := buildLines(entryID, req.Lines, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	key := domain.PeriodOf(req.EntryDate)
	entryNumber, err := s.journalRepo.NextEntryNumber(ctx, key.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to issue entry number for %d: %w", key.Year, err)
	}

	totalDebit, totalCredit := accounting.SumLines(lines)
	entry := domain.JournalEntry{
		EntryID:      entryID,
		EntryNumber:  entryNumber,
		EntryDate:    req.EntryDate,
		FiscalYear:   key.Year,
		FiscalPeriod: key.Period,
		Description:  req.Description,
		Status:       domain.Draft,
		TotalDebit:   totalDebit,
		TotalCredit:  totalCredit,
		Lines:        lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_number", entryNumber))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.LogInfo(ctx, "Draft entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.Int("lines", len(lines)))
	return &entry, nil
}

// UpdateDraftEntry edits an entry in an editable state (DRAFT, REJECTED or
// UNPOSTED). A non-nil Lines replaces the full line set.
func (s *journalService) UpdateDraftEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.Status.Editable() {
		return nil, fmt.Errorf("%w: cannot edit entry in status %s", apperrors.ErrInvalidStateTransition, entry.Status)
	}

	now := time.Now().UTC()
	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
		key := domain.PeriodOf(*req.EntryDate)
		entry.FiscalYear = key.Year
		entry.FiscalPeriod = key.Period
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Lines != nil {
		lines, err := buildLines(entry.EntryID, req.Lines, userID, now)
		if err != nil {
			return nil, err
		}
		entry.Lines = lines
	}
	entry.TotalDebit, entry.TotalCredit = accounting.SumLines(entry.Lines)
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.journalRepo.UpdateEntry(ctx, *entry, entry.Lines); err != nil {
		return nil, fmt.Errorf("failed to update journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// GetEntryByID retrieves an entry with its lines attached.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntriesByPeriod retrieves all entries dated in a fiscal period.
func (s *journalService) ListEntriesByPeriod(ctx context.Context, year, period int) ([]domain.JournalEntry, error) {
	return s.journalRepo.ListEntriesByPeriod(ctx, year, period)
}

// SubmitForApproval moves an editable entry to SUBMITTED. This is where the
// balance rule bites: totals must match to the cent and at least two distinct
// accounts must be touched.
func (s *journalService) SubmitForApproval(ctx context.Context, entryID string, userID string) error {
	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if !entry.Status.CanTransitionTo(domain.Submitted) {
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidStateTransition, entry.Status, domain.Submitted)
	}
	if err := accounting.ValidateEntryBalance(entry.Lines); err != nil {
		return err
	}

	if err := s.journalRepo.UpdateEntryStatus(ctx, entryID, domain.Submitted, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to submit entry %s: %w", entryID, err)
	}
	s.LogInfo(ctx, "Entry submitted for approval", slog.String("entry_id", entryID))
	return nil
}

// Approve moves a SUBMITTED entry to APPROVED.
func (s *journalService) Approve(ctx context.Context, entryID string, approverID string) error {
	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if !entry.Status.CanTransitionTo(domain.Approved) {
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidStateTransition, entry.Status, domain.Approved)
	}

	if err := s.journalRepo.UpdateEntryReview(ctx, entryID, domain.Approved, approverID, "", time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to approve entry %s: %w", entryID, err)
	}
	s.LogInfo(ctx, "Entry approved", slog.String("entry_id", entryID), slog.String("approved_by", approverID))
	return nil
}

// Reject moves a SUBMITTED entry back to REJECTED. A reason is required.
func (s *journalService) Reject(ctx context.Context, entryID string, reason, userID string) error {
	if reason == "" {
		return fmt.Errorf("%w: rejection requires a reason", apperrors.ErrValidation)
	}
	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if !entry.Status.CanTransitionTo(domain.Rejected) {
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidStateTransition, entry.Status, domain.Rejected)
	}

	if err := s.journalRepo.UpdateEntryReview(ctx, entryID, domain.Rejected, userID, reason, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to reject entry %s: %w", entryID, err)
	}
	s.LogInfo(ctx, "Entry rejected", slog.String("entry_id", entryID), slog.String("reason", reason))
	return nil
}

// Post writes an APPROVED entry to the general ledger.
func (s *journalService) Post(ctx context.Context, entryID string, userID string) error {
	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	return s.poster.PostApprovedEntry(ctx, entry, userID)
}

// Unpost cancels a POSTED entry's ledger effect with compensating rows and
// returns it to the editable UNPOSTED state.
func (s *journalService) Unpost(ctx context.Context, entryID string, userID string) error {
	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	return s.poster.CompensateEntry(ctx, entry, userID)
}

// Reverse creates and posts a mirror image of a POSTED entry, dated today.
// The original is marked REVERSED and both entries stay linked.
func (s *journalService) Reverse(ctx context.Context, entryID string, reason, userID string) (*domain.JournalEntry, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: reversal requires a reason", apperrors.ErrValidation)
	}

	original, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: cannot reverse entry in status %s", apperrors.ErrInvalidStateTransition, original.Status)
	}
	// Reversing a reversal would re-apply the original; unpost or a fresh
	// entry is the way out of that situation.
	if original.IsReversal() {
		return nil, fmt.Errorf("%w: entry %s is itself a reversal", apperrors.ErrValidation, entryID)
	}

	now := time.Now().UTC()
	key := domain.PeriodOf(now)
	reversingID := uuid.NewString()

	swapped := make([]domain.JournalEntryLine, 0, len(original.Lines))
	for _, l := range orderedLines(original.Lines) {
		sw := l.Swapped()
		sw.LineID = uuid.NewString()
		sw.EntryID = reversingID
		sw.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
		swapped = append(swapped, sw)
	}

	entryNumber, err := s.journalRepo.NextEntryNumber(ctx, key.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to issue entry number for %d: %w", key.Year, err)
	}

	totalDebit, totalCredit := accounting.SumLines(swapped)
	reversing := domain.JournalEntry{
		EntryID:           reversingID,
		EntryNumber:       entryNumber,
		EntryDate:         now,
		FiscalYear:        key.Year,
		FiscalPeriod:      key.Period,
		Description:       fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, reason),
		Status:            domain.Approved,
		TotalDebit:        totalDebit,
		TotalCredit:       totalCredit,
		ReversalOfEntryID: &original.EntryID,
		Lines:             swapped,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.poster.PostReversal(ctx, &reversing, original.EntryID, userID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Entry reversed",
		slog.String("original_entry_id", original.EntryID),
		slog.String("reversing_entry_id", reversing.EntryID))
	return &reversing, nil
}

// PostBulk loads and posts a batch of approved entries.
func (s *journalService) PostBulk(ctx context.Context, entryIDs []string, userID string) error {
	entries := make([]*domain.JournalEntry, 0, len(entryIDs))
	for _, id := range entryIDs {
		entry, err := s.GetEntryByID(ctx, id)
		if err != nil {
			return err
		}
		if entry.Status != domain.Approved {
			return fmt.Errorf("%w: entry %s is %s, not %s", apperrors.ErrInvalidStateTransition, id, entry.Status, domain.Approved)
		}
		entries = append(entries, entry)
	}
	return s.poster.PostBulk(ctx, entries, userID)
}

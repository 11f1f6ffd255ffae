package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
)

type journalRepository struct {
	store *Store
}

var _ portsrepo.JournalEntryRepositoryFacade = (*journalRepository)(nil)

func (r *journalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	entry, ok := r.store.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	entry.Lines = nil
	return &entry, nil
}

func (r *journalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.entryLines[entryID]
	if !ok {
		return nil, nil
	}
	lines := make([]domain.JournalEntryLine, len(stored))
	copy(lines, stored)
	sort.Slice(lines, func(i, j int) bool { return lines[i].LineNumber < lines[j].LineNumber })
	return lines, nil
}

func (r *journalRepository) ListEntriesByPeriod(ctx context.Context, year, period int) ([]domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.JournalEntry
	for _, entry := range r.store.entries {
		if entry.FiscalYear == year && entry.FiscalPeriod == period {
			entry.Lines = nil
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryNumber < out[j].EntryNumber })
	return out, nil
}

func (r *journalRepository) CountPendingEntriesInPeriod(ctx context.Context, year, period int) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, entry := range r.store.entries {
		if entry.FiscalYear != year || entry.FiscalPeriod != period {
			continue
		}
		switch entry.Status {
		case domain.Draft, domain.Submitted, domain.Approved, domain.Unposted:
			count++
		}
	}
	return count, nil
}

func (r *journalRepository) NextEntryNumber(ctx context.Context, fiscalYear int) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entrySeq[fiscalYear]++
	return fmt.Sprintf("JE-%d-%06d", fiscalYear, r.store.entrySeq[fiscalYear]), nil
}

func (r *journalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.entries[entry.EntryID]; ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	entry.Lines = nil
	r.store.entries[entry.EntryID] = entry
	r.store.entryLines[entry.EntryID] = append([]domain.JournalEntryLine(nil), lines...)
	return nil
}

func (r *journalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.entries[entry.EntryID]; !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	entry.Lines = nil
	r.store.entries[entry.EntryID] = entry
	r.store.entryLines[entry.EntryID] = append([]domain.JournalEntryLine(nil), lines...)
	return nil
}

func (r *journalRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry, ok := r.store.entries[entryID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	entry.Status = status
	entry.LastUpdatedAt = updatedAt
	entry.LastUpdatedBy = updatedBy
	r.store.entries[entryID] = entry
	return nil
}

func (r *journalRepository) UpdateEntryReview(ctx context.Context, entryID string, status domain.EntryStatus, reviewerID, reason string, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry, ok := r.store.entries[entryID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	entry.Status = status
	if status == domain.Approved {
		entry.ApprovedBy = reviewerID
		entry.RejectionReason = ""
	} else {
		entry.RejectionReason = reason
	}
	entry.LastUpdatedAt = updatedAt
	entry.LastUpdatedBy = reviewerID
	r.store.entries[entryID] = entry
	return nil
}

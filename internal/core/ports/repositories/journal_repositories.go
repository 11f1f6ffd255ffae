package repositories

import (
	"context"
	"time"

	"github.com/finvolt/posting_engine/internal/core/domain"
)

// JournalEntryReader defines read operations for journal entry data.
type JournalEntryReader interface {
	// FindEntryByID retrieves a journal entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves an entry's lines in line-number order.
	// Lines are owned by the entry; there is no reverse navigation.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// ListEntriesByPeriod retrieves all entries dated in a fiscal period.
	ListEntriesByPeriod(ctx context.Context, year, period int) ([]domain.JournalEntry, error)

	// CountPendingEntriesInPeriod counts entries in the period that are not
	// yet posted (DRAFT, SUBMITTED, APPROVED or UNPOSTED). The period close
	// gate refuses while this is non-zero.
	CountPendingEntriesInPeriod(ctx context.Context, year, period int) (int, error)

	// NextEntryNumber issues the next sequential entry number for a fiscal year.
	NextEntryNumber(ctx context.Context, fiscalYear int) (string, error)
}

// JournalEntryWriter defines write operations for journal entry data.
type JournalEntryWriter interface {
	// SaveEntry persists a new entry with its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// UpdateEntry replaces an editable entry's header fields and lines.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// UpdateEntryStatus moves an entry to a new status.
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error

	// UpdateEntryReview records an approve or reject decision together with
	// the status change.
	UpdateEntryReview(ctx context.Context, entryID string, status domain.EntryStatus, reviewerID, reason string, updatedAt time.Time) error
}

// JournalEntryRepositoryFacade combines all journal entry repository interfaces.
type JournalEntryRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}

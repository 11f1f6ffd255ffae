package services

import (
	"context"

	"github.com/finvolt/posting_engine/internal/core/domain"
)

// LedgerPosterSvc is the transactional operation that turns approved entries
// into immutable ledger rows. It is an internal collaborator of the journal
// lifecycle, not part of the outward surface.
type LedgerPosterSvc interface {
	// PostApprovedEntry validates and posts one APPROVED entry atomically.
	PostApprovedEntry(ctx context.Context, entry *domain.JournalEntry, postedBy string) error

	// CompensateEntry writes the compensating row set for an unpost and moves
	// the entry to UNPOSTED.
	CompensateEntry(ctx context.Context, entry *domain.JournalEntry, userID string) error

	// PostReversal posts a reversing entry and marks the original REVERSED in
	// the same unit of work.
	PostReversal(ctx context.Context, reversing *domain.JournalEntry, originalEntryID string, postedBy string) error

	// PostBulk posts several approved entries, running the ones with disjoint
	// account sets in parallel.
	PostBulk(ctx context.Context, entries []*domain.JournalEntry, postedBy string) error
}

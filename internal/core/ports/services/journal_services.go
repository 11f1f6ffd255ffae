package services

import (
	"context"

	"github.com/finvolt/posting_engine/internal/core/domain"
	"github.com/finvolt/posting_engine/internal/dto"
)

// JournalSvcFacade drives the journal entry lifecycle:
//
//	DRAFT -> SUBMITTED -> {APPROVED, REJECTED}; APPROVED -> POSTED;
//	POSTED -> {UNPOSTED, REVERSED}
//
// REJECTED and UNPOSTED entries are editable and can be resubmitted.
// Any transition outside the table fails with ErrInvalidStateTransition.
type JournalSvcFacade interface {
	CreateDraftEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)
	UpdateDraftEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntriesByPeriod(ctx context.Context, year, period int) ([]domain.JournalEntry, error)

	// SubmitForApproval moves a balanced DRAFT-equivalent entry to SUBMITTED.
	SubmitForApproval(ctx context.Context, entryID string, userID string) error

	// Approve moves a SUBMITTED entry to APPROVED.
	Approve(ctx context.Context, entryID string, approverID string) error

	// Reject moves a SUBMITTED entry back to an editable state; a reason is required.
	Reject(ctx context.Context, entryID string, reason, userID string) error

	// Post writes the entry to the general ledger. Only valid from APPROVED,
	// only into an OPEN period, only against posting accounts.
	Post(ctx context.Context, entryID string, userID string) error

	// Unpost cancels a POSTED entry's balance effect with compensating ledger
	// rows (never by deleting rows) and returns it to an editable state.
	Unpost(ctx context.Context, entryID string, userID string) error

	// Reverse creates and immediately posts a new entry with every line's
	// sides swapped, dated today, linked to the original. The original is
	// marked REVERSED; its rows are untouched.
	Reverse(ctx context.Context, entryID string, reason, userID string) (*domain.JournalEntry, error)

	// PostBulk posts a batch of approved entries. Entries with disjoint
	// account sets may post in parallel; entries sharing accounts serialize.
	PostBulk(ctx context.Context, entryIDs []string, userID string) error
}

package services

import (
	"context"

	"github.com/finvolt/posting_engine/internal/core/domain"
)

// PeriodGate serializes fiscal period closing against in-flight postings.
// Posts hold the read side for the duration of their unit of work; close and
// reopen take the write side, so a period can never flip to CLOSED while a
// post targeting it is mid-flight.
type PeriodGate interface {
	// BeginPosting acquires the shared side of the period's gate and returns
	// the release function. It never blocks on I/O.
	BeginPosting(key domain.PeriodKey) (release func())
}

// FiscalCalendarSvcFacade tracks open/closed status per (year, period) and is
// the gate for all postings.
type FiscalCalendarSvcFacade interface {
	PeriodGate

	// IsOpen reports whether the period accepts postings. Unknown periods are
	// not open.
	IsOpen(ctx context.Context, year, period int) (bool, error)

	// OpenPeriod creates a period in OPEN state.
	OpenPeriod(ctx context.Context, year, period int, userID string) (*domain.FiscalPeriod, error)

	// ClosePeriod closes the period for new postings. Fails with
	// ErrPendingEntriesExist while unposted entries remain in the period.
	ClosePeriod(ctx context.Context, year, period int, userID string) error

	// ReopenPeriod reopens a closed period. Always allowed, but recorded in
	// the period audit log because it re-enables postings retroactively.
	ReopenPeriod(ctx context.Context, year, period int, reason, userID string) error

	// PeriodAuditTrail returns the close/reopen history of a period.
	PeriodAuditTrail(ctx context.Context, year, period int) ([]domain.PeriodAuditEvent, error)
}

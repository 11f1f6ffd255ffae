package services

import (
	"context"
	"time"

	"github.com/finvolt/posting_engine/internal/core/domain"
)

// ReportingSvcFacade produces the trial balance.
type ReportingSvcFacade interface {
	// VerifyTrialBalance sums debits and credits across every posting account
	// and asserts exact equality. Zero tolerance: any non-zero discrepancy is
	// a data-integrity fault.
	VerifyTrialBalance(ctx context.Context) (*domain.TrialBalanceResult, error)

	// GenerateTrialBalance runs the same aggregation restricted to rows up to
	// asOf, grouped by account, with the net balance shown on one column.
	GenerateTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)
}

// AgingSvcFacade buckets open receivable/payable ledger rows by days past due.
type AgingSvcFacade interface {
	// GenerateAgingReport builds the current/1-30/31-60/61-90/90+ buckets as
	// of the given date.
	GenerateAgingReport(ctx context.Context, asOf time.Time) (*domain.AgingReport, error)
}

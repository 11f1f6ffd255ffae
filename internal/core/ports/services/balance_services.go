package services

import (
	"context"
	"time"

	"github.com/finvolt/posting_engine/internal/core/domain"
)

// BalanceSvcFacade computes account balances from ledger rows. The cached
// balance column on accounts is a read optimization only; everything here is
// derived from ledger history and the two must reconcile at all times.
type BalanceSvcFacade interface {
	// AccountBalance is the signed sum of all ledger rows for the account,
	// by its normal side.
	AccountBalance(ctx context.Context, accountID string) (domain.Money, error)

	// AccountBalanceAsOf restricts the sum to rows posted on or before asOf.
	AccountBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (domain.Money, error)

	// AccountBalanceForPeriod is the delta between the as-of balances at end
	// and the day before start.
	AccountBalanceForPeriod(ctx context.Context, accountID string, start, end time.Time) (domain.Money, error)

	// AccountTotals returns the raw unsigned debit and credit sums,
	// independent of the normal-side sign convention. Used by audit reports.
	AccountTotals(ctx context.Context, accountID string) (debit, credit domain.Money, err error)

	// Reconcile compares the cached balance against the recomputed one.
	Reconcile(ctx context.Context, accountID string) (*domain.BalanceReconciliation, error)

	// RebuildBalance replays ledger history into the cached balance.
	// Disaster-recovery path; returns the rebuilt balance.
	RebuildBalance(ctx context.Context, accountID string, userID string) (domain.Money, error)
}

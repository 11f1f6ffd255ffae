package accounting

import (
	"fmt"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
)

// SignedAmount converts a line's (debit, credit) pair into the signed balance
// effect for an account with the given normal side.
//
// DEBIT-normal accounts (assets, expenses) grow by (debit - credit);
// CREDIT-normal accounts (liabilities, equity, revenue) grow by (credit - debit).
// This is used by both services and repositories so the sign convention lives
// in exactly one place.
func SignedAmount(debit, credit domain.Money, side domain.NormalSide) domain.Money {
	if side == domain.DebitSide {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// SumLines returns the unsigned debit and credit totals across all lines.
func SumLines(lines []domain.JournalEntryLine) (totalDebit, totalCredit domain.Money) {
	for _, l := range lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	return totalDebit, totalCredit
}

// ValidateEntryBalance checks the double-entry invariants of a line set:
// every line one-sided and positive, at least two distinct accounts, and the
// debit total exactly equal to the credit total.
func ValidateEntryBalance(lines []domain.JournalEntryLine) error {
	accountSet := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
		accountSet[l.AccountID] = struct{}{}
	}
	if len(accountSet) < 2 {
		return apperrors.ErrInsufficientLines
	}

	totalDebit, totalCredit := SumLines(lines)
	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: debit sum is %s, credit sum is %s",
			apperrors.ErrUnbalancedEntry, totalDebit.String(), totalCredit.String())
	}
	return nil
}

// BalanceChanges aggregates the signed balance effect per account across lines.
// Account normal sides are resolved from the accounts map, which must contain
// every referenced account.
func BalanceChanges(lines []domain.JournalEntryLine, accounts map[string]domain.Account) (map[string]domain.Money, error) {
	changes := make(map[string]domain.Money, len(accounts))
	for _, l := range lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrAccountNotFound, l.AccountID)
		}
		changes[l.AccountID] = changes[l.AccountID].Add(SignedAmount(l.Debit, l.Credit, acc.NormalSide()))
	}
	return changes, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/finvolt/posting_engine/internal/core/ports/services"
	"github.com/finvolt/posting_engine/internal/utils/accounting"
)

// balanceService derives balances from ledger history. The cached column on
// accounts never feeds a calculation here; it is only compared against.
type balanceService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerReader
}

// NewBalanceService creates the balance calculator.
func NewBalanceService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerReader) portssvc.BalanceSvcFacade {
	return &balanceService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

func (s *balanceService) normalSide(ctx context.Context, accountID string) (domain.NormalSide, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account.AccountType.NormalSide(), nil
}

// AccountBalance computes the account's signed balance over its full history.
func (s *balanceService) AccountBalance(ctx context.Context, accountID string) (domain.Money, error) {
	side, err := s.normalSide(ctx, accountID)
	if err != nil {
		return domain.ZeroMoney(), err
	}
	debit, credit, err := s.ledgerRepo.SumsForAccount(ctx, accountID)
	if err != nil {
		return domain.ZeroMoney(), fmt.Errorf("failed to sum ledger rows for account %s: %w", accountID, err)
	}
	return accounting.SignedAmount(debit, credit, side), nil
}

// AccountBalanceAsOf computes the signed balance from rows posted on or
// before asOf.
func (s *balanceService) AccountBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (domain.Money, error) {
	side, err := s.normalSide(ctx, accountID)
	if err != nil {
		return domain.ZeroMoney(), err
	}
	debit, credit, err := s.ledgerRepo.SumsForAccountAsOf(ctx, accountID, asOf)
	if err != nil {
		return domain.ZeroMoney(), fmt.Errorf("failed to sum ledger rows for account %s: %w", accountID, err)
	}
	return accounting.SignedAmount(debit, credit, side), nil
}

// AccountBalanceForPeriod is the movement between two as-of snapshots:
// balance at end minus balance at the day before start.
func (s *balanceService) AccountBalanceForPeriod(ctx context.Context, accountID string, start, end time.Time) (domain.Money, error) {
	endBalance, err := s.AccountBalanceAsOf(ctx, accountID, end)
	if err != nil {
		return domain.ZeroMoney(), err
	}
	startBalance, err := s.AccountBalanceAsOf(ctx, accountID, start.AddDate(0, 0, -1))
	if err != nil {
		return domain.ZeroMoney(), err
	}
	return endBalance.Sub(startBalance), nil
}

// AccountTotals returns the raw debit and credit sums.
func (s *balanceService) AccountTotals(ctx context.Context, accountID string) (debit, credit domain.Money, err error) {
	debit, credit, err = s.ledgerRepo.SumsForAccount(ctx, accountID)
	if err != nil {
		return domain.ZeroMoney(), domain.ZeroMoney(), fmt.Errorf("failed to sum ledger rows for account %s: %w", accountID, err)
	}
	return debit, credit, nil
}

// Reconcile recomputes the balance from ledger rows and compares it to the
// cached one.
func (s *balanceService) Reconcile(ctx context.Context, accountID string) (*domain.BalanceReconciliation, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	computed, err := s.AccountBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	rec := &domain.BalanceReconciliation{
		AccountID:       accountID,
		CachedBalance:   account.Balance,
		ComputedBalance: computed,
		InSync:          account.Balance.Equal(computed),
	}
	if !rec.InSync {
		s.LogWarn(ctx, "Cached balance out of sync",
			slog.String("account_id", accountID),
			slog.String("cached", account.Balance.String()),
			slog.String("computed", computed.String()))
	}
	return rec, nil
}

// RebuildBalance replays ledger history into the cached balance column.
func (s *balanceService) RebuildBalance(ctx context.Context, accountID string, userID string) (domain.Money, error) {
	computed, err := s.AccountBalance(ctx, accountID)
	if err != nil {
		return domain.ZeroMoney(), err
	}
	if err := s.accountRepo.SetAccountBalance(ctx, accountID, computed, userID, time.Now().UTC()); err != nil {
		return domain.ZeroMoney(), fmt.Errorf("failed to rebuild balance of account %s: %w", accountID, err)
	}
	s.LogInfo(ctx, "Account balance rebuilt",
		slog.String("account_id", accountID),
		slog.String("balance", computed.String()))
	return computed, nil
}

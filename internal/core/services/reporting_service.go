package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/finvolt/posting_engine/internal/core/ports/services"
)

// reportingService builds trial balance reports straight from ledger sums.
type reportingService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewReportingService creates the trial balance reporter.
func NewReportingService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader) portssvc.ReportingSvcFacade {
	return &reportingService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// VerifyTrialBalance sums debits and credits across every posting account.
// Equality is exact; there is no tolerance.
func (s *reportingService) VerifyTrialBalance(ctx context.Context) (*domain.TrialBalanceResult, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	totalDebit := domain.ZeroMoney()
	totalCredit := domain.ZeroMoney()
	for _, acc := range accounts {
		if !acc.IsPostingAccount {
			continue
		}
		debit, credit, err := s.ledgerRepo.SumsForAccount(ctx, acc.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum ledger rows for account %s: %w", acc.AccountID, err)
		}
		totalDebit = totalDebit.Add(debit)
		totalCredit = totalCredit.Add(credit)
	}

	result := &domain.TrialBalanceResult{
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Discrepancy: totalDebit.Sub(totalCredit),
		Balanced:    totalDebit.Equal(totalCredit),
	}
	if !result.Balanced {
		s.LogError(ctx, fmt.Errorf("trial balance discrepancy %s", result.Discrepancy.String()),
			"Trial balance does not balance",
			slog.String("total_debit", totalDebit.String()),
			slog.String("total_credit", totalCredit.String()))
	}
	return result, nil
}

// GenerateTrialBalance builds the per-account report as of a date. Each row
// carries the net balance on a single column; accounts without activity up to
// asOf are skipped.
func (s *reportingService) GenerateTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	report := &domain.TrialBalanceReport{AsOf: asOf}
	totalDebit := domain.ZeroMoney()
	totalCredit := domain.ZeroMoney()

	for _, acc := range accounts {
		if !acc.IsPostingAccount {
			continue
		}
		debit, credit, err := s.ledgerRepo.SumsForAccountAsOf(ctx, acc.AccountID, asOf)
		if err != nil {
			return nil, fmt.Errorf("failed to sum ledger rows for account %s: %w", acc.AccountID, err)
		}
		net := debit.Sub(credit)
		if net.IsZero() && debit.IsZero() && credit.IsZero() {
			continue
		}

		row := domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			AccountCode: acc.AccountCode,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			Debit:       domain.ZeroMoney(),
			Credit:      domain.ZeroMoney(),
		}
		if net.IsNegative() {
			row.Credit = net.Neg()
		} else {
			row.Debit = net
		}
		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
		report.Rows = append(report.Rows, row)
	}

	report.TotalDebit = totalDebit
	report.TotalCredit = totalCredit
	report.Discrepancy = totalDebit.Sub(totalCredit)
	report.Balanced = totalDebit.Equal(totalCredit)
	return report, nil
}

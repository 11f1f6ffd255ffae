package services

import (
	"context"
	"fmt"
	"time"

	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/finvolt/posting_engine/internal/core/ports/services"
	"github.com/finvolt/posting_engine/internal/utils/accounting"
)

// agingService buckets open dated ledger rows by days past due.
type agingService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewAgingService creates the aging report generator.
func NewAgingService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader) portssvc.AgingSvcFacade {
	return &agingService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.AgingSvcFacade = (*agingService)(nil)

// bucketFor places a days-past-due count into its band. Zero or negative
// means not yet due.
func bucketFor(daysPastDue int) domain.AgingBucket {
	switch {
	case daysPastDue <= 0:
		return domain.BucketCurrent
	case daysPastDue <= 30:
		return domain.Bucket1To30
	case daysPastDue <= 60:
		return domain.Bucket31To60
	case daysPastDue <= 90:
		return domain.Bucket61To90
	default:
		return domain.BucketOver90
	}
}

// daysBetween counts whole calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// GenerateAgingReport builds the aging buckets as of a date. Each open row
// contributes its signed outstanding amount by the account's normal side, so
// partial settlements recorded as counter-rows net out naturally.
func (s *agingService) GenerateAgingReport(ctx context.Context, asOf time.Time) (*domain.AgingReport, error) {
	rows, err := s.ledgerRepo.FindOpenRows(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to find open ledger rows: %w", err)
	}

	accountIDs := make([]string, 0, len(rows))
	seen := make(map[string]struct{})
	for _, r := range rows {
		if _, ok := seen[r.AccountID]; !ok {
			seen[r.AccountID] = struct{}{}
			accountIDs = append(accountIDs, r.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for aging: %w", err)
	}

	report := &domain.AgingReport{
		AsOf:             asOf,
		Current:          domain.ZeroMoney(),
		Days1To30:        domain.ZeroMoney(),
		Days31To60:       domain.ZeroMoney(),
		Days61To90:       domain.ZeroMoney(),
		Over90:           domain.ZeroMoney(),
		TotalOutstanding: domain.ZeroMoney(),
	}

	for _, row := range rows {
		if row.DueDate == nil {
			continue
		}
		account, ok := accounts[row.AccountID]
		if !ok {
			return nil, fmt.Errorf("ledger row %s references unknown account %s", row.RowID, row.AccountID)
		}

		amount := accounting.SignedAmount(row.Debit, row.Credit, account.AccountType.NormalSide())
		if amount.IsZero() {
			continue
		}
		daysPastDue := daysBetween(*row.DueDate, asOf)
		bucket := bucketFor(daysPastDue)

		switch bucket {
		case domain.BucketCurrent:
			report.Current = report.Current.Add(amount)
		case domain.Bucket1To30:
			report.Days1To30 = report.Days1To30.Add(amount)
		case domain.Bucket31To60:
			report.Days31To60 = report.Days31To60.Add(amount)
		case domain.Bucket61To90:
			report.Days61To90 = report.Days61To90.Add(amount)
		case domain.BucketOver90:
			report.Over90 = report.Over90.Add(amount)
		}
		report.TotalOutstanding = report.TotalOutstanding.Add(amount)

		report.Lines = append(report.Lines, domain.AgingLine{
			AccountID:   row.AccountID,
			EntryID:     row.EntryID,
			DueDate:     *row.DueDate,
			DaysPastDue: daysPastDue,
			Amount:      amount,
			Bucket:      bucket,
		})
	}
	return report, nil
}

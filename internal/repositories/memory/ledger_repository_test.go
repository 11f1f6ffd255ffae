package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	"github.com/finvolt/posting_engine/internal/repositories/memory"
)

// LedgerRepositoryTestSuite exercises the in-memory ledger adapter directly,
// below the service layer, where the unit-of-work guarantees live.
type LedgerRepositoryTestSuite struct {
	suite.Suite
	ctx   context.Context
	repos *portsrepo.RepositoryProvider
	now   time.Time

	cash    domain.Account
	revenue domain.Account
}

func (suite *LedgerRepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repos = memory.NewRepositoryProvider(memory.NewStore())
	suite.now = time.Now().UTC()

	suite.cash = suite.saveAccount("1000", domain.Asset)
	suite.revenue = suite.saveAccount("4000", domain.Revenue)
}

func (suite *LedgerRepositoryTestSuite) saveAccount(code string, typ domain.AccountType) domain.Account {
	account := domain.Account{
		AccountID:        uuid.NewString(),
		AccountCode:      code,
		Name:             "Account " + code,
		AccountType:      typ,
		IsPostingAccount: true,
		IsActive:         true,
		Balance:          domain.ZeroMoney(),
	}
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(suite.ctx, account))
	return account
}

func (suite *LedgerRepositoryTestSuite) saveEntry(status domain.EntryStatus, amount string) (domain.JournalEntry, []domain.JournalEntryLine) {
	entry := domain.JournalEntry{
		EntryID:      uuid.NewString(),
		EntryNumber:  "JE-" + uuid.NewString()[:8],
		EntryDate:    suite.now,
		FiscalYear:   suite.now.Year(),
		FiscalPeriod: int(suite.now.Month()),
		Description:  "repo test entry",
		Status:       status,
		TotalDebit:   domain.MustMoney(amount),
		TotalCredit:  domain.MustMoney(amount),
	}
	lines := []domain.JournalEntryLine{
		{LineID: uuid.NewString(), EntryID: entry.EntryID, LineNumber: 1, AccountID: suite.cash.AccountID, Debit: domain.MustMoney(amount), Credit: domain.ZeroMoney()},
		{LineID: uuid.NewString(), EntryID: entry.EntryID, LineNumber: 2, AccountID: suite.revenue.AccountID, Debit: domain.ZeroMoney(), Credit: domain.MustMoney(amount)},
	}
	suite.Require().NoError(suite.repos.JournalRepo.SaveEntry(suite.ctx, entry, lines))
	return entry, lines
}

func (suite *LedgerRepositoryTestSuite) changes(amount string) map[string]domain.Money {
	return map[string]domain.Money{
		suite.cash.AccountID:    domain.MustMoney(amount),
		suite.revenue.AccountID: domain.MustMoney(amount),
	}
}

func (suite *LedgerRepositoryTestSuite) TestAppendEntryRows_WritesRowsAndBalances() {
	entry, lines := suite.saveEntry(domain.Approved, "100")

	err := suite.repos.LedgerRepo.AppendEntryRows(suite.ctx, entry, lines, suite.changes("100"), domain.Posted, false, suite.now, "tester")
	suite.Require().NoError(err)

	rows, err := suite.repos.LedgerRepo.RowsForEntry(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.False(rows[0].Compensates)
	suite.True(rows[0].RunningBalance.Equal(domain.MustMoney("100")))

	account, err := suite.repos.AccountRepo.FindAccountByID(suite.ctx, suite.cash.AccountID)
	suite.Require().NoError(err)
	suite.True(account.Balance.Equal(domain.MustMoney("100")))

	loaded, err := suite.repos.JournalRepo.FindEntryByID(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, loaded.Status)
}

func (suite *LedgerRepositoryTestSuite) TestAppendEntryRows_RunningBalanceAdvancesAcrossEntries() {
	first, firstLines := suite.saveEntry(domain.Approved, "100")
	suite.Require().NoError(suite.repos.LedgerRepo.AppendEntryRows(suite.ctx, first, firstLines, suite.changes("100"), domain.Posted, false, suite.now, "tester"))

	second, secondLines := suite.saveEntry(domain.Approved, "50")
	suite.Require().NoError(suite.repos.LedgerRepo.AppendEntryRows(suite.ctx, second, secondLines, suite.changes("50"), domain.Posted, false, suite.now, "tester"))

	rows, err := suite.repos.LedgerRepo.RowsForAccount(suite.ctx, suite.cash.AccountID)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.True(rows[0].RunningBalance.Equal(domain.MustMoney("100")))
	suite.True(rows[1].RunningBalance.Equal(domain.MustMoney("150")))
}

func (suite *LedgerRepositoryTestSuite) TestAppendEntryRows_StaleStatusWritesNothing() {
	entry, lines := suite.saveEntry(domain.Approved, "100")

	suite.Require().NoError(suite.repos.LedgerRepo.AppendEntryRows(suite.ctx, entry, lines, suite.changes("100"), domain.Posted, false, suite.now, "tester"))

	// Same entry value again: its Status field still reads APPROVED, but the
	// stored entry is POSTED now. The append must refuse instead of doubling
	// the entry's ledger effect.
	err := suite.repos.LedgerRepo.AppendEntryRows(suite.ctx, entry, lines, suite.changes("100"), domain.Posted, false, suite.now, "tester")
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)

	rows, err := suite.repos.LedgerRepo.RowsForEntry(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Len(rows, 2)

	account, err := suite.repos.AccountRepo.FindAccountByID(suite.ctx, suite.cash.AccountID)
	suite.Require().NoError(err)
	suite.True(account.Balance.Equal(domain.MustMoney("100")))
}

func (suite *LedgerRepositoryTestSuite) TestAppendEntryRows_UnknownEntryFails() {
	entry, lines := suite.saveEntry(domain.Approved, "100")
	entry.EntryID = uuid.NewString()

	err := suite.repos.LedgerRepo.AppendEntryRows(suite.ctx, entry, lines, suite.changes("100"), domain.Posted, false, suite.now, "tester")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerRepositoryTestSuite) TestAppendEntryRows_DeltaMismatchWritesNothing() {
	entry, lines := suite.saveEntry(domain.Approved, "100")

	// Claimed balance change disagrees with the line sums.
	badChanges := map[string]domain.Money{
		suite.cash.AccountID:    domain.MustMoney("99"),
		suite.revenue.AccountID: domain.MustMoney("100"),
	}
	err := suite.repos.LedgerRepo.AppendEntryRows(suite.ctx, entry, lines, badChanges, domain.Posted, false, suite.now, "tester")
	suite.ErrorIs(err, apperrors.ErrPostingIntegrity)

	rows, err := suite.repos.LedgerRepo.RowsForEntry(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Empty(rows)

	account, err := suite.repos.AccountRepo.FindAccountByID(suite.ctx, suite.cash.AccountID)
	suite.Require().NoError(err)
	suite.True(account.Balance.IsZero())

	loaded, err := suite.repos.JournalRepo.FindEntryByID(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Approved, loaded.Status, "a failed unit of work must not flip the status")
}

func (suite *LedgerRepositoryTestSuite) TestAppendReversalRows_LinksAndFlipsOriginal() {
	original, lines := suite.saveEntry(domain.Approved, "100")
	suite.Require().NoError(suite.repos.LedgerRepo.AppendEntryRows(suite.ctx, original, lines, suite.changes("100"), domain.Posted, false, suite.now, "tester"))

	reversing := domain.JournalEntry{
		EntryID:           uuid.NewString(),
		EntryNumber:       "JE-" + uuid.NewString()[:8],
		EntryDate:         suite.now,
		FiscalYear:        suite.now.Year(),
		FiscalPeriod:      int(suite.now.Month()),
		Description:       "reversal",
		Status:            domain.Approved,
		TotalDebit:        domain.MustMoney("100"),
		TotalCredit:       domain.MustMoney("100"),
		ReversalOfEntryID: &original.EntryID,
	}
	var swapped []domain.JournalEntryLine
	for _, l := range lines {
		s := l.Swapped()
		s.LineID = uuid.NewString()
		s.EntryID = reversing.EntryID
		swapped = append(swapped, s)
	}
	reversalChanges := map[string]domain.Money{
		suite.cash.AccountID:    domain.MustMoney("-100"),
		suite.revenue.AccountID: domain.MustMoney("-100"),
	}

	err := suite.repos.LedgerRepo.AppendReversalRows(suite.ctx, reversing, swapped, reversalChanges, original.EntryID, suite.now, "tester")
	suite.Require().NoError(err)

	flipped, err := suite.repos.JournalRepo.FindEntryByID(suite.ctx, original.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, flipped.Status)
	suite.Require().NotNil(flipped.ReversedByEntryID)
	suite.Equal(reversing.EntryID, *flipped.ReversedByEntryID)

	account, err := suite.repos.AccountRepo.FindAccountByID(suite.ctx, suite.cash.AccountID)
	suite.Require().NoError(err)
	suite.True(account.Balance.IsZero())

	// The original's rows are untouched; the reversal added its own.
	originalRows, err := suite.repos.LedgerRepo.RowsForEntry(suite.ctx, original.EntryID)
	suite.Require().NoError(err)
	suite.Len(originalRows, 2)
	reversalRows, err := suite.repos.LedgerRepo.RowsForEntry(suite.ctx, reversing.EntryID)
	suite.Require().NoError(err)
	suite.Len(reversalRows, 2)
}

func (suite *LedgerRepositoryTestSuite) TestAppendReversalRows_OriginalMustBePosted() {
	original, lines := suite.saveEntry(domain.Approved, "100")

	reversing := domain.JournalEntry{
		EntryID:           uuid.NewString(),
		EntryNumber:       "JE-" + uuid.NewString()[:8],
		EntryDate:         suite.now,
		FiscalYear:        suite.now.Year(),
		FiscalPeriod:      int(suite.now.Month()),
		Status:            domain.Approved,
		TotalDebit:        domain.MustMoney("100"),
		TotalCredit:       domain.MustMoney("100"),
		ReversalOfEntryID: &original.EntryID,
	}
	var swapped []domain.JournalEntryLine
	for _, l := range lines {
		s := l.Swapped()
		s.LineID = uuid.NewString()
		s.EntryID = reversing.EntryID
		swapped = append(swapped, s)
	}
	changes := map[string]domain.Money{
		suite.cash.AccountID:    domain.MustMoney("-100"),
		suite.revenue.AccountID: domain.MustMoney("-100"),
	}

	err := suite.repos.LedgerRepo.AppendReversalRows(suite.ctx, reversing, swapped, changes, original.EntryID, suite.now, "tester")
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func TestLedgerRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerRepositoryTestSuite))
}

func TestNextEntryNumber_SequentialPerYear(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())

	first, err := repos.JournalRepo.NextEntryNumber(ctx, 2026)
	require.NoError(t, err)
	second, err := repos.JournalRepo.NextEntryNumber(ctx, 2026)
	require.NoError(t, err)
	otherYear, err := repos.JournalRepo.NextEntryNumber(ctx, 2027)
	require.NoError(t, err)

	require.Equal(t, "JE-2026-000001", first)
	require.Equal(t, "JE-2026-000002", second)
	require.Equal(t, "JE-2027-000001", otherYear)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finvolt/posting_engine/internal/apperrors"
	"github.com/finvolt/posting_engine/internal/core/domain"
	portsrepo "github.com/finvolt/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/finvolt/posting_engine/internal/core/ports/services"
	"github.com/finvolt/posting_engine/internal/core/services"
	"github.com/finvolt/posting_engine/internal/dto"
)

// --- Mock JournalEntryRepository ---
type MockJournalEntryRepository struct {
	mock.Mock
}

var _ portsrepo.JournalEntryRepositoryFacade = (*MockJournalEntryRepository)(nil)

func (m *MockJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalEntryRepository) ListEntriesByPeriod(ctx context.Context, year, period int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, year, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) CountPendingEntriesInPeriod(ctx context.Context, year, period int) (int, error) {
	args := m.Called(ctx, year, period)
	return args.Int(0), args.Error(1)
}

func (m *MockJournalEntryRepository) NextEntryNumber(ctx context.Context, fiscalYear int) (string, error) {
	args := m.Called(ctx, fiscalYear)
	return args.String(0), args.Error(1)
}

func (m *MockJournalEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) UpdateEntryReview(ctx context.Context, entryID string, status domain.EntryStatus, reviewerID, reason string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, status, reviewerID, reason, updatedAt)
	return args.Error(0)
}

// --- Mock LedgerPoster ---
type MockLedgerPoster struct {
	mock.Mock
}

var _ portssvc.LedgerPosterSvc = (*MockLedgerPoster)(nil)

func (m *MockLedgerPoster) PostApprovedEntry(ctx context.Context, entry *domain.JournalEntry, postedBy string) error {
	args := m.Called(ctx, entry, postedBy)
	return args.Error(0)
}

func (m *MockLedgerPoster) CompensateEntry(ctx context.Context, entry *domain.JournalEntry, userID string) error {
	args := m.Called(ctx, entry, userID)
	return args.Error(0)
}

func (m *MockLedgerPoster) PostReversal(ctx context.Context, reversing *domain.JournalEntry, originalEntryID string, postedBy string) error {
	args := m.Called(ctx, reversing, originalEntryID, postedBy)
	return args.Error(0)
}

func (m *MockLedgerPoster) PostBulk(ctx context.Context, entries []*domain.JournalEntry, postedBy string) error {
	args := m.Called(ctx, entries, postedBy)
	return args.Error(0)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockJournalEntryRepository
	mockPoster *MockLedgerPoster
	service    portssvc.JournalSvcFacade
	userID     string
	cashID     string
	revenueID  string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockJournalEntryRepository)
	suite.mockPoster = new(MockLedgerPoster)
	suite.service = services.NewJournalService(suite.mockRepo, suite.mockPoster)

	suite.userID = uuid.NewString()
	suite.cashID = uuid.NewString()
	suite.revenueID = uuid.NewString()
}

func (suite *JournalServiceTestSuite) balancedRequest() dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "March sales",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.cashID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueID, Credit: decimal.NewFromInt(100)},
		},
	}
}

func (suite *JournalServiceTestSuite) storedEntry(status domain.EntryStatus, lines []domain.JournalEntryLine) *domain.JournalEntry {
	entryID := uuid.NewString()
	for i := range lines {
		lines[i].EntryID = entryID
		lines[i].LineNumber = i + 1
	}
	debit := domain.ZeroMoney()
	credit := domain.ZeroMoney()
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return &domain.JournalEntry{
		EntryID:      entryID,
		EntryNumber:  "JE-2026-000001",
		EntryDate:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		FiscalYear:   2026,
		FiscalPeriod: 3,
		Description:  "stored entry",
		Status:       status,
		TotalDebit:   debit,
		TotalCredit:  credit,
	}
}

func (suite *JournalServiceTestSuite) balancedLines() []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{LineID: uuid.NewString(), LineNumber: 1, AccountID: suite.cashID, Debit: domain.MustMoney("100"), Credit: domain.ZeroMoney()},
		{LineID: uuid.NewString(), LineNumber: 2, AccountID: suite.revenueID, Debit: domain.ZeroMoney(), Credit: domain.MustMoney("100")},
	}
}

func (suite *JournalServiceTestSuite) expectLoad(entry *domain.JournalEntry, lines []domain.JournalEntryLine) {
	suite.mockRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", mock.Anything, entry.EntryID).Return(lines, nil).Once()
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockRepo.On("NextEntryNumber", ctx, 2026).Return("JE-2026-000007", nil).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).Return(nil).Once()

	entry, err := suite.service.CreateDraftEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Draft, entry.Status)
	suite.Equal("JE-2026-000007", entry.EntryNumber)
	suite.Equal(2026, entry.FiscalYear)
	suite.Equal(3, entry.FiscalPeriod)
	suite.True(entry.TotalDebit.Equal(domain.MustMoney("100")))
	suite.True(entry.TotalCredit.Equal(domain.MustMoney("100")))
	suite.Len(entry.Lines, 2)
	suite.Equal(1, entry.Lines[0].LineNumber)
	suite.Equal(2, entry.Lines[1].LineNumber)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_UnbalancedIsAllowedAsDraft() {
	// Drafts may be unbalanced; the balance rule bites at submit time.
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Credit = decimal.NewFromInt(90)

	suite.mockRepo.On("NextEntryNumber", ctx, 2026).Return("JE-2026-000008", nil).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	entry, err := suite.service.CreateDraftEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.False(entry.TotalDebit.Equal(entry.TotalCredit))
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_TwoSidedLineFails() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].Credit = decimal.NewFromInt(50) // debit and credit both set

	suite.mockRepo.On("NextEntryNumber", ctx, 2026).Return("JE-2026-000009", nil).Maybe()

	_, err := suite.service.CreateDraftEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_TooFewLinesFails() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = req.Lines[:1]

	_, err := suite.service.CreateDraftEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestSubmitForApproval_Success() {
	ctx := context.Background()
	entry := suite.storedEntry(domain.Draft, suite.balancedLines())

	suite.expectLoad(entry, suite.balancedLines())
	suite.mockRepo.On("UpdateEntryStatus", ctx, entry.EntryID, domain.Submitted, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.SubmitForApproval(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestSubmitForApproval_UnbalancedStaysPut() {
	ctx := context.Background()
	lines := suite.balancedLines()
	lines[1].Credit = domain.MustMoney("99.99")
	entry := suite.storedEntry(domain.Draft, lines)

	suite.expectLoad(entry, lines)

	err := suite.service.SubmitForApproval(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestSubmitForApproval_FromPostedFails() {
	ctx := context.Background()
	entry := suite.storedEntry(domain.Posted, suite.balancedLines())

	suite.expectLoad(entry, suite.balancedLines())

	err := suite.service.SubmitForApproval(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func (suite *JournalServiceTestSuite) TestApprove_FromSubmitted() {
	ctx := context.Background()
	entry := suite.storedEntry(domain.Submitted, suite.balancedLines())
	approverID := uuid.NewString()

	suite.expectLoad(entry, suite.balancedLines())
	suite.mockRepo.On("UpdateEntryReview", ctx, entry.EntryID, domain.Approved, approverID, "", mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.Require().NoError(suite.service.Approve(ctx, entry.EntryID, approverID))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestApprove_FromDraftFails() {
	ctx := context.Background()
	entry := suite.storedEntry(domain.Draft, suite.balancedLines())

	suite.expectLoad(entry, suite.balancedLines())

	err := suite.service.Approve(ctx, entry.EntryID, suite.userID)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func (suite *JournalServiceTestSuite) TestReject_RequiresReason() {
	ctx := context.Background()
	entry := suite.storedEntry(domain.Submitted, suite.balancedLines())

	err := suite.service.Reject(ctx, entry.EntryID, "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateEntryReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReject_RecordsReason() {
	ctx := context.Background()
	entry := suite.storedEntry(domain.Submitted, suite.balancedLines())

	suite.expectLoad(entry, suite.balancedLines())
	suite.mockRepo.On("UpdateEntryReview", ctx, entry.EntryID, domain.Rejected, suite.userID, "amounts look wrong", mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.Require().NoError(suite.service.Reject(ctx, entry.EntryID, "amounts look wrong", suite.userID))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestUpdateDraftEntry_PostedEntryFails() {
	ctx := context.Background()
	entry := suite.storedEntry(domain.Posted, suite.balancedLines())

	suite.expectLoad(entry, suite.balancedLines())

	desc := "new description"
	_, err := suite.service.UpdateDraftEntry(ctx, entry.EntryID, dto.UpdateJournalEntryRequest{Description: &desc}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateDraftEntry_RejectedIsEditable() {
	ctx := context.Background()
	entry := suite.storedEntry(domain.Rejected, suite.balancedLines())

	suite.expectLoad(entry, suite.balancedLines())
	suite.mockRepo.On("UpdateEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).Return(nil).Once()

	desc := "fixed per review"
	updated, err := suite.service.UpdateDraftEntry(ctx, entry.EntryID, dto.UpdateJournalEntryRequest{Description: &desc}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("fixed per review", updated.Description)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPost_DelegatesToPoster() {
	ctx := context.Background()
	entry := suite.storedEntry(domain.Approved, suite.balancedLines())

	suite.expectLoad(entry, suite.balancedLines())
	suite.mockPoster.On("PostApprovedEntry", ctx, mock.AnythingOfType("*domain.JournalEntry"), suite.userID).Return(nil).Once()

	suite.Require().NoError(suite.service.Post(ctx, entry.EntryID, suite.userID))
	suite.mockPoster.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverse_RequiresReason() {
	ctx := context.Background()

	_, err := suite.service.Reverse(ctx, uuid.NewString(), "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestReverse_OfReversalFails() {
	ctx := context.Background()
	originalID := uuid.NewString()
	entry := suite.storedEntry(domain.Posted, suite.balancedLines())
	entry.ReversalOfEntryID = &originalID

	suite.expectLoad(entry, suite.balancedLines())

	_, err := suite.service.Reverse(ctx, entry.EntryID, "undo", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPoster.AssertNotCalled(suite.T(), "PostReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverse_BuildsSwappedLinkedEntry() {
	ctx := context.Background()
	entry := suite.storedEntry(domain.Posted, suite.balancedLines())

	suite.expectLoad(entry, suite.balancedLines())
	suite.mockRepo.On("NextEntryNumber", ctx, time.Now().UTC().Year()).Return("JE-2026-000099", nil).Once()
	suite.mockPoster.On("PostReversal", ctx, mock.AnythingOfType("*domain.JournalEntry"), entry.EntryID, suite.userID).Return(nil).Once()

	reversing, err := suite.service.Reverse(ctx, entry.EntryID, "booked twice", suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Require().NotNil(reversing.ReversalOfEntryID)
	suite.Equal(entry.EntryID, *reversing.ReversalOfEntryID)
	suite.Require().Len(reversing.Lines, 2)
	// Sides swapped relative to the original.
	suite.True(reversing.Lines[0].Debit.IsZero())
	suite.True(reversing.Lines[0].Credit.Equal(domain.MustMoney("100")))
	suite.True(reversing.Lines[1].Debit.Equal(domain.MustMoney("100")))
	suite.True(reversing.Lines[1].Credit.IsZero())
	suite.mockPoster.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostBulk_RejectsNonApproved() {
	ctx := context.Background()
	entry := suite.storedEntry(domain.Draft, suite.balancedLines())

	suite.expectLoad(entry, suite.balancedLines())

	err := suite.service.PostBulk(ctx, []string{entry.EntryID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	suite.mockPoster.AssertNotCalled(suite.T(), "PostBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

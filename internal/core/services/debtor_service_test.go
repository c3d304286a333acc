package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/posys/pos_ledger_app/internal/apperrors"
	"github.com/posys/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/posys/pos_ledger_app/internal/core/ports/repositories"
	"github.com/posys/pos_ledger_app/internal/core/services"
	"github.com/posys/pos_ledger_app/internal/dto"
	"github.com/posys/pos_ledger_app/internal/utils/fining"
)

// --- Test Suite Setup ---
type DebtorServiceTestSuite struct {
	suite.Suite
	mockUserRepo     *MockUserRepository
	mockFineRepo     *MockFineRepository
	mockTransferRepo *MockTransferRepository
	mockBalanceSvc   *MockBalanceService
	mockDispatcher   *MockDispatcher
	service          *services.DebtorService
	actorID          string
	member           domain.User
}

func (suite *DebtorServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockFineRepo = new(MockFineRepository)
	suite.mockTransferRepo = new(MockTransferRepository)
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.mockDispatcher = new(MockDispatcher)
	suite.service = services.NewDebtorService(
		suite.mockUserRepo,
		suite.mockFineRepo,
		suite.mockTransferRepo,
		suite.mockBalanceSvc,
		suite.mockDispatcher,
		fining.DefaultSchedule(),
		domain.NotifiableUserTypes,
	)

	suite.actorID = uuid.NewString()
	suite.member = domain.User{
		UserID: uuid.NewString(),
		Name:   "Test Member",
		Type:   domain.Member,
	}
}

func (suite *DebtorServiceTestSuite) balanceAt(userID string, date time.Time, amount int64) {
	suite.mockBalanceSvc.On("CalculateBalance", mock.Anything, userID, mock.MatchedBy(func(t *time.Time) bool {
		return t != nil && t.Equal(date)
	})).Return(&domain.Balance{
		UserID: userID,
		Amount: decimal.NewFromInt(amount),
		AsOf:   date,
	}, nil)
}

func (suite *DebtorServiceTestSuite) currentBalance(userID string, amount int64) {
	suite.mockBalanceSvc.On("CalculateBalance", mock.Anything, userID, (*time.Time)(nil)).Return(&domain.Balance{
		UserID: userID,
		Amount: decimal.NewFromInt(amount),
		AsOf:   time.Now().UTC(),
	}, nil)
}

// --- CalculateFinesOnDate ---

func (suite *DebtorServiceTestSuite) TestCalculateFines_NoDates() {
	_, err := suite.service.CalculateFinesOnDate(context.Background(), dto.CalculateFinesParams{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DebtorServiceTestSuite) TestCalculateFines_RequiresDebtOnEveryDate() {
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	suite.mockUserRepo.On("ListUsers", mock.Anything, []domain.UserType(nil)).
		Return([]domain.User{suite.member}, nil).Once()
	suite.balanceAt(suite.member.UserID, d1, -600)
	suite.balanceAt(suite.member.UserID, d2, -100) // recovered above the threshold

	results, err := suite.service.CalculateFinesOnDate(context.Background(), dto.CalculateFinesParams{
		ReferenceDates: []time.Time{d1, d2},
	})

	suite.Require().NoError(err)
	suite.Empty(results)
}

func (suite *DebtorServiceTestSuite) TestCalculateFines_FineFromLatestDate() {
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	suite.mockUserRepo.On("ListUsers", mock.Anything, []domain.UserType(nil)).
		Return([]domain.User{suite.member}, nil).Once()
	suite.balanceAt(suite.member.UserID, d1, -2000)
	suite.balanceAt(suite.member.UserID, d2, -600)

	results, err := suite.service.CalculateFinesOnDate(context.Background(), dto.CalculateFinesParams{
		ReferenceDates: []time.Time{d1, d2},
	})

	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal(suite.member.UserID, results[0].UserID)
	// 20% of the 600 debt at the most recent date, not of the 2000 one.
	suite.True(results[0].FineAmount.Equal(decimal.NewFromInt(120)), "got %s", results[0].FineAmount)
	suite.Len(results[0].Balances, 2)
}

func (suite *DebtorServiceTestSuite) TestCalculateFines_ClampsToMinimumAndMaximum() {
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	deep := domain.User{UserID: uuid.NewString(), Type: domain.Member}
	shallow := domain.User{UserID: uuid.NewString(), Type: domain.Member}

	suite.mockUserRepo.On("ListUsers", mock.Anything, []domain.UserType(nil)).
		Return([]domain.User{deep, shallow}, nil).Once()
	suite.balanceAt(deep.UserID, d, -10000)  // 20% would be 2000
	suite.balanceAt(shallow.UserID, d, -500) // 20% would be 100

	results, err := suite.service.CalculateFinesOnDate(context.Background(), dto.CalculateFinesParams{
		ReferenceDates: []time.Time{d},
	})

	suite.Require().NoError(err)
	suite.Require().Len(results, 2)
	suite.True(results[0].FineAmount.Equal(decimal.NewFromInt(500)))
	suite.True(results[1].FineAmount.Equal(decimal.NewFromInt(100)))
}

// --- HandOutFines ---

func (suite *DebtorServiceTestSuite) TestHandOutFines_SkipsUnknownUsers() {
	refDate := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	unknownID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", mock.Anything, unknownID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.member.UserID).
		Return(&suite.member, nil).Once()
	suite.balanceAt(suite.member.UserID, refDate, -600)
	suite.mockFineRepo.On("FindGroupByUserID", mock.Anything, suite.member.UserID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFineRepo.On("SaveFineHandout", mock.Anything, mock.AnythingOfType("domain.FineHandoutEvent"), mock.MatchedBy(func(handouts []portsrepo.FineHandout) bool {
		return len(handouts) == 1 && handouts[0].User.UserID == suite.member.UserID
	})).Return(nil).Once()
	suite.mockDispatcher.On("Notify", mock.Anything, suite.member.UserID, domain.UserGotFined, mock.Anything).
		Return(nil).Once()

	event, err := suite.service.HandOutFines(context.Background(), dto.HandOutFinesRequest{
		UserIDs:       []string{unknownID, suite.member.UserID},
		ReferenceDate: refDate,
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(event)
	suite.Require().Len(event.Fines, 1)
	suite.True(event.Fines[0].Amount.Equal(decimal.NewFromInt(120)))
	suite.Equal(suite.member.UserID, event.Fines[0].UserID)
	suite.mockFineRepo.AssertExpectations(suite.T())
	suite.mockDispatcher.AssertExpectations(suite.T())
}

func (suite *DebtorServiceTestSuite) TestHandOutFines_PositiveFineBacksTransfer() {
	refDate := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.member.UserID).
		Return(&suite.member, nil).Once()
	suite.balanceAt(suite.member.UserID, refDate, -600)
	suite.mockFineRepo.On("FindGroupByUserID", mock.Anything, suite.member.UserID).
		Return(nil, apperrors.ErrNotFound).Once()

	var captured []portsrepo.FineHandout
	suite.mockFineRepo.On("SaveFineHandout", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).([]portsrepo.FineHandout)
		}).Return(nil).Once()
	suite.mockDispatcher.On("Notify", mock.Anything, suite.member.UserID, domain.UserGotFined, mock.Anything).
		Return(nil).Once()

	_, err := suite.service.HandOutFines(context.Background(), dto.HandOutFinesRequest{
		UserIDs:       []string{suite.member.UserID},
		ReferenceDate: refDate,
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(captured, 1)
	handout := captured[0]
	suite.Require().NotNil(handout.Transfer)
	suite.True(handout.Transfer.AmountInclVat.Equal(decimal.NewFromInt(120)))
	suite.Require().NotNil(handout.Transfer.FromID)
	suite.Equal(suite.member.UserID, *handout.Transfer.FromID)
	suite.Nil(handout.Transfer.ToID) // fine money leaves the system
	suite.Require().NotNil(handout.Transfer.FineID)
	suite.Equal(handout.Fine.FineID, *handout.Transfer.FineID)
	suite.Require().NotNil(handout.Fine.TransferID)
	suite.Equal(handout.Transfer.TransferID, *handout.Fine.TransferID)
	suite.False(handout.GroupExists)
	suite.True(handout.SetCurrentFines)
}

func (suite *DebtorServiceTestSuite) TestHandOutFines_ZeroFineHasNoTransfer() {
	refDate := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.member.UserID).
		Return(&suite.member, nil).Once()
	suite.balanceAt(suite.member.UserID, refDate, -100) // above the threshold
	suite.mockFineRepo.On("FindGroupByUserID", mock.Anything, suite.member.UserID).
		Return(nil, apperrors.ErrNotFound).Once()

	var captured []portsrepo.FineHandout
	suite.mockFineRepo.On("SaveFineHandout", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).([]portsrepo.FineHandout)
		}).Return(nil).Once()

	event, err := suite.service.HandOutFines(context.Background(), dto.HandOutFinesRequest{
		UserIDs:       []string{suite.member.UserID},
		ReferenceDate: refDate,
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(event.Fines, 1)
	suite.True(event.Fines[0].Amount.IsZero())
	suite.Require().Len(captured, 1)
	suite.Nil(captured[0].Transfer)
	suite.False(captured[0].SetCurrentFines)
	// No fine was actually charged, so nobody gets a fined notification.
	suite.mockDispatcher.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DebtorServiceTestSuite) TestHandOutFines_ReusesExistingGroup() {
	refDate := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	group := &domain.UserFineGroup{
		GroupID: uuid.NewString(),
		UserID:  suite.member.UserID,
	}
	user := suite.member
	user.CurrentFinesID = &group.GroupID

	suite.mockUserRepo.On("FindUserByID", mock.Anything, user.UserID).
		Return(&user, nil).Once()
	suite.balanceAt(user.UserID, refDate, -600)
	suite.mockFineRepo.On("FindGroupByUserID", mock.Anything, user.UserID).
		Return(group, nil).Once()

	var captured []portsrepo.FineHandout
	suite.mockFineRepo.On("SaveFineHandout", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).([]portsrepo.FineHandout)
		}).Return(nil).Once()
	suite.mockDispatcher.On("Notify", mock.Anything, user.UserID, domain.UserGotFined, mock.Anything).
		Return(nil).Once()

	_, err := suite.service.HandOutFines(context.Background(), dto.HandOutFinesRequest{
		UserIDs:       []string{user.UserID},
		ReferenceDate: refDate,
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(captured, 1)
	suite.True(captured[0].GroupExists)
	suite.Equal(group.GroupID, captured[0].Fine.GroupID)
	// Pointer already references this group, nothing to update.
	suite.False(captured[0].SetCurrentFines)
}

func (suite *DebtorServiceTestSuite) TestHandOutFines_DeduplicatesUserIDs() {
	refDate := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.member.UserID).
		Return(&suite.member, nil).Once()
	suite.balanceAt(suite.member.UserID, refDate, -600)
	suite.mockFineRepo.On("FindGroupByUserID", mock.Anything, suite.member.UserID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFineRepo.On("SaveFineHandout", mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
	suite.mockDispatcher.On("Notify", mock.Anything, suite.member.UserID, domain.UserGotFined, mock.Anything).
		Return(nil).Once()

	event, err := suite.service.HandOutFines(context.Background(), dto.HandOutFinesRequest{
		UserIDs:       []string{suite.member.UserID, suite.member.UserID, suite.member.UserID},
		ReferenceDate: refDate,
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(event.Fines, 1)
}

// --- WaiveFines ---

func (suite *DebtorServiceTestSuite) TestWaiveFines_RejectsNonPositiveAmount() {
	_, err := suite.service.WaiveFines(context.Background(), suite.member.UserID, decimal.Zero)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DebtorServiceTestSuite) TestWaiveFines_NoGroupIsNoOp() {
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.member.UserID).
		Return(&suite.member, nil).Once()
	suite.mockFineRepo.On("FindGroupByUserID", mock.Anything, suite.member.UserID).
		Return(nil, apperrors.ErrNotFound).Once()

	group, err := suite.service.WaiveFines(context.Background(), suite.member.UserID, decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.Nil(group)
	suite.mockFineRepo.AssertNotCalled(suite.T(), "ReplaceWaiver", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DebtorServiceTestSuite) TestWaiveFines_RejectsAmountAboveFineTotal() {
	group := &domain.UserFineGroup{
		GroupID: uuid.NewString(),
		UserID:  suite.member.UserID,
		Fines: []domain.Fine{
			{FineID: uuid.NewString(), Amount: decimal.NewFromInt(120)},
			{FineID: uuid.NewString(), Amount: decimal.NewFromInt(180)},
		},
	}
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.member.UserID).
		Return(&suite.member, nil).Once()
	suite.mockFineRepo.On("FindGroupByUserID", mock.Anything, suite.member.UserID).
		Return(group, nil).Once()

	_, err := suite.service.WaiveFines(context.Background(), suite.member.UserID, decimal.NewFromInt(301))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DebtorServiceTestSuite) TestWaiveFines_ReplacesPreviousWaiver() {
	previousID := uuid.NewString()
	group := &domain.UserFineGroup{
		GroupID:          uuid.NewString(),
		UserID:           suite.member.UserID,
		WaivedTransferID: &previousID,
		Fines: []domain.Fine{
			{FineID: uuid.NewString(), Amount: decimal.NewFromInt(300)},
		},
	}
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.member.UserID).
		Return(&suite.member, nil).Once()
	suite.mockFineRepo.On("FindGroupByUserID", mock.Anything, suite.member.UserID).
		Return(group, nil).Once()
	suite.currentBalance(suite.member.UserID, -250)
	suite.mockTransferRepo.On("FindTransferByID", mock.Anything, previousID).
		Return(&domain.Transfer{
			TransferID:    previousID,
			AmountInclVat: decimal.NewFromInt(100),
		}, nil).Once()

	// Replacing the 100 waiver with 200: -250 - 100 + 200 = -150, still in
	// debt, so currentFines stays set.
	suite.mockFineRepo.On("ReplaceWaiver", mock.Anything, mock.Anything, mock.MatchedBy(func(waiver domain.Transfer) bool {
		return waiver.AmountInclVat.Equal(decimal.NewFromInt(200)) &&
			waiver.ToID != nil && *waiver.ToID == suite.member.UserID &&
			waiver.WaivedGroupID != nil && *waiver.WaivedGroupID == group.GroupID
	}), false).Return(nil).Once()

	updated, err := suite.service.WaiveFines(context.Background(), suite.member.UserID, decimal.NewFromInt(200))

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.NotEqual(previousID, *updated.WaivedTransferID)
	suite.mockFineRepo.AssertExpectations(suite.T())
}

func (suite *DebtorServiceTestSuite) TestWaiveFines_ClearsCurrentFinesWhenBalanceRecovers() {
	group := &domain.UserFineGroup{
		GroupID: uuid.NewString(),
		UserID:  suite.member.UserID,
		Fines: []domain.Fine{
			{FineID: uuid.NewString(), Amount: decimal.NewFromInt(300)},
		},
	}
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.member.UserID).
		Return(&suite.member, nil).Once()
	suite.mockFineRepo.On("FindGroupByUserID", mock.Anything, suite.member.UserID).
		Return(group, nil).Once()
	suite.currentBalance(suite.member.UserID, -100)

	// -100 + 150 = 50, back to solvent: the pointer must be cleared.
	suite.mockFineRepo.On("ReplaceWaiver", mock.Anything, mock.Anything, mock.Anything, true).
		Return(nil).Once()

	_, err := suite.service.WaiveFines(context.Background(), suite.member.UserID, decimal.NewFromInt(150))

	suite.Require().NoError(err)
	suite.mockFineRepo.AssertExpectations(suite.T())
}

// --- DeleteFine ---

func (suite *DebtorServiceTestSuite) TestDeleteFine_ClearsPointerWhenBalanceRecovers() {
	transferID := uuid.NewString()
	fine := &domain.Fine{
		FineID:     uuid.NewString(),
		GroupID:    uuid.NewString(),
		UserID:     suite.member.UserID,
		TransferID: &transferID,
		Amount:     decimal.NewFromInt(120),
	}
	group := &domain.UserFineGroup{
		GroupID: fine.GroupID,
		UserID:  suite.member.UserID,
		Fines:   []domain.Fine{*fine},
	}

	suite.mockFineRepo.On("FindFineByID", mock.Anything, fine.FineID).Return(fine, nil).Once()
	suite.mockFineRepo.On("FindGroupByID", mock.Anything, fine.GroupID).Return(group, nil).Once()
	suite.currentBalance(suite.member.UserID, -80)
	// -80 + 120 = 40, solvent without the fine's debit.
	suite.mockFineRepo.On("DeleteFine", mock.Anything, *fine, true).Return(nil).Once()

	err := suite.service.DeleteFine(context.Background(), fine.FineID)

	suite.Require().NoError(err)
	suite.mockFineRepo.AssertExpectations(suite.T())
}

func (suite *DebtorServiceTestSuite) TestDeleteFine_NotFound() {
	fineID := uuid.NewString()
	suite.mockFineRepo.On("FindFineByID", mock.Anything, fineID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteFine(context.Background(), fineID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- GetFineReport ---

func (suite *DebtorServiceTestSuite) TestGetFineReport_RejectsInvalidRange() {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := suite.service.GetFineReport(context.Background(), from, from)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DebtorServiceTestSuite) TestGetFineReport_SumsFinesAndWaivers() {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	fineID1, fineID2, groupID := uuid.NewString(), uuid.NewString(), uuid.NewString()

	suite.mockTransferRepo.On("FindFineLinkedTransfers", mock.Anything, from, to).
		Return([]domain.Transfer{
			{TransferID: uuid.NewString(), FineID: &fineID1, AmountInclVat: decimal.NewFromInt(120)},
			{TransferID: uuid.NewString(), FineID: &fineID2, AmountInclVat: decimal.NewFromInt(500)},
			{TransferID: uuid.NewString(), WaivedGroupID: &groupID, AmountInclVat: decimal.NewFromInt(200)},
		}, nil).Once()

	report, err := suite.service.GetFineReport(context.Background(), from, to)

	suite.Require().NoError(err)
	suite.Equal(2, report.Count)
	suite.True(report.HandedOut.Equal(decimal.NewFromInt(620)))
	suite.Equal(1, report.WaivedCount)
	suite.True(report.WaivedAmount.Equal(decimal.NewFromInt(200)))
}

func (suite *DebtorServiceTestSuite) TestGetFineReport_DetectsCorruptTransfer() {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	fineID, groupID := uuid.NewString(), uuid.NewString()

	suite.mockTransferRepo.On("FindFineLinkedTransfers", mock.Anything, from, to).
		Return([]domain.Transfer{
			{TransferID: uuid.NewString(), FineID: &fineID, WaivedGroupID: &groupID, AmountInclVat: decimal.NewFromInt(120)},
		}, nil).Once()

	_, err := suite.service.GetFineReport(context.Background(), from, to)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvariant)
	suite.Contains(err.Error(), "Transfer has both fine and waived fine")
}

// --- AfterTransactionInsert ---

func purchase(buyerID string, amount int64) domain.Transaction {
	subID := uuid.NewString()
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		FromID:        buyerID,
		SubTransactions: []domain.SubTransaction{{
			SubTransactionID: subID,
			ToID:             uuid.NewString(),
			Rows: []domain.SubTransactionRow{{
				RowID:            uuid.NewString(),
				SubTransactionID: subID,
				ProductID:        uuid.NewString(),
				UnitPriceInclVat: decimal.NewFromInt(amount),
				Amount:           1,
			}},
		}},
	}
}

func (suite *DebtorServiceTestSuite) TestDebtHook_NotifiesExactlyOnceAcrossTransition() {
	// A member tops up 500, then buys 600 three times. Only the first
	// purchase crosses from solvent into debt, so only it notifies.
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.member.UserID).
		Return(&suite.member, nil)
	suite.mockDispatcher.On("Notify", mock.Anything, suite.member.UserID, domain.UserDebtNotify, mock.Anything).
		Return(nil).Once()

	balances := []int64{-100, -700, -1300}
	for _, post := range balances {
		suite.mockBalanceSvc.ExpectedCalls = nil
		suite.currentBalance(suite.member.UserID, post)
		suite.service.AfterTransactionInsert(context.Background(), purchase(suite.member.UserID, 600))
	}

	suite.mockDispatcher.AssertNumberOfCalls(suite.T(), "Notify", 1)
}

func (suite *DebtorServiceTestSuite) TestDebtHook_IgnoresSolventBuyer() {
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.member.UserID).
		Return(&suite.member, nil).Once()
	suite.currentBalance(suite.member.UserID, 400)

	suite.service.AfterTransactionInsert(context.Background(), purchase(suite.member.UserID, 100))

	suite.mockDispatcher.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DebtorServiceTestSuite) TestDebtHook_SkipsNonNotifiableTypes() {
	pos := domain.User{UserID: uuid.NewString(), Type: domain.PointOfSale}
	suite.mockUserRepo.On("FindUserByID", mock.Anything, pos.UserID).
		Return(&pos, nil).Once()
	suite.currentBalance(pos.UserID, -100)

	suite.service.AfterTransactionInsert(context.Background(), purchase(pos.UserID, 600))

	suite.mockDispatcher.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DebtorServiceTestSuite) TestDebtHook_SwallowsDispatchErrors() {
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.member.UserID).
		Return(&suite.member, nil).Once()
	suite.currentBalance(suite.member.UserID, -100)
	suite.mockDispatcher.On("Notify", mock.Anything, suite.member.UserID, domain.UserDebtNotify, mock.Anything).
		Return(context.DeadlineExceeded).Once()

	// Must not panic or propagate anything.
	suite.service.AfterTransactionInsert(context.Background(), purchase(suite.member.UserID, 600))

	suite.mockDispatcher.AssertExpectations(suite.T())
}

func TestDebtorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DebtorServiceTestSuite))
}

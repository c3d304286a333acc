package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/posys/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/posys/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/posys/pos_ledger_app/internal/core/ports/services"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, types []domain.UserType) ([]domain.User, error) {
	args := m.Called(ctx, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionsByUser(ctx context.Context, userID string, until time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

// --- Mock TransferRepository ---
type MockTransferRepository struct {
	mock.Mock
}

var _ portsrepo.TransferRepositoryFacade = (*MockTransferRepository)(nil)

func (m *MockTransferRepository) SaveTransfer(ctx context.Context, transfer domain.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) FindTransfersByUser(ctx context.Context, userID string, until time.Time) ([]domain.Transfer, error) {
	args := m.Called(ctx, userID, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) FindFineLinkedTransfers(ctx context.Context, from, to time.Time) ([]domain.Transfer, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transfer), args.Error(1)
}

// --- Mock FineRepository ---
type MockFineRepository struct {
	mock.Mock
}

var _ portsrepo.FineRepositoryFacade = (*MockFineRepository)(nil)

func (m *MockFineRepository) SaveFineHandout(ctx context.Context, event domain.FineHandoutEvent, handouts []portsrepo.FineHandout) error {
	args := m.Called(ctx, event, handouts)
	return args.Error(0)
}

func (m *MockFineRepository) FindGroupByUserID(ctx context.Context, userID string) (*domain.UserFineGroup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserFineGroup), args.Error(1)
}

func (m *MockFineRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.UserFineGroup, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserFineGroup), args.Error(1)
}

func (m *MockFineRepository) FindFineByID(ctx context.Context, fineID string) (*domain.Fine, error) {
	args := m.Called(ctx, fineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}

func (m *MockFineRepository) ReplaceWaiver(ctx context.Context, group domain.UserFineGroup, waiver domain.Transfer, clearCurrentFines bool) error {
	args := m.Called(ctx, group, waiver, clearCurrentFines)
	return args.Error(0)
}

func (m *MockFineRepository) DeleteFine(ctx context.Context, fine domain.Fine, clearCurrentFines bool) error {
	args := m.Called(ctx, fine, clearCurrentFines)
	return args.Error(0)
}

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

func (m *MockBalanceService) CalculateBalance(ctx context.Context, userID string, asOf *time.Time) (*domain.Balance, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

// --- Mock NotificationDispatcher ---
type MockDispatcher struct {
	mock.Mock
}

var _ portssvc.NotificationDispatcher = (*MockDispatcher)(nil)

func (m *MockDispatcher) Notify(ctx context.Context, userID string, template domain.NotificationTemplate, params map[string]string) error {
	args := m.Called(ctx, userID, template, params)
	return args.Error(0)
}

// --- Mock DebtNotifier ---
type MockDebtNotifier struct {
	mock.Mock
}

var _ portssvc.DebtNotifierSvc = (*MockDebtNotifier)(nil)

func (m *MockDebtNotifier) AfterTransactionInsert(ctx context.Context, txn domain.Transaction) {
	m.Called(ctx, txn)
}

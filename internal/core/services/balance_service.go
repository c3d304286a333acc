package services

import (
	"context"
	"fmt"
	"time"

	"github.com/posys/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/posys/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/posys/pos_ledger_app/internal/core/ports/services"
	"github.com/posys/pos_ledger_app/internal/utils/ledger"
)

// balanceService computes derived balances by folding the persisted ledger.
// It never mutates anything; the fold itself lives in utils/ledger so it can
// be tested without a store.
type balanceService struct {
	BaseService
	userRepo     portsrepo.UserRepositoryFacade
	txnRepo      portsrepo.TransactionRepositoryFacade
	transferRepo portsrepo.TransferRepositoryFacade
}

// NewBalanceService creates a new balance service.
func NewBalanceService(userRepo portsrepo.UserRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, transferRepo portsrepo.TransferRepositoryFacade) portssvc.BalanceSvcFacade {
	return &balanceService{
		userRepo:     userRepo,
		txnRepo:      txnRepo,
		transferRepo: transferRepo,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// CalculateBalance folds all transactions and transfers of the user with
// createdAt <= asOf into a balance. asOf defaults to now.
func (s *balanceService) CalculateBalance(ctx context.Context, userID string, asOf *time.Time) (*domain.Balance, error) {
	cutoff := time.Now().UTC()
	if asOf != nil {
		cutoff = asOf.UTC()
	}

	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to resolve user %s: %w", userID, err)
	}

	txns, err := s.txnRepo.FindTransactionsByUser(ctx, userID, cutoff)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch transactions for balance", "user_id", userID)
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	transfers, err := s.transferRepo.FindTransfersByUser(ctx, userID, cutoff)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch transfers for balance", "user_id", userID)
		return nil, fmt.Errorf("failed to fetch transfers: %w", err)
	}

	entries := ledger.EntriesFromTransactions(userID, txns)
	entries = append(entries, ledger.EntriesFromTransfers(userID, transfers)...)

	balance := ledger.Fold(userID, entries, cutoff)
	return &balance, nil
}

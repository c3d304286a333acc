package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/posys/pos_ledger_app/internal/apperrors"
	"github.com/posys/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/posys/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/posys/pos_ledger_app/internal/core/ports/services"
	"github.com/posys/pos_ledger_app/internal/dto"
)

var (
	ErrTransactionNoRows     = fmt.Errorf("%w: transaction must contain at least one row", apperrors.ErrValidation)
	ErrRowAmountNotPositive  = fmt.Errorf("%w: row amount must be positive", apperrors.ErrValidation)
	ErrRowPriceNegative      = fmt.Errorf("%w: row unit price must not be negative", apperrors.ErrValidation)
	ErrTransferNoParty       = fmt.Errorf("%w: transfer must name a sender or a receiver", apperrors.ErrValidation)
	ErrTransferAmountInvalid = fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
)

// transactionService persists POS purchases and drives the debt
// notification hook after each commit.
type transactionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	userRepo     portsrepo.UserRepositoryFacade
	debtNotifier portssvc.DebtNotifierSvc
	// currency metadata for response mapping
	currency  string
	precision int32
}

// NewTransactionService creates a new transaction service. debtNotifier may
// be nil (test and CI contexts), in which case the hook is skipped.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, debtNotifier portssvc.DebtNotifierSvc, currency string, precision int32) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:      txnRepo,
		userRepo:     userRepo,
		debtNotifier: debtNotifier,
		currency:     currency,
		precision:    precision,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction validates and persists a purchase. The debt hook runs
// strictly after the commit so notification I/O never holds the database
// transaction open.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error) {
	if _, err := s.userRepo.FindUserByID(ctx, req.FromID); err != nil {
		return nil, fmt.Errorf("failed to resolve buyer %s: %w", req.FromID, err)
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		FromID:        req.FromID,
		PointOfSaleID: req.PointOfSaleID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	rowCount := 0
	for _, subReq := range req.SubTransactions {
		sub := domain.SubTransaction{
			SubTransactionID: uuid.NewString(),
			TransactionID:    txn.TransactionID,
			ToID:             subReq.ToID,
		}
		for _, rowReq := range subReq.Rows {
			if rowReq.Amount <= 0 {
				return nil, ErrRowAmountNotPositive
			}
			price := rowReq.UnitPriceInclVat.ToDecimal()
			if price.IsNegative() {
				return nil, ErrRowPriceNegative
			}
			sub.Rows = append(sub.Rows, domain.SubTransactionRow{
				RowID:            uuid.NewString(),
				SubTransactionID: sub.SubTransactionID,
				ProductID:        rowReq.ProductID,
				UnitPriceInclVat: price,
				Amount:           rowReq.Amount,
			})
			rowCount++
		}
		txn.SubTransactions = append(txn.SubTransactions, sub)
	}
	if rowCount == 0 {
		return nil, ErrTransactionNoRows
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", "transaction_id", txn.TransactionID)
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction created", "transaction_id", txn.TransactionID,
		"from", txn.FromID, "total", txn.TotalInclVat().String())

	// Post-commit hook: the notifier owns its own error handling and never
	// fails the write path.
	if s.debtNotifier != nil {
		s.debtNotifier.AfterTransactionInsert(ctx, txn)
	}

	return &txn, nil
}

// ListTransactionsByUser returns a keyset-paginated page of the user's
// purchases, newest first.
func (s *transactionService) ListTransactionsByUser(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to resolve user %s: %w", userID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20 // Default limit
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByUser(ctx, userID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", "user_id", userID)
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns, s.currency, s.precision),
		NextToken:    nextToken,
	}, nil
}

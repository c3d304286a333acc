package services

import (
	"context"

	"github.com/posys/pos_ledger_app/internal/core/domain"
	"github.com/posys/pos_ledger_app/internal/dto"
)

// TransactionSvcFacade exposes the POS purchase write path.
type TransactionSvcFacade interface {
	// CreateTransaction validates and persists a purchase, then runs the
	// debt notification hook after commit.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error)
	// ListTransactionsByUser returns a paginated page of the user's
	// purchases.
	ListTransactionsByUser(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransferSvcFacade exposes deposit/payout/correction transfers.
type TransferSvcFacade interface {
	CreateTransfer(ctx context.Context, req dto.CreateTransferRequest, actorID string) (*domain.Transfer, error)
}

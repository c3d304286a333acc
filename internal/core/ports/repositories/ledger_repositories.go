package repositories

import (
	"context"
	"time"

	"github.com/posys/pos_ledger_app/internal/core/domain"
)

// TransactionRepositoryFacade defines persistence operations for POS
// purchases. Transactions are append-only: there is no update.
type TransactionRepositoryFacade interface {
	// SaveTransaction persists a transaction with its sub-transactions and
	// rows atomically.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	// FindTransactionsByUser returns every transaction where the user is the
	// buyer with createdAt <= until, rows populated.
	FindTransactionsByUser(ctx context.Context, userID string, until time.Time) ([]domain.Transaction, error)
	// ListTransactionsByUser returns a keyset-paginated page of the user's
	// transactions, newest first, and the token for the next page.
	ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransferRepositoryFacade defines persistence operations for transfers.
type TransferRepositoryFacade interface {
	// SaveTransfer persists a single transfer.
	SaveTransfer(ctx context.Context, transfer domain.Transfer) error
	// FindTransferByID returns the transfer or apperrors.ErrNotFound.
	FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error)
	// FindTransfersByUser returns every transfer touching the user with
	// createdAt <= until.
	FindTransfersByUser(ctx context.Context, userID string, until time.Time) ([]domain.Transfer, error)
	// FindFineLinkedTransfers returns transfers created in [from, to) that
	// reference a fine or a waived fine group.
	FindFineLinkedTransfers(ctx context.Context, from, to time.Time) ([]domain.Transfer, error)
}

package services

import (
	"context"
	"time"

	"github.com/posys/pos_ledger_app/internal/core/domain"
)

// BalanceSvcFacade computes derived balances from the ledger.
type BalanceSvcFacade interface {
	// CalculateBalance folds the user's ledger up to asOf (now when nil).
	// Read-only and safe to call concurrently with different cutoffs.
	CalculateBalance(ctx context.Context, userID string, asOf *time.Time) (*domain.Balance, error)
}

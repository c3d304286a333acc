package dto

import (
	"time"

	"github.com/posys/pos_ledger_app/internal/core/domain"
)

// BalanceResponse is a user's derived position at a point in time.
type BalanceResponse struct {
	UserID            string    `json:"userId"`
	Amount            Money     `json:"amount"`
	LastTransactionID *string   `json:"lastTransactionId,omitempty"`
	LastTransferID    *string   `json:"lastTransferId,omitempty"`
	AsOf              time.Time `json:"asOf"`
}

// ToBalanceResponse converts a domain.Balance to its wire shape.
func ToBalanceResponse(b *domain.Balance, currency string, precision int32) BalanceResponse {
	return BalanceResponse{
		UserID:            b.UserID,
		Amount:            MoneyFromDecimal(b.Amount, currency, precision),
		LastTransactionID: b.LastTransactionID,
		LastTransferID:    b.LastTransferID,
		AsOf:              b.AsOf,
	}
}

package dto

import (
	"time"

	"github.com/posys/pos_ledger_app/internal/core/domain"
)

// CreateTransferRequest records a money movement: a top-up when FromID is
// nil, a payout when ToID is nil, or a user-to-user correction when both are
// set. At least one side must be present.
type CreateTransferRequest struct {
	FromID      *string `json:"fromId,omitempty"`
	ToID        *string `json:"toId,omitempty"`
	Amount      Money   `json:"amount" binding:"required"`
	Description string  `json:"description"`
}

// TransferResponse is the wire shape of a persisted transfer.
type TransferResponse struct {
	ID          string    `json:"id"`
	FromID      *string   `json:"fromId,omitempty"`
	ToID        *string   `json:"toId,omitempty"`
	Amount      Money     `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToTransferResponse converts a domain.Transfer to its wire shape.
func ToTransferResponse(t *domain.Transfer, currency string, precision int32) TransferResponse {
	return TransferResponse{
		ID:          t.TransferID,
		FromID:      t.FromID,
		ToID:        t.ToID,
		Amount:      MoneyFromDecimal(t.AmountInclVat, currency, precision),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

package dto

import (
	"time"

	"github.com/posys/pos_ledger_app/internal/core/domain"
)

// CreateSubTransactionRowRequest is one line item of a purchase.
type CreateSubTransactionRowRequest struct {
	ProductID        string `json:"productId" binding:"required"`
	UnitPriceInclVat Money  `json:"unitPriceInclVat" binding:"required"`
	Amount           int64  `json:"amount" binding:"required,gt=0"`
}

// CreateSubTransactionRequest groups rows settling to one receiver.
type CreateSubTransactionRequest struct {
	ToID string                           `json:"toId" binding:"required"`
	Rows []CreateSubTransactionRowRequest `json:"rows" binding:"required,min=1,dive"`
}

// CreateTransactionRequest records a POS purchase debiting the buyer.
type CreateTransactionRequest struct {
	FromID          string                        `json:"fromId" binding:"required"`
	PointOfSaleID   *string                       `json:"pointOfSaleId,omitempty"`
	SubTransactions []CreateSubTransactionRequest `json:"subTransactions" binding:"required,min=1,dive"`
}

// TransactionResponse is the wire shape of a persisted purchase.
type TransactionResponse struct {
	ID            string    `json:"id"`
	FromID        string    `json:"fromId"`
	TotalInclVat  Money     `json:"totalInclVat"`
	PointOfSaleID *string   `json:"pointOfSaleId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}

// ListTransactionsParams holds pagination parameters for transaction lists.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is one page of a user's transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its wire shape.
func ToTransactionResponse(t *domain.Transaction, currency string, precision int32) TransactionResponse {
	return TransactionResponse{
		ID:            t.TransactionID,
		FromID:        t.FromID,
		TotalInclVat:  MoneyFromDecimal(t.TotalInclVat(), currency, precision),
		PointOfSaleID: t.PointOfSaleID,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction, currency string, precision int32) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i], currency, precision)
	}
	return responses
}

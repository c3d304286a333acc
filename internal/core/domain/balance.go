package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the derived position of a user at a point in time. It is never
// stored; it is recomputed by folding the ledger up to AsOf.
type Balance struct {
	UserID            string          `json:"userID"`
	Amount            decimal.Decimal `json:"amount"` // Minor units
	LastTransactionID *string         `json:"lastTransactionID,omitempty"`
	LastTransferID    *string         `json:"lastTransferID,omitempty"`
	AsOf              time.Time       `json:"asOf"`
}

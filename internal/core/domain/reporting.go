package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FineReport summarizes fines and waivers whose creation timestamp falls in
// [FromDate, ToDate).
type FineReport struct {
	FromDate     time.Time       `json:"fromDate"`
	ToDate       time.Time       `json:"toDate"`
	Count        int             `json:"count"`     // Fines handed out
	HandedOut    decimal.Decimal `json:"handedOut"` // Total fined amount
	WaivedCount  int             `json:"waivedCount"`
	WaivedAmount decimal.Decimal `json:"waivedAmount"`
}

// UserToFine is one eligible user produced by the fine calculator, with the
// balance that was found at each reference date.
type UserToFine struct {
	UserID     string          `json:"userID"`
	FineAmount decimal.Decimal `json:"fineAmount"`
	Balances   []Balance       `json:"balances"`
}

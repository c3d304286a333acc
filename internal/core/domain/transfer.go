package domain

import "github.com/shopspring/decimal"

// Transfer is an append-only ledger entry moving money between a user and
// the system or another user. A nil FromID means money entering the system
// (top-up); a nil ToID means money leaving it (fine debit, payout).
type Transfer struct {
	TransferID    string          `json:"transferID"` // Primary Key (e.g., UUID)
	FromID        *string         `json:"fromID,omitempty"`
	ToID          *string         `json:"toID,omitempty"`
	AmountInclVat decimal.Decimal `json:"amountInclVat"` // Positive, minor units
	Description   string          `json:"description"`
	// FineID is set when this transfer backs a fine debit.
	FineID *string `json:"fineID,omitempty"`
	// WaivedGroupID is set when this transfer waives a fine group.
	// A transfer must never reference both a fine and a waived fine group;
	// that combination is detected at report time as ledger corruption.
	WaivedGroupID *string `json:"waivedGroupID,omitempty"`
	AuditFields
}

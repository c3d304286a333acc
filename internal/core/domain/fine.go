package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FineHandoutEvent records one fining run: a batch of fines issued as of a
// single reference date by one actor. Immutable after creation except for
// its fines back-reference.
type FineHandoutEvent struct {
	EventID       string    `json:"eventID"` // Primary Key (e.g., UUID)
	ReferenceDate time.Time `json:"referenceDate"`
	CreatedByID   string    `json:"createdByID"` // Acting UserID
	Fines         []Fine    `json:"fines"`
	AuditFields
}

// Fine is one fine instance issued to a user during a handout event.
// A positive fine is backed by exactly one debit transfer; a zero-amount
// fine is recorded for auditability without a transfer.
type Fine struct {
	FineID  string `json:"fineID"`  // Primary Key (e.g., UUID)
	EventID string `json:"eventID"` // FK -> FineHandoutEvent
	GroupID string `json:"groupID"` // FK -> UserFineGroup
	// UserID duplicates the group's owner so fines are queryable without a
	// join.
	UserID     string          `json:"userID"`
	TransferID *string         `json:"transferID,omitempty"`
	Amount     decimal.Decimal `json:"amount"` // Minor units
	AuditFields
}

// UserFineGroup collects all of a user's outstanding fines under one
// referenceable unit. WaivedTransferID is the single mutable pointer in the
// fining model: it is replaced, not accumulated, on repeated waiver calls.
type UserFineGroup struct {
	GroupID          string  `json:"groupID"` // Primary Key (e.g., UUID)
	UserID           string  `json:"userID"`
	Fines            []Fine  `json:"fines"`
	WaivedTransferID *string `json:"waivedTransferID,omitempty"`
	AuditFields
}

// FineTotal sums the amounts of all fines in the group.
func (g UserFineGroup) FineTotal() decimal.Decimal {
	total := decimal.Zero
	for _, f := range g.Fines {
		total = total.Add(f.Amount)
	}
	return total
}

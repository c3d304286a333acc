package services

import (
	"context"
	"time"

	"github.com/posys/pos_ledger_app/internal/core/domain"
	"github.com/posys/pos_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// DebtorSvcFacade exposes the fining workflows: eligibility calculation,
// handout, waiver, deletion and reporting.
type DebtorSvcFacade interface {
	// CalculateFinesOnDate returns the users whose balance was at or below
	// the fine threshold on every supplied reference date, with the fine
	// that would apply. Performs no writes.
	CalculateFinesOnDate(ctx context.Context, params dto.CalculateFinesParams) ([]domain.UserToFine, error)
	// HandOutFines issues fines to the listed users as of the reference
	// date, atomically, and returns the created handout event.
	HandOutFines(ctx context.Context, req dto.HandOutFinesRequest, actorID string) (*domain.FineHandoutEvent, error)
	// WaiveFines credits back part or all of the user's outstanding fines.
	// Returns the updated group, or nil when the user has no fine group.
	WaiveFines(ctx context.Context, userID string, amount decimal.Decimal) (*domain.UserFineGroup, error)
	// DeleteFine removes a fine and its backing transfer.
	DeleteFine(ctx context.Context, fineID string) error
	// GetFineReport summarizes fines and waivers created in [from, to).
	GetFineReport(ctx context.Context, from, to time.Time) (*domain.FineReport, error)
}

// DebtNotifierSvc reacts to a freshly committed transaction by notifying the
// buyer when the purchase moved them from solvent into debt. Implementations
// must never fail the calling write path.
type DebtNotifierSvc interface {
	AfterTransactionInsert(ctx context.Context, txn domain.Transaction)
}

package repositories

import (
	"context"

	"github.com/posys/pos_ledger_app/internal/core/domain"
)

// FineHandout is one user's prepared slice of a handout write. The service
// computes everything up front; the repository persists the batch atomically.
type FineHandout struct {
	User domain.User
	Fine domain.Fine
	// Transfer is nil for zero-amount fines, which are recorded for
	// auditability without a backing debit.
	Transfer *domain.Transfer
	// Group is the find-or-create target; GroupExists tells the repository
	// whether to insert it or reuse the stored row.
	Group       domain.UserFineGroup
	GroupExists bool
	// SetCurrentFines makes the user's currentFines pointer reference Group.
	SetCurrentFines bool
}

// FineRepositoryFacade defines persistence operations for the fining model.
// The write methods each span a single database transaction and take a
// per-user advisory lock, so a crash leaves either no trace of the operation
// or its complete result.
type FineRepositoryFacade interface {
	// SaveFineHandout persists a handout event with all its fines, backing
	// transfers, groups and currentFines updates in one transaction.
	SaveFineHandout(ctx context.Context, event domain.FineHandoutEvent, handouts []FineHandout) error
	// FindGroupByUserID returns the user's active fine group with its fines
	// populated, or apperrors.ErrNotFound when the user has none.
	FindGroupByUserID(ctx context.Context, userID string) (*domain.UserFineGroup, error)
	// FindGroupByID returns a fine group by primary key with its fines
	// populated, or apperrors.ErrNotFound.
	FindGroupByID(ctx context.Context, groupID string) (*domain.UserFineGroup, error)
	// FindFineByID returns the fine or apperrors.ErrNotFound.
	FindFineByID(ctx context.Context, fineID string) (*domain.Fine, error)
	// ReplaceWaiver deletes the group's previous waiver transfer (if any),
	// persists the new one, repoints the group at it, and clears the user's
	// currentFines pointer when requested. All in one transaction.
	ReplaceWaiver(ctx context.Context, group domain.UserFineGroup, waiver domain.Transfer, clearCurrentFines bool) error
	// DeleteFine removes a fine together with its backing transfer. When it
	// was the group's last fine the group is deleted and the user's
	// currentFines pointer nulled; otherwise the pointer is cleared only when
	// clearCurrentFines is set.
	DeleteFine(ctx context.Context, fine domain.Fine, clearCurrentFines bool) error
}

package repositories

import (
	"context"

	"github.com/posys/pos_ledger_app/internal/core/domain"
)

// UserRepositoryFacade defines persistence operations for users.
type UserRepositoryFacade interface {
	// FindUserByID returns the user or apperrors.ErrNotFound.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	// ListUsers returns non-deleted users, optionally filtered by type.
	ListUsers(ctx context.Context, types []domain.UserType) ([]domain.User, error)
	// SaveUser inserts or updates a user.
	SaveUser(ctx context.Context, user domain.User) error
}

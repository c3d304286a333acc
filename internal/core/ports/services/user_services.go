package services

import (
	"context"

	"github.com/posys/pos_ledger_app/internal/core/domain"
)

// UserSvcFacade exposes user lookup and credential verification.
type UserSvcFacade interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, types []domain.UserType) ([]domain.User, error)
	// VerifyCredentials returns the user when the password matches,
	// apperrors.ErrUnauthorized otherwise.
	VerifyCredentials(ctx context.Context, userID, password string) (*domain.User, error)
}

package services

import (
	"context"
	"fmt"

	"github.com/posys/pos_ledger_app/internal/apperrors"
	"github.com/posys/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/posys/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/posys/pos_ledger_app/internal/core/ports/services"
	"github.com/posys/pos_ledger_app/internal/utils"
)

// userService implements user lookup and credential verification.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, types []domain.UserType) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx, types)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// VerifyCredentials checks the password against the stored bcrypt hash. A
// missing user and a wrong password both map to ErrUnauthorized so callers
// cannot probe for account existence.
func (s *userService) VerifyCredentials(ctx context.Context, userID, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		s.LogWarn(ctx, "Login attempt for unknown user", "user_id", userID)
		return nil, apperrors.ErrUnauthorized
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogWarn(ctx, "Login attempt with bad credentials", "user_id", userID)
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

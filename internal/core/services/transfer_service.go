package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/posys/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/posys/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/posys/pos_ledger_app/internal/core/ports/services"
	"github.com/posys/pos_ledger_app/internal/dto"
)

// transferService records top-ups, payouts and corrections.
type transferService struct {
	BaseService
	transferRepo portsrepo.TransferRepositoryFacade
	userRepo     portsrepo.UserRepositoryFacade
}

func NewTransferService(transferRepo portsrepo.TransferRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.TransferSvcFacade {
	return &transferService{transferRepo: transferRepo, userRepo: userRepo}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// CreateTransfer validates and persists a transfer. A transfer with a nil
// FromID is a top-up, a nil ToID is money leaving the system.
func (s *transferService) CreateTransfer(ctx context.Context, req dto.CreateTransferRequest, actorID string) (*domain.Transfer, error) {
	if req.FromID == nil && req.ToID == nil {
		return nil, ErrTransferNoParty
	}
	amount := req.Amount.ToDecimal()
	if !amount.IsPositive() {
		return nil, ErrTransferAmountInvalid
	}

	for _, userID := range []*string{req.FromID, req.ToID} {
		if userID == nil {
			continue
		}
		if _, err := s.userRepo.FindUserByID(ctx, *userID); err != nil {
			return nil, fmt.Errorf("failed to resolve user %s: %w", *userID, err)
		}
	}

	now := time.Now().UTC()
	transfer := domain.Transfer{
		TransferID:    uuid.NewString(),
		FromID:        req.FromID,
		ToID:          req.ToID,
		AmountInclVat: amount,
		Description:   req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.transferRepo.SaveTransfer(ctx, transfer); err != nil {
		s.LogError(ctx, err, "Failed to save transfer", "transfer_id", transfer.TransferID)
		return nil, fmt.Errorf("failed to save transfer: %w", err)
	}

	s.LogInfo(ctx, "Transfer created", "transfer_id", transfer.TransferID,
		"amount", amount.String())
	return &transfer, nil
}

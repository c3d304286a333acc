package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/posys/pos_ledger_app/internal/apperrors"
	"github.com/posys/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/posys/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/posys/pos_ledger_app/internal/core/ports/services"
	"github.com/posys/pos_ledger_app/internal/dto"
	"github.com/posys/pos_ledger_app/internal/utils/fining"
)

var (
	ErrNoReferenceDates       = fmt.Errorf("%w: at least one reference date is required", apperrors.ErrValidation)
	ErrWaiveAmountNotPositive = fmt.Errorf("%w: waive amount must be strictly positive", apperrors.ErrValidation)
	ErrWaiveExceedsFineTotal  = fmt.Errorf("%w: waive amount exceeds outstanding fine total", apperrors.ErrValidation)
	ErrReportRangeInvalid     = fmt.Errorf("%w: fromDate must be before toDate", apperrors.ErrValidation)
)

// DebtorService implements the fining workflows on top of the balance
// service and the fine/transfer repositories. All financial writes go
// through single atomic repository methods; this service only validates,
// computes and prepares. It also implements the debt notification hook.
type DebtorService struct {
	BaseService
	userRepo        portsrepo.UserRepositoryFacade
	fineRepo        portsrepo.FineRepositoryFacade
	transferRepo    portsrepo.TransferRepositoryFacade
	balanceSvc      portssvc.BalanceSvcFacade
	dispatcher      portssvc.NotificationDispatcher
	schedule        fining.Schedule
	notifiableTypes []domain.UserType
}

// NewDebtorService creates a new debtor service. The dispatcher may be nil,
// in which case notifications are silently skipped.
func NewDebtorService(
	userRepo portsrepo.UserRepositoryFacade,
	fineRepo portsrepo.FineRepositoryFacade,
	transferRepo portsrepo.TransferRepositoryFacade,
	balanceSvc portssvc.BalanceSvcFacade,
	dispatcher portssvc.NotificationDispatcher,
	schedule fining.Schedule,
	notifiableTypes []domain.UserType,
) *DebtorService {
	return &DebtorService{
		userRepo:        userRepo,
		fineRepo:        fineRepo,
		transferRepo:    transferRepo,
		balanceSvc:      balanceSvc,
		dispatcher:      dispatcher,
		schedule:        schedule,
		notifiableTypes: notifiableTypes,
	}
}

var _ portssvc.DebtorSvcFacade = (*DebtorService)(nil)
var _ portssvc.DebtNotifierSvc = (*DebtorService)(nil)

// CalculateFinesOnDate returns the users eligible for a fine: those whose
// balance was at or below the threshold on every supplied reference date.
// The fine amount is derived from the balance at the most recent date.
func (s *DebtorService) CalculateFinesOnDate(ctx context.Context, params dto.CalculateFinesParams) ([]domain.UserToFine, error) {
	if len(params.ReferenceDates) == 0 {
		return nil, ErrNoReferenceDates
	}

	latest := params.ReferenceDates[0]
	for _, d := range params.ReferenceDates[1:] {
		if d.After(latest) {
			latest = d
		}
	}

	users, err := s.userRepo.ListUsers(ctx, params.UserTypes)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users for fine calculation")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	results := make([]domain.UserToFine, 0)
	for _, user := range users {
		balances := make([]domain.Balance, 0, len(params.ReferenceDates))
		eligible := true
		latestBalance := decimal.Zero
		for _, date := range params.ReferenceDates {
			d := date
			balance, err := s.balanceSvc.CalculateBalance(ctx, user.UserID, &d)
			if err != nil {
				s.LogError(ctx, err, "Failed to calculate balance for fine eligibility", "user_id", user.UserID)
				return nil, fmt.Errorf("failed to calculate balance for user %s: %w", user.UserID, err)
			}
			balances = append(balances, *balance)
			if !s.schedule.IsFineable(balance.Amount) {
				eligible = false
				break
			}
			if date.Equal(latest) {
				latestBalance = balance.Amount
			}
		}
		if !eligible {
			continue
		}
		results = append(results, domain.UserToFine{
			UserID:     user.UserID,
			FineAmount: s.schedule.FineFor(latestBalance),
			Balances:   balances,
		})
	}

	s.LogInfo(ctx, "Fine eligibility calculated", "eligible_count", len(results), "reference_dates", len(params.ReferenceDates))
	return results, nil
}

// HandOutFines creates a handout event and one fine per resolvable user,
// recomputing each amount at the reference date rather than trusting an
// earlier client calculation. Unknown user ids are skipped: handout is a
// batch operation that one bad id must not derail.
func (s *DebtorService) HandOutFines(ctx context.Context, req dto.HandOutFinesRequest, actorID string) (*domain.FineHandoutEvent, error) {
	now := time.Now().UTC()
	event := domain.FineHandoutEvent{
		EventID:       uuid.NewString(),
		ReferenceDate: req.ReferenceDate.UTC(),
		CreatedByID:   actorID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	handouts := make([]portsrepo.FineHandout, 0, len(req.UserIDs))
	type finedUser struct {
		userID string
		amount decimal.Decimal
	}
	notifyList := make([]finedUser, 0, len(req.UserIDs))

	for _, userID := range uniqueStrings(req.UserIDs) {
		user, err := s.userRepo.FindUserByID(ctx, userID)
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Skipping unknown user in fine handout", "user_id", userID)
			continue
		}
		if err != nil {
			s.LogError(ctx, err, "Failed to resolve user for fine handout", "user_id", userID)
			return nil, fmt.Errorf("failed to resolve user %s: %w", userID, err)
		}

		refDate := event.ReferenceDate
		balance, err := s.balanceSvc.CalculateBalance(ctx, userID, &refDate)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate balance for user %s: %w", userID, err)
		}
		amount := s.schedule.FineFor(balance.Amount)

		group, groupExists, err := s.findOrPrepareGroup(ctx, userID, actorID, now)
		if err != nil {
			return nil, err
		}

		fine := domain.Fine{
			FineID:  uuid.NewString(),
			EventID: event.EventID,
			GroupID: group.GroupID,
			UserID:  userID,
			Amount:  amount,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}

		handout := portsrepo.FineHandout{
			User:        *user,
			Group:       *group,
			GroupExists: groupExists,
		}

		if amount.IsPositive() {
			from := userID
			transfer := domain.Transfer{
				TransferID:    uuid.NewString(),
				FromID:        &from,
				AmountInclVat: amount,
				Description:   fmt.Sprintf("Fine for balance of %s on %s", balance.Amount.String(), event.ReferenceDate.Format("2006-01-02")),
				FineID:        &fine.FineID,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     actorID,
					LastUpdatedAt: now,
					LastUpdatedBy: actorID,
				},
			}
			fine.TransferID = &transfer.TransferID
			handout.Transfer = &transfer
			handout.SetCurrentFines = user.CurrentFinesID == nil || *user.CurrentFinesID != group.GroupID
			notifyList = append(notifyList, finedUser{userID: userID, amount: amount})
		}

		handout.Fine = fine
		event.Fines = append(event.Fines, fine)
		handouts = append(handouts, handout)
	}

	if err := s.fineRepo.SaveFineHandout(ctx, event, handouts); err != nil {
		s.LogError(ctx, err, "Failed to persist fine handout", "event_id", event.EventID)
		return nil, fmt.Errorf("failed to save fine handout: %w", err)
	}

	s.LogInfo(ctx, "Fines handed out", "event_id", event.EventID, "fine_count", len(event.Fines))

	// Notifications are best-effort and must never roll back the handout.
	for _, fined := range notifyList {
		s.dispatch(ctx, fined.userID, domain.UserGotFined, map[string]string{
			"amount":        fined.amount.String(),
			"referenceDate": event.ReferenceDate.Format(time.RFC3339),
		})
	}

	return &event, nil
}

// findOrPrepareGroup loads the user's active fine group or prepares a fresh
// one for insertion. Grouping is per user, not per handout event.
func (s *DebtorService) findOrPrepareGroup(ctx context.Context, userID, actorID string, now time.Time) (*domain.UserFineGroup, bool, error) {
	group, err := s.fineRepo.FindGroupByUserID(ctx, userID)
	if err == nil {
		return group, true, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to load fine group", "user_id", userID)
		return nil, false, fmt.Errorf("failed to load fine group for user %s: %w", userID, err)
	}
	return &domain.UserFineGroup{
		GroupID: uuid.NewString(),
		UserID:  userID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}, false, nil
}

// WaiveFines credits back part or all of the user's outstanding fines. The
// waiver transfer replaces any earlier one; fines themselves are never
// deleted here.
func (s *DebtorService) WaiveFines(ctx context.Context, userID string, amount decimal.Decimal) (*domain.UserFineGroup, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrWaiveAmountNotPositive
	}

	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to resolve user %s: %w", userID, err)
	}

	group, err := s.fineRepo.FindGroupByUserID(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.LogInfo(ctx, "Waive requested for user without fines, nothing to do", "user_id", userID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fine group for user %s: %w", userID, err)
	}

	if amount.GreaterThan(group.FineTotal()) {
		return nil, ErrWaiveExceedsFineTotal
	}

	balance, err := s.balanceSvc.CalculateBalance(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate balance for user %s: %w", userID, err)
	}

	// The previous waiver is replaced, not accumulated: its amount leaves
	// the balance when its transfer is discarded.
	previousWaived := decimal.Zero
	if group.WaivedTransferID != nil {
		previous, err := s.transferRepo.FindTransferByID(ctx, *group.WaivedTransferID)
		if err != nil {
			return nil, fmt.Errorf("failed to load previous waiver transfer: %w", err)
		}
		previousWaived = previous.AmountInclVat
	}

	now := time.Now().UTC()
	to := userID
	waiver := domain.Transfer{
		TransferID:    uuid.NewString(),
		ToID:          &to,
		AmountInclVat: amount,
		Description:   "Waived fines",
		WaivedGroupID: &group.GroupID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	newBalance := balance.Amount.Sub(previousWaived).Add(amount)
	clearCurrentFines := !newBalance.IsNegative()

	if err := s.fineRepo.ReplaceWaiver(ctx, *group, waiver, clearCurrentFines); err != nil {
		s.LogError(ctx, err, "Failed to persist fine waiver", "user_id", userID, "group_id", group.GroupID)
		return nil, fmt.Errorf("failed to save waiver: %w", err)
	}

	group.WaivedTransferID = &waiver.TransferID
	s.LogInfo(ctx, "Fines waived", "user_id", userID, "group_id", group.GroupID,
		"amount", amount.String(), "current_fines_cleared", clearCurrentFines)
	return group, nil
}

// DeleteFine removes a fine together with its backing transfer. The group
// and the user's currentFines pointer are re-evaluated against the balance
// without the fine's debit.
func (s *DebtorService) DeleteFine(ctx context.Context, fineID string) error {
	fine, err := s.fineRepo.FindFineByID(ctx, fineID)
	if err != nil {
		return fmt.Errorf("failed to find fine %s: %w", fineID, err)
	}

	group, err := s.fineRepo.FindGroupByID(ctx, fine.GroupID)
	if err != nil {
		return fmt.Errorf("failed to load fine group %s: %w", fine.GroupID, err)
	}

	balance, err := s.balanceSvc.CalculateBalance(ctx, group.UserID, nil)
	if err != nil {
		return fmt.Errorf("failed to calculate balance for user %s: %w", group.UserID, err)
	}

	// Removing the fine's debit adds its amount back to the balance.
	newBalance := balance.Amount.Add(fine.Amount)
	clearCurrentFines := !newBalance.IsNegative()

	if err := s.fineRepo.DeleteFine(ctx, *fine, clearCurrentFines); err != nil {
		s.LogError(ctx, err, "Failed to delete fine", "fine_id", fineID)
		return fmt.Errorf("failed to delete fine %s: %w", fineID, err)
	}

	s.LogInfo(ctx, "Fine deleted", "fine_id", fineID, "group_id", group.GroupID)
	return nil
}

// GetFineReport summarizes fines and waivers created in [from, to). A
// transfer referencing both a fine and a waived fine group indicates ledger
// corruption and fails the report.
func (s *DebtorService) GetFineReport(ctx context.Context, from, to time.Time) (*domain.FineReport, error) {
	if !to.After(from) {
		return nil, ErrReportRangeInvalid
	}

	transfers, err := s.transferRepo.FindFineLinkedTransfers(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch fine-linked transfers for report")
		return nil, fmt.Errorf("failed to fetch fine transfers: %w", err)
	}

	report := domain.FineReport{
		FromDate:     from,
		ToDate:       to,
		HandedOut:    decimal.Zero,
		WaivedAmount: decimal.Zero,
	}

	for _, transfer := range transfers {
		if transfer.FineID != nil && transfer.WaivedGroupID != nil {
			return nil, fmt.Errorf("%w: Transfer has both fine and waived fine (transfer %s)", apperrors.ErrInvariant, transfer.TransferID)
		}
		switch {
		case transfer.FineID != nil:
			report.Count++
			report.HandedOut = report.HandedOut.Add(transfer.AmountInclVat)
		case transfer.WaivedGroupID != nil:
			report.WaivedCount++
			report.WaivedAmount = report.WaivedAmount.Add(transfer.AmountInclVat)
		}
	}

	return &report, nil
}

// AfterTransactionInsert is the debt notification hook, invoked by the
// transaction service after a purchase has been committed. It notifies the
// buyer exactly once per solvent-to-debt transition and never surfaces an
// error to the write path.
func (s *DebtorService) AfterTransactionInsert(ctx context.Context, txn domain.Transaction) {
	user, err := s.userRepo.FindUserByID(ctx, txn.FromID)
	if err != nil {
		s.LogWarn(ctx, "Debt hook could not resolve buyer", "user_id", txn.FromID, "error", err.Error())
		return
	}

	post, err := s.balanceSvc.CalculateBalance(ctx, txn.FromID, nil)
	if err != nil {
		s.LogWarn(ctx, "Debt hook could not compute balance", "user_id", txn.FromID, "error", err.Error())
		return
	}

	if !post.Amount.IsNegative() {
		return
	}

	// Estimate the balance before this transaction by adding back its
	// first row only. Known limitation: multi-row purchases that cross
	// into debt on a later row can be misclassified.
	prior := post.Amount.Add(txn.FirstRowInclVat())
	if prior.IsNegative() {
		// Already in debt before this purchase; no repeat notification.
		return
	}

	if !s.isNotifiable(user.Type) {
		return
	}

	s.dispatch(ctx, user.UserID, domain.UserDebtNotify, map[string]string{
		"balance": post.Amount.String(),
	})
	s.LogInfo(ctx, "Debt transition notification dispatched", "user_id", user.UserID, "balance", post.Amount.String())
}

func (s *DebtorService) isNotifiable(t domain.UserType) bool {
	for _, nt := range s.notifiableTypes {
		if nt == t {
			return true
		}
	}
	return false
}

// dispatch delivers a notification best-effort: failures are logged and
// swallowed, never propagated into a financial operation.
func (s *DebtorService) dispatch(ctx context.Context, userID string, template domain.NotificationTemplate, params map[string]string) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Notify(ctx, userID, template, params); err != nil {
		s.LogWarn(ctx, "Notification dispatch failed", "user_id", userID, "template", string(template), "error", err.Error())
	}
}

// uniqueStrings returns a slice containing only the unique strings from the
// input, preserving first-seen order.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}

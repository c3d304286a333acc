package services

import (
	"context"

	"github.com/posys/pos_ledger_app/internal/core/domain"
)

// NotificationDispatcher delivers a templated message to a user through a
// configured channel. Fire-and-forget: callers log failures and never let
// them affect financial state.
type NotificationDispatcher interface {
	Notify(ctx context.Context, userID string, template domain.NotificationTemplate, params map[string]string) error
}

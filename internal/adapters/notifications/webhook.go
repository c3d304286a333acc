// Package notifications contains outbound notification dispatchers. The
// actual rendering and delivery (mail, push) lives behind an external
// webhook; this package only posts the template and its parameters.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/posys/pos_ledger_app/internal/core/domain"
	portssvc "github.com/posys/pos_ledger_app/internal/core/ports/services"
	"github.com/posys/pos_ledger_app/internal/middleware"
)

const defaultTimeout = 5 * time.Second

// WebhookDispatcher posts notification payloads to a configured endpoint.
type WebhookDispatcher struct {
	url    string
	client *http.Client
}

func NewWebhookDispatcher(url string) *WebhookDispatcher {
	return &WebhookDispatcher{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

var _ portssvc.NotificationDispatcher = (*WebhookDispatcher)(nil)

type webhookPayload struct {
	UserID   string            `json:"userId"`
	Template string            `json:"template"`
	Params   map[string]string `json:"params,omitempty"`
	SentAt   time.Time         `json:"sentAt"`
}

// Notify posts the notification to the webhook. The dispatcher carries its
// own timeout so a slow endpoint cannot stall the caller indefinitely.
func (d *WebhookDispatcher) Notify(ctx context.Context, userID string, template domain.NotificationTemplate, params map[string]string) error {
	payload := webhookPayload{
		UserID:   userID,
		Template: string(template),
		Params:   params,
		SentAt:   time.Now().UTC(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post notification: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("notification webhook returned %d: %s", res.StatusCode, string(respBody))
	}
	return nil
}

// LogDispatcher writes notifications to the structured log. Used when no
// webhook is configured, so development setups still show what would have
// been sent.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

var _ portssvc.NotificationDispatcher = (*LogDispatcher)(nil)

func (d *LogDispatcher) Notify(ctx context.Context, userID string, template domain.NotificationTemplate, params map[string]string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Notification (log only)", "user_id", userID, "template", string(template), "params", params)
	return nil
}

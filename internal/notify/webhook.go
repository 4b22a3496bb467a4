package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gruzpro/site-platform/internal/leads"
	"github.com/gruzpro/site-platform/pkg/logging"
)

// WebhookNotifier POSTs new applications to a fixed HTTPS endpoint.
// No response body contract is relied upon; any 2xx counts as delivered.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *logging.Logger
}

// NewWebhookNotifier creates a webhook notifier, or nil when no URL is
// configured.
func NewWebhookNotifier(url string, logger *logging.Logger) *WebhookNotifier {
	if url == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type webhookPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Notify delivers the application to the webhook endpoint.
func (n *WebhookNotifier) Notify(ctx context.Context, app *leads.Application) error {
	if n == nil {
		return nil
	}

	body, err := json.Marshal(webhookPayload{
		Name:    app.Name,
		Email:   app.Email,
		Phone:   app.Phone,
		Message: app.Message,
	})
	if err != nil {
		return fmt.Errorf("notify: marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: webhook call failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notify: webhook returned %d", resp.StatusCode)
	}

	n.logger.Debug("webhook notification delivered", "status", resp.StatusCode)
	return nil
}

// Package analytics reports conversion goals to the counter endpoint.
// Delivery is best-effort by contract: the client swallows its own errors
// so analytics can never affect the operation that reached the goal.
package analytics

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gruzpro/site-platform/pkg/logging"
)

// Client posts goal-reached events.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *logging.Logger
}

// NewClient creates a goal client, or nil when no endpoint is configured.
func NewClient(endpoint string, logger *logging.Logger) *Client {
	if endpoint == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
		logger:   logger,
	}
}

// Goal records that the named goal was reached. It always returns nil;
// failures are logged at debug level and dropped.
func (c *Client) Goal(ctx context.Context, name string) error {
	if c == nil {
		return nil
	}

	form := url.Values{"goal": {name}, "ts": {time.Now().UTC().Format(time.RFC3339)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		c.logger.Debug("analytics goal dropped", "goal", name, "error", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("analytics goal dropped", "goal", name, "error", err)
		return nil
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.logger.Debug("analytics goal rejected", "goal", name, "status", resp.StatusCode)
	}
	return nil
}

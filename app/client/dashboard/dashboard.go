package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"lifeline/app/config"
	"net/http"
	"time"

	"github.com/samber/do"
)

// Client pushes incident records to the responder dashboard ingestion
// endpoint. The dashboard fans them out to connected viewers itself.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	return &Client{
		cfg: do.MustInvoke[*config.Config](di),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

func (c *Client) Publish(ctx context.Context, record any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal incident record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.Dashboard.BaseURL+"/api/sos-alerts", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to publish incident: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("incident publish failed with status %d", resp.StatusCode)
	}

	return nil
}

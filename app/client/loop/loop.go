package loop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"lifeline/app/config"
	"net/http"
	"time"

	"github.com/samber/do"
)

// Client sends outbound messages through the LoopMessage-style provider.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

type sendRequest struct {
	Text      string `json:"text"`
	Recipient string `json:"recipient"`
}

func NewClient(di *do.Injector) (*Client, error) {
	return &Client{
		cfg: do.MustInvoke[*config.Config](di),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

func (c *Client) Send(ctx context.Context, text, recipient string) error {
	body, err := json.Marshal(sendRequest{
		Text:      text,
		Recipient: recipient,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.Loop.BaseURL+"/api/v1/message/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Loop.AuthToken)
	req.Header.Set("Loop-Secret-Key", c.cfg.Loop.SecretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("message send failed with status %d: %s", resp.StatusCode, string(data))
	}

	return nil
}

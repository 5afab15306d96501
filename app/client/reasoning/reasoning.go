package reasoning

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"lifeline/app/config"
	"net/http"
	"strings"

	"github.com/samber/do"
)

// ErrTimeout marks a reasoning call that exceeded its deadline.
var ErrTimeout = errors.New("reasoning call timed out")

const maxFragmentBytes = 1024 * 1024

// Client drives the reasoning service's /prompt endpoint. The response
// body is a stream of JSON fragments; content pieces are concatenated
// in arrival order into a single payload.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ToolDecl struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Request struct {
	Message []Message  `json:"message"`
	Tools   []ToolDecl `json:"tools,omitempty"`
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Reasoning.Timeout(),
		},
	}, nil
}

// Prompt sends the transcript and returns the concatenated content of
// the streamed response.
func (c *Client) Prompt(ctx context.Context, request Request) (string, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal prompt request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Reasoning.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.Reasoning.BaseURL+"/prompt", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create prompt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("prompt request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("prompt request failed with status %d", resp.StatusCode)
	}

	var content strings.Builder
	acc := newFragmentAccumulator()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), maxFragmentBytes)

	for scanner.Scan() {
		piece, ok := acc.feed(scanner.Bytes())
		if ok {
			content.WriteString(piece)
		}
	}

	if err = scanner.Err(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("failed to read prompt response: %w", err)
	}

	if content.Len() == 0 {
		return "", fmt.Errorf("prompt response contained no content")
	}

	return content.String(), nil
}

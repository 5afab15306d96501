package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifeline/app/config"
)

func testClient(baseURL string, timeoutSeconds int) *Client {
	cfg := &config.Config{Reasoning: config.Reasoning{
		BaseURL:        baseURL,
		TimeoutSeconds: timeoutSeconds,
	}}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Reasoning.Timeout()},
	}
}

func fragmentLine(content string) string {
	data, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})

	return string(data) + "\n"
}

func TestPromptConcatenatesFragments(t *testing.T) {
	var gotRequest Request

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/prompt" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotRequest)

		fmt.Fprint(w, fragmentLine(`{"sos_`))
		fmt.Fprint(w, fragmentLine(`trigger":true}`))
	}))
	defer srv.Close()

	content, err := testClient(srv.URL, 5).Prompt(context.Background(), Request{
		Message: []Message{{Role: RoleUser, Content: "help"}},
		Tools:   []ToolDecl{{Name: "get_nearby_context", Description: "d"}},
	})
	if err != nil {
		t.Fatalf("Prompt: %v", err)
	}

	if content != `{"sos_trigger":true}` {
		t.Fatalf("content = %q", content)
	}

	if len(gotRequest.Message) != 1 || gotRequest.Message[0].Content != "help" {
		t.Fatalf("request transcript = %+v", gotRequest.Message)
	}
	if len(gotRequest.Tools) != 1 || gotRequest.Tools[0].Name != "get_nearby_context" {
		t.Fatalf("request tools = %+v", gotRequest.Tools)
	}
}

func TestPromptSkipsMalformedFragments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "this line is not JSON\n")
		fmt.Fprint(w, fragmentLine("ok"))
	}))
	defer srv.Close()

	content, err := testClient(srv.URL, 5).Prompt(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Prompt: %v", err)
	}
	if content != "ok" {
		t.Fatalf("content = %q", content)
	}
}

func TestPromptEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	if _, err := testClient(srv.URL, 5).Prompt(context.Background(), Request{}); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestPromptTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(3 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 1).Prompt(context.Background(), Request{})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestPromptErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL, 5).Prompt(context.Background(), Request{}); err == nil {
		t.Fatal("expected error on 503")
	}
}

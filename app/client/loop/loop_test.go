package loop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifeline/app/config"
)

func TestSend(t *testing.T) {
	var gotAuth, gotSecret string
	var gotBody sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/message/send" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotSecret = r.Header.Get("Loop-Secret-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &Client{
		cfg: &config.Config{Loop: config.Loop{
			BaseURL:   srv.URL,
			AuthToken: "token-123",
			SecretKey: "secret-456",
		}},
		httpClient: &http.Client{Timeout: time.Second},
	}

	if err := client.Send(context.Background(), "hello", "+1555"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotAuth != "Bearer token-123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotSecret != "secret-456" {
		t.Fatalf("secret header = %q", gotSecret)
	}
	if gotBody.Text != "hello" || gotBody.Recipient != "+1555" {
		t.Fatalf("body = %+v", gotBody)
	}
}

func TestSendFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client := &Client{
		cfg: &config.Config{Loop: config.Loop{
			BaseURL:   srv.URL,
			AuthToken: "t",
			SecretKey: "s",
		}},
		httpClient: &http.Client{Timeout: time.Second},
	}

	if err := client.Send(context.Background(), "hello", "+1555"); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}

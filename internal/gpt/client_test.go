package gpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hammamikhairi/ottocode/internal/logger"
)

func quiet() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func TestGenerateContentOverridesSampling(t *testing.T) {
	var got payload
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"x = 1"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", quiet(), WithSystemPrompt("be brief"), WithModel("gpt-4o-mini"))
	reply, err := c.GenerateContent(context.Background(), "assign one", 50, 0.3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "x = 1" {
		t.Fatalf("reply = %q", reply)
	}
	if gotKey != "key" {
		t.Fatalf("api-key header = %q", gotKey)
	}
	if got.MaxTokens != 50 || got.Temperature != 0.3 || got.Model != "gpt-4o-mini" {
		t.Fatalf("payload = %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != RoleSystem || got.Messages[1].Content[0].Text != "assign one" {
		t.Fatalf("messages = %+v", got.Messages)
	}
}

func TestGenerateContentNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL, "k", quiet()).GenerateContent(context.Background(), "p", 10, 0)
	if err != nil || reply != "" {
		t.Fatalf("got (%q, %v), want empty reply and nil error", reply, err)
	}
}

func TestGenerateContentHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", quiet()).GenerateContent(context.Background(), "p", 10, 0)
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected 429 error, got %v", err)
	}
}

func TestChatUsesDefaults(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"hi"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", quiet(), WithMaxTokens(64), WithTemperature(0.1))
	if _, err := c.Chat(context.Background(), []Message{TextMessage(RoleUser, "hello")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MaxTokens != 64 || got.Temperature != 0.1 {
		t.Fatalf("payload = %+v", got)
	}
}

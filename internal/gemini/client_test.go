package gemini

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

func TestGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotReq request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"def f():"},{"text":" pass"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	c := NewClient("secret", quiet(), WithBaseURL(srv.URL))
	got, err := c.GenerateContent(context.Background(), "write f", 150, 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "def f(): pass" {
		t.Fatalf("text = %q", got)
	}
	if gotPath != "/v1beta/models/gemini-1.5-flash-latest:generateContent" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if gotReq.GenerationConfig.MaxOutputTokens != 150 || gotReq.GenerationConfig.Temperature != 0.2 {
		t.Fatalf("generation config = %+v", gotReq.GenerationConfig)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "write f" {
		t.Fatalf("contents = %+v", gotReq.Contents)
	}
}

func TestModel(t *testing.T) {
	if got := NewClient("k", quiet()).Model(); got != DefaultModel {
		t.Fatalf("default model = %q", got)
	}
	if got := NewClient("k", quiet(), WithModel("")).Model(); got != DefaultModel {
		t.Fatalf("empty model must keep the default, got %q", got)
	}
	if got := NewClient("k", quiet(), WithModel("gemini-pro")).Model(); got != "gemini-pro" {
		t.Fatalf("model = %q", got)
	}
}

func TestGenerateContentEmpty(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"blocked", `{"promptFeedback":{"blockReason":"SAFETY"}}`},
		{"empty parts", `{"candidates":[{"content":{"parts":[]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewClient("k", quiet(), WithBaseURL(srv.URL)).GenerateContent(context.Background(), "p", 10, 0)
			if err != nil {
				t.Fatalf("empty payload must not be an error: %v", err)
			}
			if got != "" {
				t.Fatalf("text = %q, want empty", got)
			}
		})
	}
}

func TestGenerateContentHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	_, err := NewClient("bad", quiet(), WithBaseURL(srv.URL), WithModel("gemini-pro")).GenerateContent(context.Background(), "p", 10, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("error = %v", err)
	}
}

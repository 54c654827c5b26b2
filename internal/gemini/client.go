// Package gemini provides a client for the Google Generative Language API
// (generateContent). It is the default text-generation backend.
package gemini

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// Compile-time interface check.
var _ domain.TextGenerator = (*Client)(nil)

// Defaults.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash-latest"
)

// ── Wire types ───────────────────────────────────────────────────

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type request struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type response struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel overrides the model name.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// Client calls generateContent on a Gemini model.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *resty.Client
	log     *logger.Logger
}

// NewClient creates a Gemini client authenticated with apiKey.
func NewClient(apiKey string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		http:    resty.New().SetTimeout(30 * time.Second),
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// GenerateContent sends a single-turn prompt. A reply with no text
// (no candidates, blocked prompt, empty parts) yields "" and a nil error.
func (c *Client) GenerateContent(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	body := request{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	c.log.Debug("gemini: POST %s (prompt %d chars, max_tokens=%d, temp=%.2f)", endpoint, len(prompt), maxTokens, temperature)

	var out response
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(body).
		SetResult(&out).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini: API %s: %s", resp.Status(), truncate(resp.String(), 500))
	}

	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		c.log.Warn("gemini: prompt blocked: %s", out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := b.String()
	c.log.Debug("gemini: reply (%d chars, finish=%s): %s", len(text), out.Candidates[0].FinishReason, truncate(text, 120))
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

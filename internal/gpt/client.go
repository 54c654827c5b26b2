// Package gpt provides an OpenAI-compatible chat-completions client. It is
// the alternative text-generation backend to Gemini.
package gpt

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// Compile-time interface check.
var _ domain.TextGenerator = (*Client)(nil)

// ── Wire types ───────────────────────────────────────────────────

// Role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat-completion message.
type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

// TextMessage is a convenience constructor for a plain-text message.
func TextMessage(role, text string) Message {
	return Message{
		Role:    role,
		Content: []Content{{Type: "text", Text: text}},
	}
}

// Content is a content block. Only text is sent by this client.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// payload is the request body sent to the chat-completions endpoint.
type payload struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
	Model       string    `json:"model,omitempty"`
}

// apiResponse is the top-level response envelope.
type apiResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithModel sets the model name. Azure deployments omit it.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) { c.temperature = t }
}

// WithMaxTokens sets the default response token limit.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

// WithSystemPrompt prepends a system message to every GenerateContent call.
func WithSystemPrompt(p string) ClientOption {
	return func(c *Client) { c.system = p }
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	system      string
	temperature float64
	topP        float64
	maxTokens   int
	http        *resty.Client
	log         *logger.Logger
}

// NewClient creates a chat client.
//   - endpoint: full URL to the chat/completions resource
//     (e.g. "https://<resource>.openai.azure.com/openai/deployments/<dep>/chat/completions?api-version=2024-02-01")
//   - apiKey:   the subscription / API key
func NewClient(endpoint, apiKey string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:    endpoint,
		apiKey:      apiKey,
		temperature: 0.7,
		topP:        0.95,
		maxTokens:   800,
		http:        resty.New().SetTimeout(30 * time.Second),
		log:         log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GenerateContent sends prompt as a single user message with per-call
// sampling. A reply without choices yields "" and a nil error.
func (c *Client) GenerateContent(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	var messages []Message
	if c.system != "" {
		messages = append(messages, TextMessage(RoleSystem, c.system))
	}
	messages = append(messages, TextMessage(RoleUser, prompt))
	return c.complete(ctx, messages, maxTokens, temperature)
}

// Chat sends a conversation with the client's default sampling.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, messages, c.maxTokens, c.temperature)
}

func (c *Client) complete(ctx context.Context, messages []Message, maxTokens int, temperature float64) (string, error) {
	body := payload{
		Messages:    messages,
		Temperature: temperature,
		TopP:        c.topP,
		MaxTokens:   maxTokens,
		Model:       c.model,
	}

	c.log.Debug("gpt: POST %s (%d messages, max_tokens=%d)", c.endpoint, len(messages), maxTokens)

	var result apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("api-key", c.apiKey).
		SetAuthToken(c.apiKey).
		SetBody(body).
		SetResult(&result).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("gpt: request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gpt: API %s\n%s", resp.Status(), resp.String())
	}

	if len(result.Choices) == 0 {
		c.log.Warn("gpt: response had no choices")
		return "", nil
	}

	reply := result.Choices[0].Message.Content
	c.log.Debug("gpt: reply (%d chars): %s", len(reply), truncate(reply, 120))
	return reply, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

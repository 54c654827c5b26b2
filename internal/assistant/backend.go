// Package assistant implements the three code actions: generating code from
// a description, annotating code line by line, and explaining code. Every
// action turns remote failures into data and never panics.
package assistant

import (
	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// Sampling bounds one kind of remote call.
type Sampling struct {
	MaxTokens   int
	Temperature float64
}

// Default sampling per action.
var (
	DefaultCodeSampling    = Sampling{MaxTokens: 150, Temperature: 0.2}
	DefaultCommentSampling = Sampling{MaxTokens: 50, Temperature: 0.3}
	DefaultExplainSampling = Sampling{MaxTokens: 150, Temperature: 0.3}
)

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithName sets the service name used in user-facing messages.
func WithName(name string) BackendOption {
	return func(b *Backend) { b.name = name }
}

// WithCodeSampling overrides the generate sampling parameters.
func WithCodeSampling(s Sampling) BackendOption {
	return func(b *Backend) { b.code = s }
}

// WithCommentSampling overrides the per-line comment sampling parameters.
func WithCommentSampling(s Sampling) BackendOption {
	return func(b *Backend) { b.comment = s }
}

// WithExplainSampling overrides the explain sampling parameters.
func WithExplainSampling(s Sampling) BackendOption {
	return func(b *Backend) { b.explain = s }
}

// Backend is the handle on the remote generation service. It is built once
// at startup and shared read-only by the generator, annotator and explainer.
// A nil generator means the service is not configured.
type Backend struct {
	gen     domain.TextGenerator
	name    string
	code    Sampling
	comment Sampling
	explain Sampling
	log     *logger.Logger
}

// NewBackend creates a Backend. Pass a nil generator when credentials are
// missing; every action then answers with the "not configured" message.
func NewBackend(gen domain.TextGenerator, log *logger.Logger, opts ...BackendOption) *Backend {
	b := &Backend{
		gen:     gen,
		name:    "Gemini",
		code:    DefaultCodeSampling,
		comment: DefaultCommentSampling,
		explain: DefaultExplainSampling,
		log:     log,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Configured reports whether a generation service is available.
func (b *Backend) Configured() bool { return b != nil && b.gen != nil }

// Name returns the service name shown to the user.
func (b *Backend) Name() string { return b.name }

func (b *Backend) notConfiguredText() string {
	return b.name + " API is not configured."
}

package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// Generator turns a natural-language description into source code.
type Generator struct {
	backend *Backend
	log     *logger.Logger
}

// NewGenerator creates a Generator on the given backend.
func NewGenerator(backend *Backend, log *logger.Logger) *Generator {
	return &Generator{backend: backend, log: log}
}

// Generate issues one remote request and returns the trimmed code. It
// never fails the caller: every outcome is a Result with displayable text.
func (g *Generator) Generate(ctx context.Context, description, language string) Result {
	if !g.backend.Configured() {
		return failure(g.backend.notConfiguredText(), domain.ErrNotConfigured)
	}

	req := domain.NewGenerationRequest(description, language, domain.ModeGenerate)
	s := g.backend.code

	g.log.Debug("assistant: generate %s (%d chars)", req.Language(), len(req.Input()))
	reply, err := g.backend.gen.GenerateContent(ctx, promptGenerate(req.Input(), req.Language()), s.MaxTokens, s.Temperature)
	if err != nil {
		g.log.Error("assistant: generate failed: %v", err)
		return failure("Error generating code: "+err.Error(), fmt.Errorf("generate code: %w", err))
	}

	code := stripFences(reply)
	if strings.TrimSpace(code) == "" {
		g.log.Warn("assistant: generate returned no text")
		return failure(fmt.Sprintf("Error: %s API returned an empty response.", g.backend.name), domain.ErrEmptyResponse)
	}
	return success(code)
}

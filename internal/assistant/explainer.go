package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// Explainer describes code in plain language, shows the explanation and
// narrates it.
type Explainer struct {
	backend  *Backend
	display  domain.Display
	narrator domain.Narrator
	log      *logger.Logger
}

// NewExplainer creates an Explainer.
func NewExplainer(backend *Backend, display domain.Display, narrator domain.Narrator, log *logger.Logger) *Explainer {
	return &Explainer{backend: backend, display: display, narrator: narrator, log: log}
}

// Explain reports through the display and narrator instead of returning
// text to the caller. Only a successful explanation is spoken. The Result
// mirrors what was shown.
func (e *Explainer) Explain(ctx context.Context, code, language string) Result {
	if !e.backend.Configured() {
		msg := e.backend.notConfiguredText()
		e.display.Error(msg)
		return failure(msg, domain.ErrNotConfigured)
	}

	req := domain.NewGenerationRequest(code, language, domain.ModeExplain)
	s := e.backend.explain

	reply, err := e.backend.gen.GenerateContent(ctx, promptExplain(req.Input(), req.Language()), s.MaxTokens, s.Temperature)
	if err != nil {
		e.log.Error("assistant: explain failed: %v", err)
		msg := "Error generating code explanation: " + err.Error()
		e.display.Error(msg)
		return failure(msg, fmt.Errorf("explain code: %w", err))
	}

	explanation := strings.TrimSpace(reply)
	if explanation == "" {
		msg := fmt.Sprintf("Error: %s API returned an empty response for code explanation.", e.backend.name)
		e.display.Error(msg)
		return failure(msg, domain.ErrEmptyResponse)
	}

	e.display.Info(explanation)
	e.narrator.Speak(explanation)
	return success(explanation)
}

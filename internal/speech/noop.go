package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// NoOpEngine is used when TTS is disabled. It only logs.
type NoOpEngine struct {
	log *logger.Logger
}

// NewNoOpFactory returns a factory producing NoOpEngines.
func NewNoOpFactory(log *logger.Logger) EngineFactory {
	return func() (Engine, error) { return &NoOpEngine{log: log}, nil }
}

// SynthesizeAndPlay implements Engine.
func (n *NoOpEngine) SynthesizeAndPlay(_ context.Context, text string) error {
	n.log.Debug("tts disabled: would say %q", truncate(text, 80))
	return nil
}

// Compile-time interface check.
var _ Recorder = NoOpRecorder{}

// NoOpRecorder is used when speech capture is disabled. Every attempt
// reports the recognition service as unavailable.
type NoOpRecorder struct{}

// Record implements Recorder.
func (NoOpRecorder) Record(context.Context, time.Duration) (string, error) {
	return "", fmt.Errorf("speech capture disabled: %w", domain.ErrServiceUnavailable)
}

package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// Recorder captures audio for up to d and returns the raw transcription.
type Recorder interface {
	Record(ctx context.Context, d time.Duration) (string, error)
}

// RecorderOption configures the WhisperRecorder.
type RecorderOption func(*WhisperRecorder)

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) RecorderOption {
	return func(r *WhisperRecorder) { r.tempDir = dir }
}

// capture is one microphone session. Stop delivers the transcription
// through the callback it was opened with.
type capture interface {
	Start() error
	Stop()
}

// WhisperRecorder records from the default microphone and transcribes
// with a local whisper.cpp binary and GGML model.
type WhisperRecorder struct {
	whisperBin string
	modelPath  string
	tempDir    string
	log        *logger.Logger
	open       func(callback func(string)) (capture, error)
}

// NewWhisperRecorder creates a recorder.
//
//   - whisperBin: path to (or name in PATH of) the whisper-cli executable
//   - modelPath:  path to the GGML model file
func NewWhisperRecorder(whisperBin, modelPath string, log *logger.Logger, opts ...RecorderOption) *WhisperRecorder {
	r := &WhisperRecorder{
		whisperBin: whisperBin,
		modelPath:  modelPath,
		tempDir:    DefaultTempDir,
		log:        log,
	}
	r.open = r.openWhisper
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *WhisperRecorder) openWhisper(callback func(string)) (capture, error) {
	verbose := r.log.GetLevel() >= logger.LevelVerbose
	return audiotranscriber.NewTranscriber(r.whisperBin, r.modelPath, r.tempDir, "wav", callback, verbose)
}

// Check reports whether the whisper binary and model are present.
func (r *WhisperRecorder) Check() error {
	if _, err := exec.LookPath(r.whisperBin); err != nil {
		return fmt.Errorf("whisper binary %q: %w", r.whisperBin, domain.ErrServiceUnavailable)
	}
	if _, err := os.Stat(r.modelPath); err != nil {
		return fmt.Errorf("whisper model %q: %w", r.modelPath, domain.ErrServiceUnavailable)
	}
	return nil
}

// Record implements Recorder. One recording window, one transcription.
func (r *WhisperRecorder) Record(ctx context.Context, d time.Duration) (string, error) {
	if err := r.Check(); err != nil {
		return "", err
	}

	var text string
	var wg sync.WaitGroup
	wg.Add(1)
	callback := func(s string) {
		text = s
		wg.Done()
	}

	t, err := r.open(callback)
	if err != nil {
		return "", fmt.Errorf("transcriber init: %v: %w", err, domain.ErrServiceUnavailable)
	}
	if err := t.Start(); err != nil {
		// Stop releases the stream and PortAudio.
		t.Stop()
		return "", fmt.Errorf("recording start: %v: %w", err, domain.ErrServiceUnavailable)
	}
	r.log.Debug("recorder: capturing for %s", d)

	select {
	case <-time.After(d):
	case <-ctx.Done():
		t.Stop()
		wg.Wait()
		return "", ctx.Err()
	}

	t.Stop()
	wg.Wait()
	r.log.Debug("recorder: raw transcription %q", text)
	return text, nil
}

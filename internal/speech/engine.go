package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/hammamikhairi/ottocode/internal/logger"
)

// Engine synthesizes and plays one piece of text, blocking until playback
// ends.
type Engine interface {
	SynthesizeAndPlay(ctx context.Context, text string) error
}

// EngineFactory builds a fresh Engine for one narration. A factory error
// fails that narration only.
type EngineFactory func() (Engine, error)

// Synthesizer turns text into WAV audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioSink plays WAV audio, blocking until it finishes.
type AudioSink interface {
	Play(ctx context.Context, wav []byte) error
}

// AzureEngine splits long text into sentence-boundary chunks, synthesizes
// them in parallel and plays them strictly in order. A chunk that fails to
// synthesize is skipped.
type AzureEngine struct {
	tts       Synthesizer
	sink      AudioSink
	chunkSize int
	log       *logger.Logger
}

// NewAzureEngine creates an engine. chunkSize <= 0 disables chunking.
func NewAzureEngine(tts Synthesizer, sink AudioSink, chunkSize int, log *logger.Logger) *AzureEngine {
	return &AzureEngine{tts: tts, sink: sink, chunkSize: chunkSize, log: log}
}

// NewAzureFactory returns a factory producing AzureEngines on a shared
// sink. If the audio device failed to open at startup, pass that error as
// sinkErr: every narration then reports it.
func NewAzureFactory(tts Synthesizer, sink AudioSink, sinkErr error, chunkSize int, log *logger.Logger) EngineFactory {
	return func() (Engine, error) {
		if sinkErr != nil {
			return nil, fmt.Errorf("audio device: %w", sinkErr)
		}
		if tts == nil || sink == nil {
			return nil, errors.New("tts engine is not initialized")
		}
		return NewAzureEngine(tts, sink, chunkSize, log), nil
	}
}

// SynthesizeAndPlay implements Engine. It returns an error only when
// nothing could be played or a playback call failed.
func (e *AzureEngine) SynthesizeAndPlay(ctx context.Context, text string) error {
	chunks := splitChunks(text, e.chunkSize)
	if len(chunks) == 0 {
		return nil
	}

	type result struct {
		idx   int
		audio []byte
		err   error
	}
	results := make(chan result, len(chunks))
	for i, chunk := range chunks {
		go func() {
			audio, err := e.tts.Synthesize(ctx, chunk)
			results <- result{idx: i, audio: audio, err: err}
		}()
	}

	slots := make([][]byte, len(chunks))
	var synthErrs []error
	for range chunks {
		r := <-results
		if r.err != nil {
			e.log.Error("tts: chunk %d synthesis failed: %v", r.idx, r.err)
			synthErrs = append(synthErrs, r.err)
			continue
		}
		slots[r.idx] = r.audio
	}
	if len(synthErrs) == len(chunks) {
		return fmt.Errorf("synthesis failed: %w", errors.Join(synthErrs...))
	}
	if len(chunks) > 1 {
		e.log.Debug("tts: %d of %d chunks ready", len(chunks)-len(synthErrs), len(chunks))
	}

	for i, audio := range slots {
		if audio == nil {
			e.log.Debug("tts: skipping chunk %d", i)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.sink.Play(ctx, audio); err != nil {
			return fmt.Errorf("playback of chunk %d: %w", i, err)
		}
	}
	return nil
}

// splitChunks breaks text into sentence-boundary chunks of roughly size
// characters. size <= 0 or short text yields a single chunk.
func splitChunks(text string, size int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 || len(text) <= size {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if c := strings.TrimSpace(current.String()); c != "" {
			chunks = append(chunks, c)
		}
		current.Reset()
	}
	for _, s := range splitSentences(text) {
		if current.Len() > 0 && current.Len()+len(s) > size {
			flush()
		}
		current.WriteString(s)
	}
	flush()
	return chunks
}

// splitSentences splits at . ! ? and newlines, keeping the terminator
// and trailing whitespace with the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if !isSentenceEnd(runes[i]) {
			continue
		}
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
			current.WriteRune(runes[i])
		}
		sentences = append(sentences, current.String())
		current.Reset()
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '\n'
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// Package speech provides background narration (text-to-speech) and
// single-shot speech capture (speech-to-text).
package speech

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// Compile-time interface check.
var _ domain.Narrator = (*Narrator)(nil)

// TaskRunner starts fire-and-forget background work.
type TaskRunner interface {
	Run(task func())
}

// GoRunner runs each task on its own goroutine.
type GoRunner struct{}

// Run implements TaskRunner.
func (GoRunner) Run(task func()) { go task() }

// NarratorOption configures the Narrator.
type NarratorOption func(*Narrator)

// WithTaskRunner replaces the background task runner.
func WithTaskRunner(r TaskRunner) NarratorOption {
	return func(n *Narrator) { n.runner = r }
}

// WithSerialPlayback makes narrations play one at a time. By default
// overlapping narrations run independently.
func WithSerialPlayback() NarratorOption {
	return func(n *Narrator) { n.serial = true }
}

// WithErrorHandler registers a passive callback for narration failures.
// It receives "TTS Error: <cause>" and runs on the narration goroutine.
func WithErrorHandler(fn func(message string)) NarratorOption {
	return func(n *Narrator) { n.onError = fn }
}

// WithNarrationTimeout bounds a single narration.
func WithNarrationTimeout(d time.Duration) NarratorOption {
	return func(n *Narrator) { n.timeout = d }
}

// Narrator speaks text in the background. Each Speak call becomes an
// independent NarrationJob with its own engine; failures never reach the
// caller.
type Narrator struct {
	factory EngineFactory
	runner  TaskRunner
	log     *logger.Logger
	onError func(string)
	serial  bool
	timeout time.Duration

	playMu sync.Mutex
	wg     sync.WaitGroup
}

// NewNarrator creates a Narrator that builds engines with factory.
func NewNarrator(factory EngineFactory, log *logger.Logger, opts ...NarratorOption) *Narrator {
	n := &Narrator{
		factory: factory,
		runner:  GoRunner{},
		log:     log,
		timeout: DefaultNarrationTimeout,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Speak submits text for narration and returns immediately. Empty text is
// ignored.
func (n *Narrator) Speak(text string) {
	job := domain.NarrationJob{Text: cleanForSpeech(text)}
	if job.Text == "" {
		return
	}

	n.wg.Add(1)
	n.runner.Run(func() {
		defer n.wg.Done()
		n.narrate(job)
	})
	n.log.Debug("narrator: queued %q", truncate(job.Text, 60))
}

// Wait blocks until every submitted narration has finished.
func (n *Narrator) Wait() { n.wg.Wait() }

// narrate runs one job. It is the failure boundary: errors and panics are
// logged and reported, never propagated.
func (n *Narrator) narrate(job domain.NarrationJob) {
	defer func() {
		if r := recover(); r != nil {
			n.report(fmt.Errorf("panic: %v", r))
		}
	}()

	engine, err := n.factory()
	if err != nil {
		n.report(err)
		return
	}

	if n.serial {
		n.playMu.Lock()
		defer n.playMu.Unlock()
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	start := time.Now()
	if err := engine.SynthesizeAndPlay(ctx, job.Text); err != nil {
		n.report(err)
		return
	}
	n.log.Debug("narrator: finished in %s", time.Since(start).Round(time.Millisecond))
}

func (n *Narrator) report(err error) {
	msg := "TTS Error: " + err.Error()
	n.log.Error("narrator: %s", msg)
	if n.onError != nil {
		n.onError(msg)
	}
}

// Package engine orchestrates the interactive actions: it reads and writes
// the session, calls the code assistant and routes results to the display
// and narrator.
package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hammamikhairi/ottocode/internal/assistant"
	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// User-facing warnings.
const (
	MsgNoDescription = "Please enter a description."
	MsgNoCode        = "Please enter some code."
	MsgNothingToRead = "Nothing to read yet. Generate some code first."
)

// CodeGenerator turns a description into code.
type CodeGenerator interface {
	Generate(ctx context.Context, description, language string) assistant.Result
}

// CodeAnnotator adds inline comments to code.
type CodeAnnotator interface {
	Annotate(ctx context.Context, code, language string) assistant.Result
}

// CodeExplainer explains code. It reports to the display itself.
type CodeExplainer interface {
	Explain(ctx context.Context, code, language string) assistant.Result
}

// Option configures the engine.
type Option func(*Engine)

// WithListenTimeout sets the capture window for Listen, in seconds.
func WithListenTimeout(seconds int) Option {
	return func(e *Engine) {
		if seconds > 0 {
			e.listenSeconds = seconds
		}
	}
}

// WithSpeakGenerated controls whether code produced by Listen is narrated.
func WithSpeakGenerated(on bool) Option {
	return func(e *Engine) { e.speakGenerated = on }
}

// Engine runs one action at a time on behalf of the interactive surface.
// It depends only on interfaces and is fully testable with stubs.
type Engine struct {
	store       domain.SessionStore
	generator   CodeGenerator
	annotator   CodeAnnotator
	explainer   CodeExplainer
	transcriber domain.Transcriber
	narrator    domain.Narrator
	display     domain.Display
	log         *logger.Logger

	listenSeconds  int
	speakGenerated bool
}

// Deps groups the collaborators the engine drives.
type Deps struct {
	Store       domain.SessionStore
	Generator   CodeGenerator
	Annotator   CodeAnnotator
	Explainer   CodeExplainer
	Transcriber domain.Transcriber
	Narrator    domain.Narrator
	Display     domain.Display
}

// New creates an engine with the given dependencies and options.
func New(deps Deps, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:          deps.Store,
		generator:      deps.Generator,
		annotator:      deps.Annotator,
		explainer:      deps.Explainer,
		transcriber:    deps.Transcriber,
		narrator:       deps.Narrator,
		display:        deps.Display,
		log:            log,
		listenSeconds:  5,
		speakGenerated: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ── Sessions ─────────────────────────────────────────────────────

// StartSession creates a session with the default language and mode.
func (e *Engine) StartSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession(generateID())
	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	e.log.Info("started session %s (%s, %s)", session.ID, session.Language, session.Mode)
	return session, nil
}

// Status returns a snapshot of the session.
func (e *Engine) Status(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.store.Load(ctx, sessionID)
}

// EndSession removes the session.
func (e *Engine) EndSession(ctx context.Context, sessionID string) error {
	if err := e.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	e.log.Info("ended session %s", sessionID)
	return nil
}

// ── Actions ──────────────────────────────────────────────────────

// Generate produces code for the description. An empty description falls
// back to the buffered input.
func (e *Engine) Generate(ctx context.Context, sessionID, description string) error {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = strings.TrimSpace(strings.Join(session.Input, "\n"))
	}
	if description == "" {
		e.display.Warn(MsgNoDescription)
		return nil
	}

	_, err = e.generate(ctx, session, description)
	return err
}

// generate runs the generator and records a successful result. The bool
// reports whether code was produced.
func (e *Engine) generate(ctx context.Context, session *domain.Session, description string) (bool, error) {
	e.log.Info("generating %s code: %q", session.Language, truncate(description, 60))
	res := e.generator.Generate(ctx, description, session.Language)
	if !res.OK() {
		e.log.Warn("generate: %v", res.Err)
		e.display.Error(res.String())
		return false, nil
	}

	e.display.ShowCode(session.Language, res.Text)
	_, err := e.store.Update(ctx, session.ID, func(s *domain.Session) {
		s.GeneratedCode = res.Text
		s.LastOutput = res.Text
	})
	if err != nil {
		return true, fmt.Errorf("saving generated code: %w", err)
	}
	return true, nil
}

// Annotate comments every line of the code buffer, or of the last
// generated code when the buffer is empty.
func (e *Engine) Annotate(ctx context.Context, sessionID string) error {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	code := session.Code()
	if strings.TrimSpace(code) == "" {
		e.display.Warn(MsgNoCode)
		return nil
	}

	e.log.Info("annotating %d bytes of %s", len(code), session.Language)
	res := e.annotator.Annotate(ctx, code, session.Language)
	if !res.OK() {
		e.log.Warn("annotate: %v", res.Err)
		e.display.Error(res.String())
		return nil
	}

	e.display.ShowCode(session.Language, res.Text)
	if _, err := e.store.Update(ctx, sessionID, func(s *domain.Session) { s.LastOutput = res.Text }); err != nil {
		return fmt.Errorf("saving annotated code: %w", err)
	}
	return nil
}

// Explain describes the code buffer, or the last generated code. The
// explainer shows and narrates the result itself.
func (e *Engine) Explain(ctx context.Context, sessionID string) error {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	code := session.Code()
	if strings.TrimSpace(code) == "" {
		e.display.Warn(MsgNoCode)
		return nil
	}

	res := e.explainer.Explain(ctx, code, session.Language)
	if !res.OK() {
		e.log.Warn("explain: %v", res.Err)
		return nil
	}
	if _, err := e.store.Update(ctx, sessionID, func(s *domain.Session) { s.LastOutput = res.Text }); err != nil {
		return fmt.Errorf("saving explanation: %w", err)
	}
	return nil
}

// Listen captures one utterance and uses it as a description. Any
// transcription failure is shown and nothing is generated.
func (e *Engine) Listen(ctx context.Context, sessionID string) error {
	if err := e.setListening(ctx, sessionID, true); err != nil {
		return err
	}
	res := e.transcriber.Listen(ctx, e.listenSeconds)
	if err := e.setListening(ctx, sessionID, false); err != nil {
		return err
	}

	if !res.OK() {
		e.log.Info("listen: %s", res.Status)
		e.display.Error(res.Message())
		return nil
	}

	e.display.Info("Heard: " + res.Text)
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	ok, err := e.generate(ctx, session, res.Text)
	if err != nil {
		return err
	}
	if ok && e.speakGenerated {
		updated, err := e.store.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		e.narrator.Speak(updated.GeneratedCode)
	}
	return nil
}

func (e *Engine) setListening(ctx context.Context, sessionID string, on bool) error {
	_, err := e.store.Update(ctx, sessionID, func(s *domain.Session) { s.Listening = on })
	if err != nil {
		return fmt.Errorf("updating listening state: %w", err)
	}
	return nil
}

// Read narrates the last generated code.
func (e *Engine) Read(ctx context.Context, sessionID string) error {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if strings.TrimSpace(session.GeneratedCode) == "" {
		e.display.Warn(MsgNothingToRead)
		return nil
	}
	e.narrator.Speak(session.GeneratedCode)
	return nil
}

// ── Session settings ─────────────────────────────────────────────

// SetLanguage selects the target language. Tags outside the menu are
// accepted with a warning.
func (e *Engine) SetLanguage(ctx context.Context, sessionID, language string) error {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		e.display.Warn("Please name a language.")
		return nil
	}
	if _, err := e.store.Update(ctx, sessionID, func(s *domain.Session) { s.Language = language }); err != nil {
		return fmt.Errorf("setting language: %w", err)
	}
	if !domain.IsSupportedLanguage(language) {
		e.display.Warn(fmt.Sprintf("%q is not in the language list; comments will use %q.", language, domain.CommentDelimiter(language)))
	}
	e.display.Info("Language: " + language)
	return nil
}

// SetMode selects what free text means.
func (e *Engine) SetMode(ctx context.Context, sessionID, name string) error {
	mode, ok := domain.ModeFromString(name)
	if !ok {
		e.display.Warn(fmt.Sprintf("Unknown mode %q. Use generate, annotate or explain.", name))
		return nil
	}
	if _, err := e.store.Update(ctx, sessionID, func(s *domain.Session) { s.Mode = mode }); err != nil {
		return fmt.Errorf("setting mode: %w", err)
	}
	e.display.Info("Mode: " + mode.String())
	return nil
}

// Load replaces the code buffer with the contents of a file.
func (e *Engine) Load(ctx context.Context, sessionID, path string) error {
	path = strings.TrimSpace(path)
	data, err := os.ReadFile(path)
	if err != nil {
		e.log.Warn("load %s: %v", path, err)
		e.display.Error(fmt.Sprintf("Could not read %s: %v", path, err))
		return nil
	}
	lines := assistant.SplitLines(string(data))
	if _, err := e.store.Update(ctx, sessionID, func(s *domain.Session) { s.Input = lines }); err != nil {
		return fmt.Errorf("loading file into buffer: %w", err)
	}
	e.display.Info(fmt.Sprintf("Loaded %d lines from %s.", len(lines), path))
	return nil
}

// Append adds one line to the code buffer.
func (e *Engine) Append(ctx context.Context, sessionID, line string) error {
	_, err := e.store.Update(ctx, sessionID, func(s *domain.Session) { s.Input = append(s.Input, line) })
	if err != nil {
		return fmt.Errorf("appending line: %w", err)
	}
	return nil
}

// Clear empties the code buffer and forgets the last output.
func (e *Engine) Clear(ctx context.Context, sessionID string) error {
	_, err := e.store.Update(ctx, sessionID, func(s *domain.Session) {
		s.Input = nil
		s.GeneratedCode = ""
		s.LastOutput = ""
	})
	if err != nil {
		return fmt.Errorf("clearing buffer: %w", err)
	}
	e.display.Info("Cleared.")
	return nil
}

// Show displays the code buffer, or the last generated code.
func (e *Engine) Show(ctx context.Context, sessionID string) error {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	code := session.Code()
	if strings.TrimSpace(code) == "" {
		e.display.Warn(MsgNoCode)
		return nil
	}
	e.display.ShowCode(session.Language, code)
	return nil
}

// Languages lists the language menu.
func (e *Engine) Languages() {
	e.display.Info("Languages: " + strings.Join(domain.SupportedLanguages, ", "))
}

// Help shows the command reference.
func (e *Engine) Help() {
	e.display.Info(helpText)
}

const helpText = `Commands:
  generate <description>   write code (free text does this in generate mode)
  annotate                 add a comment to every line of the buffer
  explain                  explain the buffer and read the explanation aloud
  listen                   describe the code by voice
  read                     read the last generated code aloud
  lang <name>              set the language
  mode <name>              generate | annotate | explain
  load <file>              put a file in the buffer
  show / clear             print or empty the buffer
  languages / help / quit
In annotate and explain mode, free text lines go into the buffer.
Start a line with \ to add it literally.`

// ── Dispatch ─────────────────────────────────────────────────────

// Handle runs the action for an intent. It reports true when the user
// asked to quit.
func (e *Engine) Handle(ctx context.Context, sessionID string, intent *domain.Intent) (bool, error) {
	e.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)

	var err error
	switch intent.Type {
	case domain.IntentGenerate:
		err = e.Generate(ctx, sessionID, intent.Payload)
	case domain.IntentAnnotate:
		err = e.Annotate(ctx, sessionID)
	case domain.IntentExplain:
		err = e.Explain(ctx, sessionID)
	case domain.IntentListen:
		err = e.Listen(ctx, sessionID)
	case domain.IntentRead:
		err = e.Read(ctx, sessionID)
	case domain.IntentSetLanguage:
		err = e.SetLanguage(ctx, sessionID, intent.Payload)
	case domain.IntentSetMode:
		err = e.SetMode(ctx, sessionID, intent.Payload)
	case domain.IntentLoad:
		err = e.Load(ctx, sessionID, intent.Payload)
	case domain.IntentAppend:
		err = e.Append(ctx, sessionID, intent.Payload)
	case domain.IntentClear:
		err = e.Clear(ctx, sessionID)
	case domain.IntentShow:
		err = e.Show(ctx, sessionID)
	case domain.IntentLanguages:
		e.Languages()
	case domain.IntentHelp:
		e.Help()
	case domain.IntentQuit:
		return true, nil
	default:
		e.display.Warn("Not sure what you mean. Type 'help' for commands.")
	}
	return false, err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

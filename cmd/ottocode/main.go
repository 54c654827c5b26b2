// OttoCode is a voice-driven code assistant for the terminal.
//
// Usage:
//
//	ottocode [-config file] [-verbose] [-quiet] [-no-speech] [-no-ai] [-voice] [-plain]
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/hammamikhairi/ottocode/internal/assistant"
	"github.com/hammamikhairi/ottocode/internal/config"
	"github.com/hammamikhairi/ottocode/internal/conversation"
	"github.com/hammamikhairi/ottocode/internal/display"
	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/engine"
	"github.com/hammamikhairi/ottocode/internal/gemini"
	"github.com/hammamikhairi/ottocode/internal/gpt"
	"github.com/hammamikhairi/ottocode/internal/logger"
	"github.com/hammamikhairi/ottocode/internal/speech"
	"github.com/hammamikhairi/ottocode/internal/storage"
)

// shutdownGrace bounds how long quitting waits for narration to finish.
const shutdownGrace = 3 * time.Second

func main() {
	configFile := flag.String("config", "", "path to a YAML config file (default: ./ottocode.yaml or ./configs/ottocode.yaml)")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "file to write logs to (use \"stderr\" to log to console; default from config)")
	noSpeech := flag.Bool("no-speech", false, "disable text-to-speech even if Azure keys are set")
	noAI := flag.Bool("no-ai", false, "disable the code generation service even if keys are set")
	voice := flag.Bool("voice", false, "enable voice input via local Whisper STT")
	plain := flag.Bool("plain", false, "use a plain line-based prompt instead of the full-screen UI")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Configure logger.
	logLevel := logger.ParseLevel(cfg.Logging.Level)
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}
	if *logFile == "" {
		*logFile = cfg.Logging.File
	}

	// Direct logs to a file by default so the prompt stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package (used by the whisper transcriber)
	// to the same output so it doesn't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	usePlain := *plain || !term.IsTerminal(os.Stdin.Fd())

	// Display first: the explainer and narrator report through it.
	store := storage.NewMemoryStore(log)
	var ui *display.UI
	var out domain.Display
	if usePlain {
		out = conversation.NewCLINotifier(log, nil)
	} else {
		ui = display.NewUI(store)
		out = ui
	}

	backend := buildBackend(cfg, *noAI, log)
	narrator := buildNarrator(cfg, *noSpeech, out, log)
	transcriber := buildTranscriber(cfg, *voice, log)

	eng := engine.New(engine.Deps{
		Store:       store,
		Generator:   assistant.NewGenerator(backend, log),
		Annotator:   assistant.NewAnnotator(backend, log, assistant.WithConcurrency(cfg.Annotate.Concurrency)),
		Explainer:   assistant.NewExplainer(backend, out, narrator, log),
		Transcriber: transcriber,
		Narrator:    narrator,
		Display:     out,
	}, log, engine.WithListenTimeout(cfg.STT.ListenSeconds))

	session, err := eng.StartSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := &cliApp{
		engine:    eng,
		parser:    conversation.NewKeywordParser(log),
		display:   out,
		narrator:  narrator,
		log:       log,
		sessionID: session.ID,
	}

	fmt.Println(display.RenderBanner("Type 'help' for commands, 'quit' to exit."))
	if !backend.Configured() {
		out.Warn(fmt.Sprintf("%s API is not configured. Set %s (or %s and %s) to enable code actions.",
			backend.Name(), config.EnvGoogleAPIKey, config.EnvGPTChatKey, config.EnvGPTChatEndpoint))
	}

	if usePlain {
		app.run(ctx, readLines(ctx, os.Stdin))
		app.shutdown(ctx)
		return
	}

	ui.Attach(session.ID)
	runUI(ctx, ui, app)
}

// ── Wiring ───────────────────────────────────────────────────────

// buildBackend returns the generation backend. When credentials are
// missing (or -no-ai is set) the backend is built without a generator and
// every action answers with the "not configured" message.
func buildBackend(cfg *config.Config, noAI bool, log *logger.Logger) *assistant.Backend {
	opts := []assistant.BackendOption{
		assistant.WithName(cfg.GeneratorName()),
		assistant.WithCodeSampling(assistant.Sampling(cfg.Sampling.Code)),
		assistant.WithCommentSampling(assistant.Sampling(cfg.Sampling.Comment)),
		assistant.WithExplainSampling(assistant.Sampling(cfg.Sampling.Explain)),
	}

	if noAI || !cfg.GeneratorConfigured() {
		if !noAI {
			log.Info("code generation disabled: no credentials for backend %q", cfg.Generator.Backend)
		}
		return assistant.NewBackend(nil, log, opts...)
	}

	var gen domain.TextGenerator
	model := cfg.Generator.OpenAI.Model
	switch cfg.Generator.Backend {
	case config.BackendOpenAI:
		gen = gpt.NewClient(cfg.Generator.OpenAI.Endpoint, cfg.Generator.OpenAI.APIKey, log,
			gpt.WithModel(model),
			gpt.WithHTTPTimeout(cfg.GeneratorTimeout()),
		)
	default:
		g := gemini.NewClient(cfg.Generator.Gemini.APIKey, log,
			gemini.WithBaseURL(cfg.Generator.Gemini.BaseURL),
			gemini.WithModel(cfg.Generator.Gemini.Model),
			gemini.WithHTTPTimeout(cfg.GeneratorTimeout()),
		)
		gen, model = g, g.Model()
	}
	log.Info("code generation enabled (backend=%s, model=%s)", cfg.Generator.Backend, model)
	return assistant.NewBackend(gen, log, opts...)
}

// buildNarrator returns a narrator on Azure TTS when configured, or on
// the no-op engine otherwise. Narration failures are shown as errors.
func buildNarrator(cfg *config.Config, noSpeech bool, out domain.Display, log *logger.Logger) *speech.Narrator {
	opts := []speech.NarratorOption{
		speech.WithErrorHandler(out.Error),
		speech.WithNarrationTimeout(cfg.NarrationTimeout()),
	}
	if cfg.Speech.SerialPlayback {
		opts = append(opts, speech.WithSerialPlayback())
	}

	if noSpeech || !cfg.TTSConfigured() {
		if !noSpeech {
			log.Info("TTS disabled: set %s and %s to enable", config.EnvAzureSpeechKey, config.EnvAzureSpeechRegion)
		}
		return speech.NewNarrator(speech.NewNoOpFactory(log), log, opts...)
	}

	tts := speech.NewAzureClient(cfg.Speech.AzureKey, cfg.Speech.AzureRegion, log,
		speech.WithVoice(cfg.Speech.Voice),
	)

	// oto allows one audio context per process: open it once and share it.
	var sink speech.AudioSink
	player, playerErr := speech.NewPlayer(log)
	if playerErr != nil {
		log.Error("audio player init failed: %v", playerErr)
	} else {
		sink = player
	}

	log.Info("TTS enabled (voice=%s, region=%s)", tts.Voice(), cfg.Speech.AzureRegion)
	factory := speech.NewAzureFactory(tts, sink, playerErr, cfg.Speech.ChunkSize, log)
	return speech.NewNarrator(factory, log, opts...)
}

// buildTranscriber returns a transcriber on the local whisper recorder
// when voice input is enabled. Otherwise every listen attempt reports the
// recognition service as unavailable.
func buildTranscriber(cfg *config.Config, voice bool, log *logger.Logger) *speech.Transcriber {
	if !voice && !cfg.STT.Enabled {
		return speech.NewTranscriber(speech.NoOpRecorder{}, log)
	}

	os.MkdirAll(cfg.STT.TempDir, 0o755)
	rec := speech.NewWhisperRecorder(cfg.STT.WhisperBin, cfg.STT.WhisperModel, log,
		speech.WithTempDir(cfg.STT.TempDir),
	)
	if err := rec.Check(); err != nil {
		log.Warn("voice input unavailable: %v", err)
	} else {
		log.Info("voice input enabled (bin=%s, model=%s)", cfg.STT.WhisperBin, cfg.STT.WhisperModel)
	}
	return speech.NewTranscriber(rec, log)
}

// readLines forwards stdin lines until EOF or ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// ── App loop ─────────────────────────────────────────────────────

// frontend is the full-screen display as seen by the app loop.
type frontend interface {
	WaitReady() bool
	InputChan() <-chan string
	Quit()
	Run() error
}

// runUI runs the app loop in the background while the display owns the
// terminal. Shutdown starts only after the loop has returned, so every
// narration it queued is covered by the wait.
func runUI(ctx context.Context, ui frontend, app *cliApp) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appDone := make(chan struct{})
	go func() {
		defer close(appDone)
		if !ui.WaitReady() {
			return
		}
		app.run(ctx, ui.InputChan())
		ui.Quit()
	}()

	// Bubble Tea blocks until quit.
	if err := ui.Run(); err != nil {
		app.log.Error("display: %v", err)
	}
	cancel()
	<-appDone
	app.shutdown(context.Background())
}

type cliApp struct {
	engine    *engine.Engine
	parser    domain.IntentParser
	display   domain.Display
	narrator  *speech.Narrator
	log       *logger.Logger
	sessionID string
}

func (a *cliApp) run(ctx context.Context, input <-chan string) {
	a.display.Info(speech.LineWelcome())

	for {
		var line string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case line, ok = <-input:
			if !ok {
				return
			}
		}

		session, err := a.engine.Status(ctx, a.sessionID)
		if err != nil {
			a.log.Error("loading session: %v", err)
			return
		}

		intent, err := a.parser.Parse(ctx, line, session)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}
		if intent.Type == domain.IntentUnknown {
			continue
		}

		quit, err := a.engine.Handle(ctx, a.sessionID, intent)
		if err != nil {
			a.log.Error("%s: %v", intent.Type, err)
			a.display.Error(fmt.Sprintf("Something went wrong: %v", err))
		}
		if quit {
			a.display.Info(speech.LineBye())
			return
		}
	}
}

// shutdown waits briefly for in-flight narration, then drops the session.
func (a *cliApp) shutdown(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		a.narrator.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownGrace):
		a.log.Warn("shutdown: narration still playing, exiting anyway")
	}

	if err := a.engine.EndSession(ctx, a.sessionID); err != nil {
		a.log.Error("ending session: %v", err)
	}
}

package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hammamikhairi/ottocode/internal/conversation"
	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/engine"
	"github.com/hammamikhairi/ottocode/internal/logger"
	"github.com/hammamikhairi/ottocode/internal/speech"
	"github.com/hammamikhairi/ottocode/internal/storage"
)

// scriptedUI hands each line to the app, then exits without waiting for
// the app to act on the last one.
type scriptedUI struct {
	lines   []string
	input   chan string
	ready   chan struct{}
	started bool
}

func newScriptedUI(lines ...string) *scriptedUI {
	return &scriptedUI{lines: lines, input: make(chan string), ready: make(chan struct{})}
}

func (u *scriptedUI) WaitReady() bool {
	<-u.ready
	return u.started
}

func (u *scriptedUI) InputChan() <-chan string { return u.input }

func (u *scriptedUI) Quit() {}

func (u *scriptedUI) Run() error {
	u.started = len(u.lines) > 0
	close(u.ready)
	for _, l := range u.lines {
		u.input <- l
	}
	return nil
}

type playEngine struct{ played *atomic.Int32 }

func (e playEngine) SynthesizeAndPlay(context.Context, string) error {
	time.Sleep(20 * time.Millisecond)
	e.played.Add(1)
	return nil
}

func newTestApp(t *testing.T, played *atomic.Int32) (*cliApp, domain.SessionStore) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	out := conversation.NewCLINotifier(log, func(string, ...interface{}) {})
	narrator := speech.NewNarrator(func() (speech.Engine, error) {
		return playEngine{played: played}, nil
	}, log)

	eng := engine.New(engine.Deps{
		Store:       store,
		Transcriber: speech.NewTranscriber(speech.NoOpRecorder{}, log),
		Narrator:    narrator,
		Display:     out,
	}, log)
	session, err := eng.StartSession(context.Background())
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return &cliApp{
		engine:    eng,
		parser:    conversation.NewKeywordParser(log),
		display:   out,
		narrator:  narrator,
		log:       log,
		sessionID: session.ID,
	}, store
}

func TestRunUIWaitsForLastCommandBeforeShutdown(t *testing.T) {
	for i := 0; i < 20; i++ {
		var played atomic.Int32
		app, store := newTestApp(t, &played)
		ctx := context.Background()
		if _, err := store.Update(ctx, app.sessionID, func(s *domain.Session) {
			s.GeneratedCode = "x = 1"
		}); err != nil {
			t.Fatalf("update: %v", err)
		}

		runUI(ctx, newScriptedUI("read"), app)

		if played.Load() != 1 {
			t.Fatalf("run %d: narration queued by the last command was not awaited (played %d)", i, played.Load())
		}
		if _, err := store.Load(ctx, app.sessionID); err == nil {
			t.Fatalf("run %d: session not ended", i)
		}
	}
}

func TestRunUIDisplayExitsBeforeReady(t *testing.T) {
	var played atomic.Int32
	app, _ := newTestApp(t, &played)

	done := make(chan struct{})
	go func() {
		runUI(context.Background(), newScriptedUI(), app)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runUI hung when the display never became ready")
	}
}

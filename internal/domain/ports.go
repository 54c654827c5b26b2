package domain

import "context"

// TextGenerator is the remote text-generation service. An empty string with
// a nil error means the service answered with no text. Implementations can
// be Gemini, an OpenAI-compatible endpoint, or a test stub.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Narrator speaks text in the background. Speak must return before playback
// finishes and must never fail the caller.
type Narrator interface {
	Speak(text string)
}

// Display receives everything the user should see. Implementations can be
// the terminal UI, plain stdout, or a recorder in tests.
type Display interface {
	ShowCode(language, code string)
	Info(message string)
	Warn(message string)
	Error(message string)
}

// Transcriber captures speech and converts it to text, blocking the caller
// for up to timeout plus recognition time.
type Transcriber interface {
	Listen(ctx context.Context, timeoutSeconds int) TranscriptionResult
}

// SessionStore persists interactive sessions. Implementations can be
// in-memory or any other backend. Load returns a copy; Update applies fn
// to the stored session atomically and returns a copy of the result.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*Session)) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string, session *Session) (*Intent, error)
}

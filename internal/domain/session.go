package domain

import "time"

// DefaultLanguage is the language selected when a session starts.
const DefaultLanguage = "python"

// Session is the cross-interaction state the interactive layer owns: the
// selected language and action, the code buffer, and the last output.
// The core components never hold it; the engine reads and writes it
// through the SessionStore.
type Session struct {
	ID            string
	Language      string
	Mode          Mode
	Input         []string // buffered code lines for annotate/explain
	GeneratedCode string
	LastOutput    string
	Listening     bool
	UpdatedAt     time.Time
}

// NewSession returns a session with default language and mode.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Language:  DefaultLanguage,
		Mode:      ModeGenerate,
		UpdatedAt: time.Now(),
	}
}

// Code returns the buffered code, or the last generated code when the
// buffer is empty.
func (s *Session) Code() string {
	if len(s.Input) > 0 {
		return joinLines(s.Input)
	}
	return s.GeneratedCode
}

// Clone returns a copy safe to hand to another goroutine.
func (s *Session) Clone() *Session {
	c := *s
	c.Input = append([]string(nil), s.Input...)
	return &c
}

func joinLines(lines []string) string {
	n := 0
	for _, l := range lines {
		n += len(l) + 1
	}
	b := make([]byte, 0, n)
	for i, l := range lines {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, l...)
	}
	return string(b)
}

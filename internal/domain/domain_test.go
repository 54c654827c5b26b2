package domain

import (
	"errors"
	"testing"
)

func TestCommentDelimiter(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"c", DelimiterSlash},
		{"c++", DelimiterSlash},
		{"java", DelimiterSlash},
		{"javascript", DelimiterSlash},
		{"go", DelimiterSlash},
		{"rust", DelimiterSlash},
		{"php", DelimiterSlash},
		{"swift", DelimiterSlash},
		{"typescript", DelimiterSlash},
		{"Go", DelimiterSlash},
		{"  TypeScript ", DelimiterSlash},
		{"python", DelimiterHash},
		{"ruby", DelimiterHash},
		{"cobol", DelimiterHash},
		{"html", DelimiterHash},
		{"", DelimiterHash},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			if got := CommentDelimiter(tt.language); got != tt.want {
				t.Errorf("CommentDelimiter(%q) = %q, want %q", tt.language, got, tt.want)
			}
		})
	}
}

func TestModeFromString(t *testing.T) {
	tests := []struct {
		in     string
		want   Mode
		wantOK bool
	}{
		{"generate", ModeGenerate, true},
		{"Annotate", ModeAnnotate, true},
		{"comments", ModeAnnotate, true},
		{"explain", ModeExplain, true},
		{"dance", ModeGenerate, false},
	}
	for _, tt := range tests {
		got, ok := ModeFromString(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ModeFromString(%q) = (%s, %v), want (%s, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTranscriptionMessages(t *testing.T) {
	tests := []struct {
		name   string
		result TranscriptionResult
		want   string
	}{
		{"ok", TranscriptionOf("print hello"), "print hello"},
		{"unintelligible", TranscriptionResult{Status: TranscriptionUnintelligible}, MsgUnintelligible},
		{"service", TranscriptionResult{Status: TranscriptionServiceError}, MsgSpeechService},
		{"other", TranscriptionFailed(errors.New("mic exploded")), "Error: mic exploded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
			if tt.result.OK() != (tt.name == "ok") {
				t.Errorf("OK() = %v for %s", tt.result.OK(), tt.name)
			}
		})
	}
}

func TestSessionCode(t *testing.T) {
	s := NewSession("s1")
	if s.Language != DefaultLanguage || s.Mode != ModeGenerate {
		t.Fatalf("unexpected defaults: %+v", s)
	}

	s.GeneratedCode = "def f(): pass"
	if got := s.Code(); got != "def f(): pass" {
		t.Fatalf("Code() without buffer = %q", got)
	}

	s.Input = []string{"x = 1", "", "y = 2"}
	if got := s.Code(); got != "x = 1\n\ny = 2" {
		t.Fatalf("Code() with buffer = %q", got)
	}

	c := s.Clone()
	c.Input[0] = "changed"
	if s.Input[0] != "x = 1" {
		t.Fatal("Clone shares the input buffer")
	}
}

func TestGenerationRequest(t *testing.T) {
	r := NewGenerationRequest("print hello", "python", ModeGenerate)
	if r.Input() != "print hello" || r.Language() != "python" || r.Mode() != ModeGenerate {
		t.Fatalf("unexpected request: %+v", r)
	}
}

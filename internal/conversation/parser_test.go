package conversation

import (
	"context"
	"testing"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	generate := domain.NewSession("g")
	annotate := domain.NewSession("a")
	annotate.Mode = domain.ModeAnnotate
	explain := domain.NewSession("e")
	explain.Mode = domain.ModeExplain

	tests := []struct {
		name        string
		input       string
		session     *domain.Session
		wantType    domain.IntentType
		wantPayload string
	}{
		// Generate
		{"generate with description", "generate a fizzbuzz function", generate, domain.IntentGenerate, "a fizzbuzz function"},
		{"gen short form", "/gen binary search", generate, domain.IntentGenerate, "binary search"},
		{"generate from buffer", "generate", annotate, domain.IntentGenerate, ""},
		{"free text in generate mode", "reverse a linked list", generate, domain.IntentGenerate, "reverse a linked list"},
		{"nil session is generate mode", "sum a list", nil, domain.IntentGenerate, "sum a list"},

		// Annotate / explain
		{"annotate", "annotate", generate, domain.IntentAnnotate, ""},
		{"add comments", "Add Comments", generate, domain.IntentAnnotate, ""},
		{"explain", "/explain", annotate, domain.IntentExplain, ""},

		// Speech
		{"listen", "listen", generate, domain.IntentListen, ""},
		{"read", "read", generate, domain.IntentRead, ""},

		// Settings
		{"language", "lang Go", generate, domain.IntentSetLanguage, "Go"},
		{"language long form", "language c++", generate, domain.IntentSetLanguage, "c++"},
		{"mode", "mode explain", generate, domain.IntentSetMode, "explain"},
		{"load", "load ./main.py", generate, domain.IntentLoad, "./main.py"},

		// Buffer and misc
		{"clear", "clear", annotate, domain.IntentClear, ""},
		{"show", "show", annotate, domain.IntentShow, ""},
		{"languages", "languages", generate, domain.IntentLanguages, ""},
		{"help", "?", generate, domain.IntentHelp, ""},
		{"quit", "q", generate, domain.IntentQuit, ""},
		{"exit", "exit", annotate, domain.IntentQuit, ""},

		// Code lines
		{"code line keeps indentation", "    return a + b", annotate, domain.IntentAppend, "    return a + b"},
		{"blank code line", "", annotate, domain.IntentAppend, ""},
		{"escaped command word", `\clear`, annotate, domain.IntentAppend, "clear"},
		{"indented command word is code", "    exit", annotate, domain.IntentAppend, "    exit"},
		{"indented show word is code", "\tcode", annotate, domain.IntentAppend, "\tcode"},
		{"indented say in explain mode", "  say", explain, domain.IntentAppend, "  say"},
		{"indented command in generate mode", "  quit", generate, domain.IntentQuit, ""},
		{"empty in generate mode", "   ", generate, domain.IntentUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input, tt.session)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent.Type != tt.wantType {
				t.Errorf("input=%q: got type %s, want %s", tt.input, intent.Type, tt.wantType)
			}
			if intent.Payload != tt.wantPayload {
				t.Errorf("input=%q: got payload %q, want %q", tt.input, intent.Payload, tt.wantPayload)
			}
		})
	}
}

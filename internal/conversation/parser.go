// Package conversation provides command parsing and user notification
// implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple
// patterns. Commands may carry a leading "/". Input that is not a command
// is a description in generate mode and a code line otherwise; a leading
// "\" forces a line to be taken literally.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	group  int // capture group carried as payload, 0 for none
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^/?(generate|gen|request)\s+(.+)$`), domain.IntentGenerate, 2},
		{regexp.MustCompile(`(?i)^/?(generate|gen|request|request code)$`), domain.IntentGenerate, 0},
		{regexp.MustCompile(`(?i)^/?(annotate|comment|comments|add comments)$`), domain.IntentAnnotate, 0},
		{regexp.MustCompile(`(?i)^/?(explain|explain code)$`), domain.IntentExplain, 0},
		{regexp.MustCompile(`(?i)^/?(listen|mic|speak)$`), domain.IntentListen, 0},
		{regexp.MustCompile(`(?i)^/?(read|read code|say)$`), domain.IntentRead, 0},
		{regexp.MustCompile(`(?i)^/?(lang|language)\s+(\S+)$`), domain.IntentSetLanguage, 2},
		{regexp.MustCompile(`(?i)^/?mode\s+(\S+)$`), domain.IntentSetMode, 1},
		{regexp.MustCompile(`(?i)^/?(load|open)\s+(.+)$`), domain.IntentLoad, 2},
		{regexp.MustCompile(`(?i)^/?(clear|reset)$`), domain.IntentClear, 0},
		{regexp.MustCompile(`(?i)^/?(show|code|buffer)$`), domain.IntentShow, 0},
		{regexp.MustCompile(`(?i)^/?(languages|langs)$`), domain.IntentLanguages, 0},
		{regexp.MustCompile(`(?i)^/?(help|h|\?)$`), domain.IntentHelp, 0},
		{regexp.MustCompile(`(?i)^/?(quit|exit|q)$`), domain.IntentQuit, 0},
	}
	return p
}

// Parse converts user input into an intent. The session's mode decides
// what free text means; a nil session is treated as generate mode.
func (p *KeywordParser) Parse(ctx context.Context, input string, session *domain.Session) (*domain.Intent, error) {
	mode := domain.ModeGenerate
	if session != nil {
		mode = session.Mode
	}

	// Code lines keep their indentation; only commands are trimmed.
	if strings.TrimSpace(input) == "" {
		if mode != domain.ModeGenerate {
			return &domain.Intent{Type: domain.IntentAppend, Payload: ""}, nil
		}
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	if rest, ok := strings.CutPrefix(input, `\`); ok {
		return p.freeText(rest, mode), nil
	}

	// An indented line is code, even when its text is a command word.
	if mode != domain.ModeGenerate && strings.TrimLeft(input, " \t") != input {
		return p.freeText(input, mode), nil
	}

	trimmed := strings.TrimSpace(input)
	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		intent := &domain.Intent{Type: rule.intent}
		if rule.group > 0 {
			intent.Payload = strings.TrimSpace(m[rule.group])
		}
		return intent, nil
	}

	return p.freeText(input, mode), nil
}

func (p *KeywordParser) freeText(input string, mode domain.Mode) *domain.Intent {
	if mode == domain.ModeGenerate {
		return &domain.Intent{Type: domain.IntentGenerate, Payload: strings.TrimSpace(input)}
	}
	return &domain.Intent{Type: domain.IntentAppend, Payload: strings.TrimRight(input, "\r\n")}
}

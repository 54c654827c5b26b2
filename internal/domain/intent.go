package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentGenerate
	IntentAnnotate
	IntentExplain
	IntentListen
	IntentRead
	IntentSetLanguage
	IntentSetMode
	IntentLoad
	IntentAppend // free text added to the code buffer
	IntentClear
	IntentShow
	IntentLanguages
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentGenerate:
		return "generate"
	case IntentAnnotate:
		return "annotate"
	case IntentExplain:
		return "explain"
	case IntentListen:
		return "listen"
	case IntentRead:
		return "read"
	case IntentSetLanguage:
		return "set_language"
	case IntentSetMode:
		return "set_mode"
	case IntentLoad:
		return "load"
	case IntentAppend:
		return "append"
	case IntentClear:
		return "clear"
	case IntentShow:
		return "show"
	case IntentLanguages:
		return "languages"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // optional context, e.g. the description for generate
}

// Package domain defines the core types and interfaces for the code
// assistant. All other packages depend on domain; domain depends on nothing.
package domain

import "strings"

// Mode selects what a request asks the generation service to do.
type Mode int

const (
	ModeGenerate Mode = iota
	ModeAnnotate
	ModeExplain
)

// String returns a human-readable mode.
func (m Mode) String() string {
	switch m {
	case ModeGenerate:
		return "generate"
	case ModeAnnotate:
		return "annotate"
	case ModeExplain:
		return "explain"
	default:
		return "unknown"
	}
}

// ModeFromString converts a mode name to a Mode. The bool is false for
// unrecognized names.
func ModeFromString(name string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "generate", "gen", "code":
		return ModeGenerate, true
	case "annotate", "comment", "comments":
		return ModeAnnotate, true
	case "explain", "explanation":
		return ModeExplain, true
	default:
		return ModeGenerate, false
	}
}

// GenerationRequest is one unit of work for the generation service. It is
// built once and consumed by exactly one remote call; the fields are
// unexported so nothing can mutate it after construction.
type GenerationRequest struct {
	input    string
	language string
	mode     Mode
}

// NewGenerationRequest builds an immutable request.
func NewGenerationRequest(input, language string, mode Mode) GenerationRequest {
	return GenerationRequest{input: input, language: language, mode: mode}
}

// Input returns the description (generate) or code (annotate/explain).
func (r GenerationRequest) Input() string { return r.input }

// Language returns the target language tag as given by the user.
func (r GenerationRequest) Language() string { return r.language }

// Mode returns what the request asks for.
func (r GenerationRequest) Mode() Mode { return r.mode }

// LineRecord is the per-physical-line unit of the annotation pipeline.
// Text is never modified; Comment is filled at most once and stays empty
// when the service returned nothing or failed.
type LineRecord struct {
	Text    string
	Index   int
	Comment string
}

// NarrationJob is a fire-and-forget unit of speech. Nothing is returned to
// the submitter and nothing about it survives completion.
type NarrationJob struct {
	Text string
}

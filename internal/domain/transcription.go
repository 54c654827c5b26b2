package domain

// TranscriptionStatus tags the outcome of a single capture attempt.
type TranscriptionStatus int

const (
	TranscriptionOK TranscriptionStatus = iota
	TranscriptionUnintelligible
	TranscriptionServiceError
	TranscriptionOtherError
)

// String returns a human-readable status.
func (s TranscriptionStatus) String() string {
	switch s {
	case TranscriptionOK:
		return "ok"
	case TranscriptionUnintelligible:
		return "unintelligible"
	case TranscriptionServiceError:
		return "service_error"
	case TranscriptionOtherError:
		return "other_error"
	default:
		return "unknown"
	}
}

// User-facing transcription messages.
const (
	MsgUnintelligible = "Could not understand the speech."
	MsgSpeechService  = "Speech Recognition service error."
)

// TranscriptionResult is the tagged outcome of Transcriber.Listen. Text is
// set only for TranscriptionOK; Detail only for TranscriptionOtherError.
type TranscriptionResult struct {
	Status TranscriptionStatus
	Text   string
	Detail string
}

// TranscriptionOf builds an OK result.
func TranscriptionOf(text string) TranscriptionResult {
	return TranscriptionResult{Status: TranscriptionOK, Text: text}
}

// TranscriptionFailed builds an OtherError result carrying the cause.
func TranscriptionFailed(err error) TranscriptionResult {
	return TranscriptionResult{Status: TranscriptionOtherError, Detail: err.Error()}
}

// OK reports whether speech was transcribed.
func (r TranscriptionResult) OK() bool { return r.Status == TranscriptionOK }

// Message returns the text to show the user: the transcription itself on
// success, otherwise a fixed message per failure kind.
func (r TranscriptionResult) Message() string {
	switch r.Status {
	case TranscriptionOK:
		return r.Text
	case TranscriptionUnintelligible:
		return MsgUnintelligible
	case TranscriptionServiceError:
		return MsgSpeechService
	default:
		return "Error: " + r.Detail
	}
}

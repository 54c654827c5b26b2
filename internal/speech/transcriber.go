package speech

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// Compile-time interface check.
var _ domain.Transcriber = (*Transcriber)(nil)

// Transcriber performs one capture-and-recognize attempt per Listen call
// and reports the outcome as a TranscriptionResult.
type Transcriber struct {
	rec Recorder
	log *logger.Logger
}

// NewTranscriber creates a Transcriber on the given recorder.
func NewTranscriber(rec Recorder, log *logger.Logger) *Transcriber {
	return &Transcriber{rec: rec, log: log}
}

// Listen blocks for up to timeoutSeconds of capture plus recognition time.
// It never fails the caller: every outcome is a tagged result.
func (t *Transcriber) Listen(ctx context.Context, timeoutSeconds int) domain.TranscriptionResult {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 5
	}
	d := time.Duration(timeoutSeconds) * time.Second

	t.log.Info("transcriber: listening for %s", d)
	raw, err := t.rec.Record(ctx, d)
	res := classify(raw, err)
	t.log.Info("transcriber: %s", res.Status)
	if err != nil {
		t.log.Debug("transcriber: cause: %v", err)
	}
	return res
}

func classify(raw string, err error) domain.TranscriptionResult {
	switch {
	case errors.Is(err, domain.ErrUnintelligible):
		return domain.TranscriptionResult{Status: domain.TranscriptionUnintelligible}
	case errors.Is(err, domain.ErrServiceUnavailable):
		return domain.TranscriptionResult{Status: domain.TranscriptionServiceError}
	case err != nil:
		return domain.TranscriptionFailed(err)
	}
	text := cleanTranscription(raw)
	if text == "" {
		return domain.TranscriptionResult{Status: domain.TranscriptionUnintelligible}
	}
	return domain.TranscriptionOf(text)
}

var (
	// "(keyboard clicking)", "[BLANK_AUDIO]", "[Music]", "(speaking French)".
	envAnnotation = regexp.MustCompile(`[\(\[][A-Za-z][A-Za-z_\s]*[\)\]]`)
	// "[00:00:00.000 --> 00:00:05.000]"
	timestampPrefix = regexp.MustCompile(`^\[[0-9:.]+\s*-->\s*[0-9:.]+\]\s*`)
	spaces          = regexp.MustCompile(`\s+`)
)

// hallucinations are phrases whisper emits on silence.
var hallucinations = map[string]struct{}{
	"...":                     {},
	"you":                     {},
	"thank you.":              {},
	"thanks for watching!":    {},
	"thank you for watching.": {},
	"bye.":                    {},
	"the end.":                {},
}

// cleanTranscription normalizes whitespace and removes whisper artefacts
// so that silence comes back as "".
func cleanTranscription(s string) string {
	s = strings.TrimSpace(s)
	s = timestampPrefix.ReplaceAllString(s, "")
	s = envAnnotation.ReplaceAllString(s, "")
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	if _, ok := hallucinations[strings.ToLower(s)]; ok {
		return ""
	}
	return s
}

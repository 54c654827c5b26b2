package speech

import (
	"regexp"
	"strings"
)

var (
	ansiCodes     = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	bracketPrefix = regexp.MustCompile(`^\[[A-Za-z]+\]\s*`)
	fenceLine     = regexp.MustCompile("(?m)^\\s*```[A-Za-z0-9+#-]*\\s*$")
)

// cleanForSpeech strips formatting artifacts that shouldn't be spoken:
// terminal colour codes, a leading "[Tag]" and markdown code fences.
func cleanForSpeech(msg string) string {
	s := ansiCodes.ReplaceAllString(msg, "")
	s = fenceLine.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "`", "")
	s = strings.TrimSpace(s)
	s = bracketPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

package assistant

import (
	"strings"

	"github.com/hammamikhairi/ottocode/internal/domain"
)

// SplitLines splits text into physical lines. "\n", "\r\n" and "\r" all
// terminate a line, empty lines are kept, and a final terminator does not
// start an extra empty line. Empty input has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = strings.TrimPrefix(t, "```")
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// sanitizeFragment reduces a model reply to a single comment body: fences
// are dropped, only the first non-empty line survives, and a leading
// comment token the model echoed back is removed.
func sanitizeFragment(reply string) string {
	var first string
	for _, l := range SplitLines(stripFences(reply)) {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "```") {
			continue
		}
		first = l
		break
	}
	for _, tok := range []string{domain.DelimiterSlash, domain.DelimiterHash} {
		if strings.HasPrefix(first, tok) {
			first = strings.TrimSpace(strings.TrimLeft(first, tok[:1]))
			break
		}
	}
	return first
}

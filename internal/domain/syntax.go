package domain

import "strings"

// Comment delimiters. There are exactly two buckets.
const (
	DelimiterSlash = "//"
	DelimiterHash  = "#"
)

// slashLanguages use the C-style line comment.
var slashLanguages = map[string]struct{}{
	"c":          {},
	"c++":        {},
	"java":       {},
	"javascript": {},
	"go":         {},
	"rust":       {},
	"php":        {},
	"swift":      {},
	"typescript": {},
}

// CommentDelimiter returns the single-line comment token for a language.
// The lookup is case-insensitive and total: python, ruby and anything
// unrecognized get the hash token.
func CommentDelimiter(language string) string {
	if _, ok := slashLanguages[strings.ToLower(strings.TrimSpace(language))]; ok {
		return DelimiterSlash
	}
	return DelimiterHash
}

// SupportedLanguages is the language menu offered to the user. Other tags
// are still accepted everywhere.
var SupportedLanguages = []string{
	"python", "javascript", "java", "c", "c++", "ruby", "go",
	"swift", "html", "css", "php", "rust", "typescript",
}

// IsSupportedLanguage reports whether the tag appears in SupportedLanguages.
func IsSupportedLanguage(language string) bool {
	l := strings.ToLower(strings.TrimSpace(language))
	for _, s := range SupportedLanguages {
		if s == l {
			return true
		}
	}
	return false
}

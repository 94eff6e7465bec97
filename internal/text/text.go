package text

import (
	"strings"
	"unicode"
)

// charsPerToken is the rough budget estimate used before calling the
// embedding provider. Four characters per token errs on the safe side for
// English prose.
const charsPerToken = 4

// TruncateTokens deterministically cuts text to fit an approximate token
// budget. The cut lands on a rune boundary so the result stays valid UTF-8.
func TruncateTokens(text string, maxTokens int) string {
	maxChars := maxTokens * charsPerToken
	if len(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}

// Collapse squeezes runs of whitespace (including newlines from pretty-printed
// markup) into single spaces and trims the ends.
func Collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

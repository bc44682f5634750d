package anchor

import (
	"strings"
	"unicode"
)

// normalize lowercases and strips leading/trailing punctuation so that
// "Stop!" and "stop" compare equal across the book and ASR token streams.
func normalize(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.ToLower(s)
}

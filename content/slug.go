package content

import (
	"strings"
	"unicode"
)

// Slugify converts a title to a URL-safe slug: lower-cased, punctuation
// dropped, and runs of whitespace, underscores or hyphens collapsed into a
// single hyphen. Letters and digits of any script are kept, so Persian and
// German titles keep their characters. Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '\u200c':
			pendingDash = true
		}
	}
	return b.String()
}

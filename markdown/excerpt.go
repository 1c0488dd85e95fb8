package markdown

import (
	"html/template"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Excerpt returns the plain text of the first non-empty paragraph of a
// rendered document, cut at a word boundary to at most max runes. A max of
// zero or less disables truncation.
func Excerpt(doc template.HTML, max int) string {
	tokenizer := html.NewTokenizer(strings.NewReader(string(doc)))
	var b strings.Builder
	depth := 0
	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			// io.EOF or a tokenizer error: return whatever text was collected.
			return truncate(collapse(b.String()), max)
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "p" {
				depth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "p" && depth > 0 {
				depth--
				if depth == 0 && strings.TrimSpace(b.String()) != "" {
					return truncate(collapse(b.String()), max)
				}
			}
		case html.TextToken:
			if depth > 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// Package i18n holds the supported locales, their text direction, and the
// UI message catalogs.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var catalogFS embed.FS

// Text directions.
const (
	LTR = "ltr"
	RTL = "rtl"
)

// Locale describes one supported content and UI language.
type Locale struct {
	Code string
	Name string
	Dir  string
	Flag string
}

// RTL reports whether the locale is written right to left.
func (l Locale) RTL() bool {
	return l.Dir == RTL
}

// known is the table of locales folio ships names and catalogs for.
var known = map[string]Locale{
	"fa": {Code: "fa", Name: "فارسی", Dir: RTL, Flag: "/public/images/sun-lion.svg"},
	"en": {Code: "en", Name: "English", Dir: LTR, Flag: "🇬🇧"},
	"de": {Code: "de", Name: "Deutsch", Dir: LTR, Flag: "🇩🇪"},
}

// Set is an ordered set of enabled locales with a default. It is built once
// at startup and passed to every consumer.
type Set struct {
	locales  []Locale
	byCode   map[string]int
	matcher  language.Matcher
	messages map[string]map[string]string
}

// NewSet builds a Set. The default locale is always first; codes that repeat
// the default are ignored. Unknown codes get a left-to-right entry named
// after the code.
func NewSet(defaultCode string, codes ...string) (*Set, error) {
	defaultCode = normalize(defaultCode)
	if defaultCode == "" {
		return nil, fmt.Errorf("i18n: default locale is required")
	}
	s := &Set{byCode: make(map[string]int), messages: make(map[string]map[string]string)}
	var tags []language.Tag
	for _, code := range append([]string{defaultCode}, codes...) {
		code = normalize(code)
		if code == "" {
			continue
		}
		if _, dup := s.byCode[code]; dup {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("i18n: parse locale %q: %w", code, err)
		}
		loc, ok := known[code]
		if !ok {
			loc = Locale{Code: code, Name: code, Dir: LTR}
		}
		s.byCode[code] = len(s.locales)
		s.locales = append(s.locales, loc)
		tags = append(tags, tag)

		msgs, err := loadCatalog(code)
		if err != nil {
			return nil, err
		}
		s.messages[code] = msgs
	}
	s.matcher = language.NewMatcher(tags)
	return s, nil
}

// MustNewSet is like NewSet but panics on error. Intended for tests and
// package-level fixtures.
func MustNewSet(defaultCode string, codes ...string) *Set {
	s, err := NewSet(defaultCode, codes...)
	if err != nil {
		panic(err)
	}
	return s
}

func loadCatalog(code string) (map[string]string, error) {
	b, err := catalogFS.ReadFile(path.Join("messages", code+".yaml"))
	if err != nil {
		// Locales without a catalog fall back to the default one.
		return map[string]string{}, nil
	}
	msgs := make(map[string]string)
	if err := yaml.Unmarshal(b, &msgs); err != nil {
		return nil, fmt.Errorf("i18n: decode %s catalog: %w", code, err)
	}
	return msgs, nil
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Default returns the default locale.
func (s *Set) Default() Locale {
	return s.locales[0]
}

// All returns the enabled locales, default first.
func (s *Set) All() []Locale {
	out := make([]Locale, len(s.locales))
	copy(out, s.locales)
	return out
}

// Codes returns the enabled locale codes, default first.
func (s *Set) Codes() []string {
	out := make([]string, len(s.locales))
	for i, l := range s.locales {
		out[i] = l.Code
	}
	return out
}

// Lookup returns the locale for an exact code.
func (s *Set) Lookup(code string) (Locale, bool) {
	i, ok := s.byCode[normalize(code)]
	if !ok {
		return Locale{}, false
	}
	return s.locales[i], true
}

// Supported reports whether code is an enabled locale.
func (s *Set) Supported(code string) bool {
	_, ok := s.byCode[normalize(code)]
	return ok
}

// Rank returns the position of code in the set, or len(set) when unknown.
func (s *Set) Rank(code string) int {
	if i, ok := s.byCode[normalize(code)]; ok {
		return i
	}
	return len(s.locales)
}

// MatchAcceptLanguage resolves an HTTP Accept-Language header.
func (s *Set) MatchAcceptLanguage(header string) Locale {
	want, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return s.Default()
	}
	return s.match(want)
}

func (s *Set) match(want []language.Tag) Locale {
	if len(want) == 0 {
		return s.Default()
	}
	_, idx, conf := s.matcher.Match(want...)
	if conf == language.No || idx < 0 || idx >= len(s.locales) {
		return s.Default()
	}
	return s.locales[idx]
}

// T returns the UI string for key in lang, falling back to the default
// locale and finally to the key itself.
func (s *Set) T(lang, key string) string {
	if msgs, ok := s.messages[normalize(lang)]; ok {
		if v, ok := msgs[key]; ok {
			return v
		}
	}
	if v, ok := s.messages[s.Default().Code][key]; ok {
		return v
	}
	return key
}

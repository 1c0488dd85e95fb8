package content

import (
	"sort"

	"github.com/eringen/folio/i18n"
)

// PreferredTranslation picks one post out of translations: the one in the
// default locale, else the first in the locale order of locales. Posts in
// unknown languages rank last. It reports false for an empty slice.
func PreferredTranslation(translations []Post, locales *i18n.Set) (Post, bool) {
	var (
		best  Post
		found bool
	)
	for _, p := range translations {
		if !found || locales.Rank(p.Lang) < locales.Rank(best.Lang) {
			best, found = p, true
		}
	}
	return best, found
}

// PreferredTranslations returns the preferred translation of every slug in
// posts, sorted by slug.
func PreferredTranslations(posts []Post, locales *i18n.Set) []Post {
	bySlug := make(map[string][]Post)
	for _, p := range posts {
		bySlug[p.Slug] = append(bySlug[p.Slug], p)
	}
	out := make([]Post, 0, len(bySlug))
	for _, group := range bySlug {
		if p, ok := PreferredTranslation(group, locales); ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

package folio

import (
	"net/url"
	"path"
	"strings"

	"github.com/eringen/folio/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterRelatedPosts finds posts in the same language that share at least
// one tag with current.
func FilterRelatedPosts(current content.Post, posts []content.Post) []content.Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []content.Post
	for _, p := range posts {
		if p.Lang != current.Lang || p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// filterLang returns the posts written in lang, preserving order.
func filterLang(posts []content.Post, lang string) []content.Post {
	out := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if p.Lang == lang {
			out = append(out, p)
		}
	}
	return out
}

// listing strips the rendered body so list pages and caches stay small.
func listing(posts []content.Post) []content.Post {
	out := make([]content.Post, len(posts))
	for i, p := range posts {
		p.HTML = ""
		p.Body = ""
		out[i] = p
	}
	return out
}

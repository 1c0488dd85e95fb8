package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/folio/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
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

// absURL resolves a site path or URL against the canonical base.
func absURL(base, p string) string {
	if p == "" {
		return ""
	}
	ref, err := url.Parse(p)
	if err != nil {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return p
	}
	return b.ResolveReference(ref).String()
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for one locale.
func WebsiteJsonLD(cfg SiteConfig, lang string) string {
	data := map[string]interface{}{
		"@context":   "https://schema.org",
		"@type":      "WebSite",
		"name":       cfg.Name,
		"url":        buildURL(cfg.URL, lang),
		"inLanguage": lang,
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJSONLD(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post content.Post) string {
	postURL := buildURL(cfg.URL, post.Lang, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.Date,
		"inLanguage":    post.Lang,
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.CoverImage != "" {
		data["image"] = absURL(cfg.URL, post.CoverImage)
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return marshalJSONLD(data)
}

// PersonJsonLD produces a Schema.org ProfilePage JSON-LD block for the about
// page.
func PersonJsonLD(cfg SiteConfig, lang string, p content.Profile) string {
	person := map[string]interface{}{
		"@type": "Person",
		"name":  p.Name,
	}
	if p.Headline != "" {
		person["jobTitle"] = p.Headline
	}
	if p.Photo != "" {
		person["image"] = absURL(cfg.URL, p.Photo)
	}
	var sameAs []string
	for _, l := range p.Social {
		if l.URL != "" {
			sameAs = append(sameAs, l.URL)
		}
	}
	if len(sameAs) > 0 {
		person["sameAs"] = sameAs
	}
	return marshalJSONLD(map[string]interface{}{
		"@context":   "https://schema.org",
		"@type":      "ProfilePage",
		"url":        buildURL(cfg.URL, lang, "about"),
		"inLanguage": lang,
		"mainEntity": person,
	})
}

// marshalJSONLD encodes v for a <script> element. encoding/json escapes
// <, > and & so the payload cannot close the tag.
func marshalJSONLD(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

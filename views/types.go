package views

// SiteConfig holds the site-wide settings every page needs. It is a subset
// of folio.SiteConfig so the views do not depend on the engine.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
	Stylesheet  string // default "/public/folio.css"
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	JSONLD      string
	Feed        string // RSS feed path for the page language
}

package folio

import (
	"encoding/xml"
	"io"

	"github.com/eringen/folio/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap lists the cross-language blog, then for every locale its
// home, blog index and about page, then every post.
func writeSitemap(w io.Writer, base string, locales []string, posts []content.Post) error {
	urls := []sitemapURL{{Loc: BuildURL(base, "blog")}}
	for _, l := range locales {
		urls = append(urls,
			sitemapURL{Loc: BuildURL(base, l)},
			sitemapURL{Loc: BuildURL(base, l, "blog")},
			sitemapURL{Loc: BuildURL(base, l, "about")},
		)
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, p.Lang, "blog", p.Slug),
			LastMod: p.Published.Format("2006-01-02"),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}

// Package views holds the default page components. The document shell is a
// templ template (layout.templ); the pages are templ.ComponentFunc values, so
// a site can swap any of them for its own templ code through
// folio.ViewFuncs.
package views

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio/i18n"
	"github.com/eringen/folio/markdown"
)

// Views renders the built-in pages for one site.
type Views struct {
	site    SiteConfig
	locales *i18n.Set
	md      *markdown.Renderer
}

// New creates the default views.
func New(site SiteConfig, locales *i18n.Set) *Views {
	if site.Stylesheet == "" {
		site.Stylesheet = "/public/folio.css"
	}
	return &Views{site: site, locales: locales, md: markdown.New()}
}

// htmlWriter accumulates the first write error so page code can stay linear.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, val string) {
	h.raw(" " + name + `="` + templ.EscapeString(val) + `"`)
}

// link writes an anchor. Unsafe hrefs are dropped.
func (h *htmlWriter) link(href, label string, attrs ...string) {
	h.raw("<a")
	h.attr("href", markdown.SafeURL(href))
	for i := 0; i+1 < len(attrs); i += 2 {
		h.attr(attrs[i], attrs[i+1])
	}
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}

func (h *htmlWriter) component(c templ.Component) {
	if h.err == nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

// fragment adapts page code written against htmlWriter to a component.
func fragment(write func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{ctx: ctx, w: w}
		write(h)
		return h.err
	})
}

// layout wraps body in the document shell for lang.
func (v *Views) layout(lang string, meta PageMeta, body func(h *htmlWriter)) templ.Component {
	loc, ok := v.locales.Lookup(lang)
	if !ok {
		loc = v.locales.Default()
	}
	title := v.site.Name
	if meta.Title != "" && meta.Title != v.site.Name {
		title = meta.Title + " | " + v.site.Name
	}
	if meta.OGType == "" {
		meta.OGType = "website"
	}
	head := fragment(func(h *htmlWriter) { v.head(h, loc, title, meta) })
	header := fragment(func(h *htmlWriter) { v.header(h, loc) })
	footer := fragment(func(h *htmlWriter) { v.footer(h, loc) })
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return document(loc, title, head, header, footer).Render(templ.WithChildren(ctx, fragment(body)), w)
	})
}

// head writes the metadata that follows <title>.
func (v *Views) head(h *htmlWriter, loc i18n.Locale, title string, meta PageMeta) {
	if meta.Description != "" {
		h.raw("<meta name=\"description\"")
		h.attr("content", meta.Description)
		h.raw(">")
	}
	if meta.URL != "" {
		h.raw("<link rel=\"canonical\"")
		h.attr("href", meta.URL)
		h.raw("><meta property=\"og:url\"")
		h.attr("content", meta.URL)
		h.raw(">")
	}
	h.raw("<meta property=\"og:title\"")
	h.attr("content", title)
	h.raw("><meta property=\"og:type\"")
	h.attr("content", meta.OGType)
	h.raw("><meta property=\"og:locale\"")
	h.attr("content", loc.Code)
	h.raw(">")
	if meta.Image != "" {
		h.raw("<meta property=\"og:image\"")
		h.attr("content", meta.Image)
		h.raw(">")
	}
	h.raw("<link rel=\"stylesheet\"")
	h.attr("href", v.site.Stylesheet)
	h.raw(">")
	if meta.Feed != "" {
		h.raw("<link rel=\"alternate\" type=\"application/rss+xml\"")
		h.attr("title", v.site.Name)
		h.attr("href", meta.Feed)
		h.raw(">")
	}
	for _, l := range v.locales.All() {
		h.raw("<link rel=\"alternate\"")
		h.attr("hreflang", l.Code)
		h.attr("href", buildURL(v.site.URL, l.Code))
		h.raw(">")
	}
	if meta.JSONLD != "" {
		h.raw("<script type=\"application/ld+json\">")
		h.raw(meta.JSONLD)
		h.raw("</script>")
	}
}

func (v *Views) header(h *htmlWriter, loc i18n.Locale) {
	h.raw("<header class=\"site-header\"><nav>")
	h.link("/"+loc.Code+"/", v.site.Name, "class", "brand")
	h.raw("<ul class=\"nav\"><li>")
	h.link("/"+loc.Code+"/", v.locales.T(loc.Code, "nav.home"))
	h.raw("</li><li>")
	h.link("/"+loc.Code+"/blog/", v.locales.T(loc.Code, "nav.blog"))
	h.raw("</li><li>")
	h.link("/"+loc.Code+"/about/", v.locales.T(loc.Code, "nav.about"))
	h.raw("</li></ul><ul class=\"lang-switch\"")
	h.attr("aria-label", v.locales.T(loc.Code, "language.switch"))
	h.raw(">")
	for _, l := range v.locales.All() {
		h.raw("<li><a")
		h.attr("href", "/"+l.Code+"/")
		h.attr("hreflang", l.Code)
		h.attr("lang", l.Code)
		h.attr("title", l.Name)
		if l.Code == loc.Code {
			h.attr("aria-current", "true")
		}
		h.raw(">")
		switch {
		case strings.HasPrefix(l.Flag, "/"):
			h.raw("<img class=\"flag\"")
			h.attr("src", l.Flag)
			h.attr("alt", l.Name)
			h.raw(" width=\"20\" height=\"20\">")
		case l.Flag != "":
			h.raw("<span class=\"flag\" aria-hidden=\"true\">")
			h.text(l.Flag)
			h.raw("</span> ")
			h.text(l.Name)
		default:
			h.text(l.Name)
		}
		h.raw("</a></li>")
	}
	h.raw("</ul></nav></header>")
}

func (v *Views) footer(h *htmlWriter, loc i18n.Locale) {
	h.raw("<footer class=\"site-footer\"><p>&copy; ")
	h.text(time.Now().Format("2006"))
	if v.site.Author != "" {
		h.raw(" ")
		h.text(v.site.Author)
	}
	h.raw(" · ")
	h.link("/"+loc.Code+"/feed.xml", "RSS")
	h.raw("</p></footer>")
}

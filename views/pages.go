package views

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
)

// homeLimit is how many recent posts the home page lists.
const homeLimit = 5

// Home lists the newest posts of one language.
func (v *Views) Home(lang string, posts []content.Post) templ.Component {
	meta := PageMeta{
		Title:       v.site.Name,
		Description: v.site.Description,
		URL:         buildURL(v.site.URL, lang),
		JSONLD:      WebsiteJsonLD(v.site, lang),
		Feed:        "/" + lang + "/feed.xml",
	}
	return v.layout(lang, meta, func(h *htmlWriter) {
		h.raw("<section class=\"hero\"><h1>")
		h.text(v.site.Name)
		h.raw("</h1>")
		if v.site.Description != "" {
			h.raw("<p>")
			h.text(v.site.Description)
			h.raw("</p>")
		}
		h.raw("</section><section class=\"latest\"><h2>")
		h.text(v.locales.T(lang, "home.latest"))
		h.raw("</h2>")
		if len(posts) > homeLimit {
			posts = posts[:homeLimit]
		}
		v.postList(h, lang, posts, false)
		h.raw("<p>")
		h.link("/"+lang+"/blog/", v.locales.T(lang, "nav.blog"), "class", "more")
		h.raw("</p></section>")
	})
}

// BlogIndex lists every post of one language.
func (v *Views) BlogIndex(lang string, posts []content.Post) templ.Component {
	heading := v.locales.T(lang, "blog.heading")
	meta := PageMeta{
		Title:       heading,
		Description: v.site.Description,
		URL:         buildURL(v.site.URL, lang, "blog"),
		Feed:        "/" + lang + "/feed.xml",
	}
	return v.layout(lang, meta, func(h *htmlWriter) {
		h.raw("<h1>")
		h.text(heading)
		h.raw("</h1>")
		v.langFilter(h, lang, lang)
		v.postList(h, lang, posts, false)
	})
}

// BlogAll lists the posts of every language, each marked with its language.
// lang is only the language of the page chrome.
func (v *Views) BlogAll(lang string, posts []content.Post) templ.Component {
	heading := v.locales.T(lang, "blog.all")
	meta := PageMeta{
		Title:       heading,
		Description: v.site.Description,
		URL:         buildURL(v.site.URL, "blog"),
	}
	return v.layout(lang, meta, func(h *htmlWriter) {
		h.raw("<h1>")
		h.text(heading)
		h.raw("</h1>")
		v.langFilter(h, lang, "")
		v.postList(h, lang, posts, true)
	})
}

// langFilter links the cross-language listing and every per-language blog
// index. current is the listed language, or "" for all of them.
func (v *Views) langFilter(h *htmlWriter, lang, current string) {
	h.raw("<nav class=\"blog-filter\"")
	h.attr("aria-label", v.locales.T(lang, "blog.filter"))
	h.raw("><ul><li>")
	if current == "" {
		h.link("/blog/", v.locales.T(lang, "blog.allLanguages"), "aria-current", "page")
	} else {
		h.link("/blog/", v.locales.T(lang, "blog.allLanguages"))
	}
	h.raw("</li>")
	for _, l := range v.locales.All() {
		h.raw("<li>")
		attrs := []string{"hreflang", l.Code, "lang", l.Code}
		if l.Code == current {
			attrs = append(attrs, "aria-current", "page")
		}
		h.link("/"+l.Code+"/blog/", l.Name, attrs...)
		h.raw("</li>")
	}
	h.raw("</ul></nav>")
}

// postList writes post cards. With badges every card names its language.
func (v *Views) postList(h *htmlWriter, lang string, posts []content.Post, badges bool) {
	if len(posts) == 0 {
		h.raw("<p class=\"empty\">")
		h.text(v.locales.T(lang, "blog.empty"))
		h.raw("</p>")
		return
	}
	h.raw("<ul class=\"posts\">")
	for _, p := range posts {
		h.raw("<li class=\"post-card\"")
		h.attr("lang", p.Lang)
		h.attr("dir", p.Dir)
		h.raw(">")
		if badges {
			name := p.Lang
			if l, ok := v.locales.Lookup(p.Lang); ok {
				name = l.Name
			}
			h.raw("<span class=\"lang-badge\"")
			h.attr("title", name)
			h.raw(">")
			h.text(p.Lang)
			h.raw("</span>")
		}
		if src := markdown.SafeURL(p.CoverImage); src != "" {
			h.raw("<img class=\"cover\" loading=\"lazy\" alt=\"\"")
			h.attr("src", src)
			h.raw(">")
		}
		h.raw("<h3>")
		h.link(p.Path(), p.Title)
		h.raw("</h3><time")
		h.attr("datetime", p.Published.Format("2006-01-02"))
		h.raw(">")
		h.text(p.Date)
		h.raw("</time>")
		if p.Excerpt != "" {
			h.raw("<p class=\"excerpt\">")
			h.text(p.Excerpt)
			h.raw("</p>")
		}
		h.raw("</li>")
	}
	h.raw("</ul>")
}

// Post renders one article and the posts related to it by tag.
func (v *Views) Post(post content.Post, related []content.Post) templ.Component {
	meta := PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         buildURL(v.site.URL, post.Lang, "blog", post.Slug),
		OGType:      "article",
		Image:       absURL(v.site.URL, post.CoverImage),
		JSONLD:      BlogPostingJsonLD(v.site, post),
		Feed:        "/" + post.Lang + "/feed.xml",
	}
	return v.layout(post.Lang, meta, func(h *htmlWriter) {
		h.raw("<article class=\"post\"")
		h.attr("lang", post.Lang)
		h.attr("dir", post.Dir)
		h.raw("><header><h1>")
		h.text(post.Title)
		h.raw("</h1><p class=\"meta\">")
		h.text(v.locales.T(post.Lang, "blog.published"))
		h.raw(" <time")
		h.attr("datetime", post.Published.Format("2006-01-02"))
		h.raw(">")
		h.text(post.Date)
		h.raw("</time></p>")
		if len(post.Tags) > 0 {
			h.raw("<ul class=\"tags\">")
			for _, t := range post.Tags {
				h.raw("<li>")
				h.text(t)
				h.raw("</li>")
			}
			h.raw("</ul>")
		}
		h.raw("</header>")
		if src := markdown.SafeURL(post.CoverImage); src != "" {
			h.raw("<img class=\"cover\" alt=\"\"")
			h.attr("src", src)
			h.raw(">")
		}
		h.raw("<div class=\"prose\">")
		h.component(templ.Raw(string(post.HTML)))
		h.raw("</div></article>")
		if len(related) > 0 {
			h.raw("<aside class=\"related\"><h2>")
			h.text(v.locales.T(post.Lang, "blog.related"))
			h.raw("</h2>")
			v.postList(h, post.Lang, related, false)
			h.raw("</aside>")
		}
		h.raw("<p>")
		h.link("/"+post.Lang+"/blog/", v.locales.T(post.Lang, "blog.back"), "class", "back")
		h.raw("</p>")
	})
}

// About renders the resume in profile. A profile in another language than
// the page, the default locale fallback, keeps its own lang and dir.
func (v *Views) About(lang string, profile content.Profile) templ.Component {
	heading := v.locales.T(lang, "about.heading")
	meta := PageMeta{
		Title:       heading,
		Description: profile.Headline,
		URL:         buildURL(v.site.URL, lang, "about"),
		OGType:      "profile",
		Image:       absURL(v.site.URL, markdown.SafeURL(profile.Photo)),
		JSONLD:      PersonJsonLD(v.site, lang, profile),
	}
	return v.layout(lang, meta, func(h *htmlWriter) {
		h.raw("<article class=\"about\"")
		if profile.Lang != "" && profile.Lang != lang {
			if loc, ok := v.locales.Lookup(profile.Lang); ok {
				h.attr("lang", loc.Code)
				h.attr("dir", loc.Dir)
			}
		}
		h.raw("><header class=\"profile\">")
		if src := markdown.SafeURL(profile.Photo); src != "" {
			h.raw("<img class=\"photo\" width=\"160\" height=\"160\"")
			h.attr("src", src)
			h.attr("alt", profile.Name)
			h.raw(">")
		}
		h.raw("<h1>")
		h.text(profile.Name)
		h.raw("</h1>")
		if profile.Headline != "" {
			h.raw("<p class=\"headline\">")
			h.text(profile.Headline)
			h.raw("</p>")
		}
		if profile.Address != "" || profile.Email != "" {
			h.raw("<address>")
			h.text(profile.Address)
			if profile.Email != "" {
				if profile.Address != "" {
					h.raw("<br>")
				}
				h.link("mailto:"+profile.Email, profile.Email)
			}
			h.raw("</address>")
		}
		if len(profile.Social) > 0 {
			h.raw("<ul class=\"social\">")
			for _, l := range profile.Social {
				if markdown.SafeURL(l.URL) == "" {
					continue
				}
				h.raw("<li>")
				h.link(l.URL, l.Label, "rel", "me noopener")
				h.raw("</li>")
			}
			h.raw("</ul>")
		}
		h.raw("</header>")

		if profile.Summary != "" {
			v.aboutSection(h, lang, "summary", "about.summary")
			h.raw("<div class=\"prose\">")
			h.component(v.md.Markdown(profile.Summary))
			h.raw("</div></section>")
		}
		if len(profile.Skills) > 0 {
			v.aboutSection(h, lang, "skills", "about.skills")
			h.raw("<dl>")
			for _, g := range profile.Skills {
				h.raw("<dt>")
				h.text(g.Category)
				h.raw("</dt><dd>")
				h.text(strings.Join(g.Tools, ", "))
				h.raw("</dd>")
			}
			h.raw("</dl></section>")
		}
		if len(profile.Experience) > 0 {
			v.aboutSection(h, lang, "experience", "about.experience")
			h.raw("<ol>")
			for _, e := range profile.Experience {
				h.raw("<li><h3>")
				h.text(e.Title)
				h.raw("</h3><p class=\"meta\">")
				h.text(e.Company)
				if e.Duration != "" {
					h.raw(" · <span class=\"duration\">")
					h.text(e.Duration)
					h.raw("</span>")
				}
				h.raw("</p>")
				if e.Description != "" {
					h.raw("<p>")
					h.text(e.Description)
					h.raw("</p>")
				}
				h.raw("</li>")
			}
			h.raw("</ol></section>")
		}
		if len(profile.Education) > 0 {
			v.aboutSection(h, lang, "education", "about.education")
			h.raw("<ul>")
			for _, e := range profile.Education {
				h.raw("<li>")
				h.text(e)
				h.raw("</li>")
			}
			h.raw("</ul></section>")
		}
		h.raw("</article>")
	})
}

// aboutSection opens a titled section; the caller closes it.
func (v *Views) aboutSection(h *htmlWriter, lang, class, key string) {
	h.raw("<section")
	h.attr("class", class)
	h.raw("><h2>")
	h.text(v.locales.T(lang, key))
	h.raw("</h2>")
}

// NotFound is the 404 page.
func (v *Views) NotFound(lang string) templ.Component {
	return v.message(lang, "notfound.heading", "notfound.body", 404)
}

// ServerError is the 5xx page.
func (v *Views) ServerError(lang string) templ.Component {
	return v.message(lang, "error.heading", "error.body", 500)
}

func (v *Views) message(lang, headingKey, bodyKey string, code int) templ.Component {
	heading := v.locales.T(lang, headingKey)
	return v.layout(lang, PageMeta{Title: heading}, func(h *htmlWriter) {
		h.raw("<section class=\"message\"")
		h.attr("data-status", strconv.Itoa(code))
		h.raw("><h1>")
		h.text(heading)
		h.raw("</h1><p>")
		h.text(v.locales.T(lang, bodyKey))
		h.raw("</p><p>")
		h.link("/"+lang+"/", v.locales.T(lang, "nav.home"))
		h.raw("</p></section>")
	})
}

// Redirect is a standalone page that sends the browser to target. Static
// hosting has no server-side redirects, so the build writes these.
func (v *Views) Redirect(target string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		dst := markdown.SafeURL(target)
		if dst == "" {
			dst = "/"
		}
		lang := v.locales.Default().Code
		h := &htmlWriter{ctx: ctx, w: w}
		h.raw("<!DOCTYPE html><html")
		h.attr("lang", lang)
		h.raw("><head><meta charset=\"utf-8\"><meta http-equiv=\"refresh\"")
		h.attr("content", "0; url="+dst)
		h.raw("><link rel=\"canonical\"")
		h.attr("href", dst)
		h.raw("><meta name=\"robots\" content=\"noindex\"><title>")
		h.text(v.site.Name)
		h.raw("</title></head><body><p>")
		h.link(dst, v.locales.T(lang, "redirect.body"))
		h.raw("</p></body></html>")
		return h.err
	})
}

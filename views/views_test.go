package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/i18n"
)

func testViews() *Views {
	return New(SiteConfig{
		Name:        "Portfolio",
		URL:         "https://example.com",
		Description: "Notes",
		Author:      "Ada",
	}, i18n.MustNewSet("en", "fa", "de"))
}

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func samplePost(lang, dir string) content.Post {
	return content.Post{
		Slug:       "hello-world",
		Title:      "Hello <World>",
		Date:       "2024-01-01",
		Published:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Lang:       lang,
		Dir:        dir,
		Excerpt:    "First post",
		CoverImage: "/public/images/cover.png",
		Tags:       []string{"go"},
		HTML:       "<p><strong>bold</strong></p>",
	}
}

func TestLayoutDirection(t *testing.T) {
	v := testViews()
	tests := []struct {
		lang, dir string
	}{
		{"en", "ltr"},
		{"de", "ltr"},
		{"fa", "rtl"},
		{"xx", "ltr"},
	}
	for _, tt := range tests {
		doc := render(t, v.BlogIndex(tt.lang, nil))
		if got, _ := doc.Find("html").Attr("dir"); got != tt.dir {
			t.Errorf("lang %q: dir = %q, want %q", tt.lang, got, tt.dir)
		}
	}
}

func TestLayoutDocument(t *testing.T) {
	doc := render(t, testViews().BlogIndex("fa", nil))
	if got, _ := doc.Find("body").Attr("class"); got != "lang-fa rtl" {
		t.Errorf("body class = %q, want %q", got, "lang-fa rtl")
	}
	if got := doc.Find("title").Text(); got != "وبلاگ | Portfolio" {
		t.Errorf("title = %q", got)
	}
	if doc.Find("head link[rel=stylesheet]").Length() != 1 {
		t.Error("stylesheet link should be in the head")
	}
	if doc.Find("body > header.site-header").Length() != 1 || doc.Find("body > footer.site-footer").Length() != 1 {
		t.Error("header and footer should wrap main")
	}
	if doc.Find("main > h1").Text() != "وبلاگ" {
		t.Error("page body should render inside main")
	}
	if href, _ := doc.Find(".nav a[href='/fa/about/']").Attr("href"); href == "" {
		t.Error("nav should link the about page")
	}
}

func TestLanguageSwitcher(t *testing.T) {
	doc := render(t, testViews().Home("fa", nil))
	links := doc.Find(".lang-switch a")
	if links.Length() != 3 {
		t.Fatalf("switcher has %d links, want 3", links.Length())
	}
	current := doc.Find(".lang-switch a[aria-current]")
	if href, _ := current.Attr("href"); href != "/fa/" {
		t.Errorf("current locale link = %q, want /fa/", href)
	}
	if src, _ := current.Find("img.flag").Attr("src"); src != "/public/images/sun-lion.svg" {
		t.Errorf("fa flag src = %q", src)
	}
	if doc.Find("link[rel=alternate][hreflang]").Length() != 3 {
		t.Error("expected hreflang alternates for every locale")
	}
}

func TestHomeTranslatesAndLimits(t *testing.T) {
	var posts []content.Post
	for i := 0; i < 8; i++ {
		posts = append(posts, samplePost("de", "ltr"))
	}
	doc := render(t, testViews().Home("de", posts))
	if got := doc.Find(".latest h2").Text(); got != "Neueste Beiträge" {
		t.Errorf("heading = %q", got)
	}
	if n := doc.Find(".posts li").Length(); n != homeLimit {
		t.Errorf("home lists %d posts, want %d", n, homeLimit)
	}
}

func TestBlogIndexEmpty(t *testing.T) {
	doc := render(t, testViews().BlogIndex("en", nil))
	if got := doc.Find("p.empty").Text(); got != "No posts yet." {
		t.Errorf("empty message = %q", got)
	}
}

func TestPostPage(t *testing.T) {
	post := samplePost("fa", "rtl")
	doc := render(t, testViews().Post(post, []content.Post{samplePost("fa", "rtl")}))

	if got := doc.Find("article h1").Text(); got != "Hello <World>" {
		t.Errorf("title = %q", got)
	}
	if doc.Find(".prose strong").Text() != "bold" {
		t.Error("post HTML not rendered")
	}
	if dir, _ := doc.Find("article").Attr("dir"); dir != "rtl" {
		t.Errorf("article dir = %q, want rtl", dir)
	}
	if href, _ := doc.Find("link[rel=canonical]").Attr("href"); href != "https://example.com/fa/blog/hello-world/" {
		t.Errorf("canonical = %q", href)
	}
	if img, _ := doc.Find("meta[property='og:image']").Attr("content"); img != "https://example.com/public/images/cover.png" {
		t.Errorf("og:image = %q", img)
	}
	if doc.Find(".related li").Length() != 1 {
		t.Error("related posts missing")
	}

	var ld map[string]interface{}
	raw := doc.Find("script[type='application/ld+json']").Text()
	if err := json.Unmarshal([]byte(raw), &ld); err != nil {
		t.Fatalf("JSON-LD: %v", err)
	}
	if ld["@type"] != "BlogPosting" || ld["inLanguage"] != "fa" {
		t.Errorf("JSON-LD = %v", ld)
	}
}

func TestPostDropsUnsafeCover(t *testing.T) {
	post := samplePost("en", "ltr")
	post.CoverImage = "javascript:alert(1)"
	doc := render(t, testViews().Post(post, nil))
	if doc.Find("img.cover").Length() != 0 {
		t.Error("unsafe cover image should not render")
	}
}

func TestNotFoundAndServerError(t *testing.T) {
	v := testViews()
	doc := render(t, v.NotFound("en"))
	if got := doc.Find(".message h1").Text(); got != "Page not found" {
		t.Errorf("404 heading = %q", got)
	}
	doc = render(t, v.ServerError("de"))
	if got, _ := doc.Find(".message").Attr("data-status"); got != "500" {
		t.Errorf("500 status attr = %q", got)
	}
}

func TestRedirect(t *testing.T) {
	doc := render(t, testViews().Redirect("/en/"))
	refresh, _ := doc.Find("meta[http-equiv=refresh]").Attr("content")
	if refresh != "0; url=/en/" {
		t.Errorf("refresh = %q", refresh)
	}
	doc = render(t, testViews().Redirect("javascript:alert(1)"))
	refresh, _ = doc.Find("meta[http-equiv=refresh]").Attr("content")
	if !strings.HasSuffix(refresh, "url=/") {
		t.Errorf("unsafe target not replaced: %q", refresh)
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", []string{"en", "blog", "hi"}, "https://example.com/en/blog/hi/"},
		{"https://example.com/", nil, "https://example.com/"},
		{"https://example.com/site", []string{"fa"}, "https://example.com/site/fa/"},
	}
	for _, tt := range tests {
		if got := buildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("buildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestBlogAll(t *testing.T) {
	posts := []content.Post{samplePost("en", "ltr"), samplePost("fa", "rtl"), samplePost("de", "ltr")}
	doc := render(t, testViews().BlogAll("de", posts))

	if got := doc.Find("main h1").Text(); got != "Alle Beiträge" {
		t.Errorf("heading = %q", got)
	}
	if href, _ := doc.Find("link[rel=canonical]").Attr("href"); href != "https://example.com/blog/" {
		t.Errorf("canonical = %q", href)
	}
	badges := doc.Find(".posts .lang-badge")
	if badges.Length() != 3 {
		t.Fatalf("badges = %d, want 3", badges.Length())
	}
	if got := badges.Eq(1).Text(); got != "fa" {
		t.Errorf("second badge = %q, want fa", got)
	}
	if dir, _ := doc.Find(".posts li").Eq(1).Attr("dir"); dir != "rtl" {
		t.Errorf("fa card dir = %q, want rtl", dir)
	}
	current := doc.Find(".blog-filter a[aria-current]")
	if href, _ := current.Attr("href"); current.Length() != 1 || href != "/blog/" {
		t.Errorf("current filter = %q", href)
	}
	if doc.Find(".blog-filter a").Length() != 4 {
		t.Errorf("filter links = %d, want 4", doc.Find(".blog-filter a").Length())
	}
}

func TestBlogIndexFilterMarksLanguage(t *testing.T) {
	doc := render(t, testViews().BlogIndex("fa", []content.Post{samplePost("fa", "rtl")}))
	if href, _ := doc.Find(".blog-filter a[aria-current]").Attr("href"); href != "/fa/blog/" {
		t.Errorf("current filter = %q, want /fa/blog/", href)
	}
	if doc.Find(".lang-badge").Length() != 0 {
		t.Error("a single-language index should not show badges")
	}
}

func sampleProfile() content.Profile {
	return content.Profile{
		Lang:     "en",
		Name:     "Ada <Lovelace>",
		Headline: "Engineer",
		Photo:    "/public/images/me.jpg",
		Email:    "ada@example.com",
		Summary:  "Writes **programs**.\n\n<script>alert(1)</script>",
		Skills: []content.SkillGroup{
			{Category: "Languages", Tools: []string{"Go", "SQL"}},
		},
		Experience: []content.Experience{
			{Title: "Analyst", Company: "Engines Ltd", Duration: "1842-1843", Description: "Notes."},
		},
		Education: []string{"Home schooling"},
		Social: []content.Link{
			{Label: "GitHub", URL: "https://github.com/ada"},
			{Label: "Bad", URL: "javascript:alert(1)"},
		},
	}
}

func TestAbout(t *testing.T) {
	doc := render(t, testViews().About("en", sampleProfile()))

	if got := doc.Find(".about h1").Text(); got != "Ada <Lovelace>" {
		t.Errorf("name = %q", got)
	}
	if _, ok := doc.Find("article.about").Attr("lang"); ok {
		t.Error("a profile in the page language needs no lang override")
	}
	if doc.Find(".summary .prose strong").Text() != "programs" {
		t.Error("summary markdown not rendered")
	}
	if doc.Find(".summary script").Length() != 0 {
		t.Error("summary HTML must be sanitized")
	}
	if got := doc.Find(".skills dd").Text(); got != "Go, SQL" {
		t.Errorf("skills = %q", got)
	}
	if got := doc.Find(".experience .duration").Text(); got != "1842-1843" {
		t.Errorf("duration = %q", got)
	}
	if doc.Find(".education li").Length() != 1 {
		t.Error("education missing")
	}
	if href, _ := doc.Find("address a").Attr("href"); href != "mailto:ada@example.com" {
		t.Errorf("email link = %q", href)
	}
	social := doc.Find(".social a")
	if social.Length() != 1 {
		t.Fatalf("social links = %d, want 1", social.Length())
	}
	if rel, _ := social.Attr("rel"); rel != "me noopener" {
		t.Errorf("social rel = %q", rel)
	}
	if src, _ := doc.Find("img.photo").Attr("src"); src != "/public/images/me.jpg" {
		t.Errorf("photo = %q", src)
	}

	var ld map[string]interface{}
	if err := json.Unmarshal([]byte(doc.Find("script[type='application/ld+json']").Text()), &ld); err != nil {
		t.Fatalf("JSON-LD: %v", err)
	}
	person, _ := ld["mainEntity"].(map[string]interface{})
	if ld["@type"] != "ProfilePage" || person["name"] != "Ada <Lovelace>" {
		t.Errorf("JSON-LD = %v", ld)
	}
}

func TestAboutFallbackLanguage(t *testing.T) {
	p := sampleProfile()
	p.Photo = "javascript:alert(1)"
	doc := render(t, testViews().About("fa", p))
	about := doc.Find("article.about")
	if lang, _ := about.Attr("lang"); lang != "en" {
		t.Errorf("fallback profile lang = %q, want en", lang)
	}
	if dir, _ := about.Attr("dir"); dir != "ltr" {
		t.Errorf("fallback profile dir = %q, want ltr", dir)
	}
	if got := doc.Find(".skills h2").Text(); got != "مهارت‌ها" {
		t.Errorf("section heading = %q, want the page language", got)
	}
	if doc.Find("img.photo").Length() != 0 {
		t.Error("unsafe photo should not render")
	}
}

func TestAboutMinimal(t *testing.T) {
	doc := render(t, testViews().About("en", content.Profile{Name: "Ada"}))
	if doc.Find(".about section").Length() != 0 {
		t.Error("empty profile sections should be omitted")
	}
	if doc.Find("address").Length() != 0 {
		t.Error("no address without contact data")
	}
}

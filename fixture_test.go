package folio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/i18n"
	"github.com/eringen/folio/views"
)

// fixturePosts is a small multilingual site. "hello-world" exists in
// English and German so slug resolution has to pick a translation.
var fixturePosts = map[string]string{
	"en/hello-world.md": `---
title: Hello World
date: 2024-01-01
excerpt: First post
coverImage: /public/images/cover.png
tags: [go, web]
---
Hello **world**.
`,
	"en/second.md": `---
title: Second Post
date: 2024-02-01
tags: [go]
---
Second body.
`,
	"de/hallo.md": `---
title: Hallo Welt
slug: hello-world
date: 2024-01-02
---
Hallo **Welt**.
`,
	"fa/salam.md": `---
title: سلام دنیا
date: 2024-01-03
---
سلام **دنیا**.
`,
	"en/draft.md": `---
title: Unfinished
date: 2024-03-01
draft: true
---
Not yet.
`,
}

// fixtureProfiles has no German profile, so /de/about/ falls back to English.
var fixtureProfiles = map[string]string{
	"en.yaml": `name: Ada
headline: Engineer
summary: Writes **programs**.
skills:
  - category: Languages
    tools: [Go, SQL]
`,
	"fa.yaml": `name: آدا
headline: مهندس
`,
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// testSite lays out a site in a temp dir and returns its config.
func testSite(t *testing.T) SiteConfig {
	t.Helper()
	root := t.TempDir()
	cfg := SiteConfig{
		Name:          "Portfolio",
		URL:           "https://example.com",
		Description:   "Notes",
		Author:        "Ada",
		ContentDir:    filepath.Join(root, "content"),
		AboutDir:      filepath.Join(root, "about"),
		StaticDir:     filepath.Join(root, "public"),
		OutputDir:     filepath.Join(root, "out"),
		DefaultLocale: "en",
		Locales:       []string{"en", "fa", "de"},
		BuildWorkers:  2,
		CoverWidth:    40,
		DatabasePath:  filepath.Join(root, "data", "folio.db"),
		CoversDir:     filepath.Join(root, "data", "covers"),
		SessionSecret: "test-secret-test-secret-test-sec",
	}
	writeFiles(t, cfg.ContentDir, fixturePosts)
	writeFiles(t, cfg.AboutDir, fixtureProfiles)
	writePNG(t, filepath.Join(cfg.StaticDir, "images", "cover.png"), 120, 60)
	return cfg
}

// helloCover is the thumbnail name of the en/hello-world cover.
func helloCover(cfg SiteConfig) string {
	p := content.Post{Lang: "en", Slug: "hello-world", CoverImage: "/public/images/cover.png"}
	return coverName(p, cfg.CoverWidth)
}

func testViews(cfg SiteConfig) ViewFuncs {
	locales := i18n.MustNewSet(cfg.DefaultLocale, cfg.Locales...)
	v := views.New(views.SiteConfig{
		Name:        cfg.Name,
		URL:         cfg.URL,
		Description: cfg.Description,
		Author:      cfg.Author,
	}, locales)
	return ViewFuncs{
		Home:        v.Home,
		BlogIndex:   v.BlogIndex,
		BlogAll:     v.BlogAll,
		About:       v.About,
		Post:        v.Post,
		NotFound:    v.NotFound,
		ServerError: v.ServerError,
		Redirect:    v.Redirect,
	}
}

// quietLogger satisfies Logger and drops everything.
type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Infof(string, ...interface{})  {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}

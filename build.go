package folio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/i18n"
)

// Builder renders the whole site to static files.
type Builder struct {
	Config   SiteConfig
	Views    ViewFuncs
	Locales  *i18n.Set
	Repo     *content.Repository
	Profiles *content.Profiles
	Logger   Logger
}

// Report summarizes a finished build.
type Report struct {
	Posts    int
	Pages    int
	Covers   int
	Duration time.Duration
}

// NewBuilder creates a Builder for cfg. A nil logger uses gommon.
func NewBuilder(cfg SiteConfig, views ViewFuncs, logger Logger) (*Builder, error) {
	cfg.setDefaults()
	if err := views.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = defaultLogger()
	}
	locales, repo, err := newContent(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("folio: %w", err)
	}
	return &Builder{
		Config:   cfg,
		Views:    views,
		Locales:  locales,
		Repo:     repo,
		Profiles: content.NewProfiles(os.DirFS(cfg.AboutDir), locales),
		Logger:   logger,
	}, nil
}

// Build writes the site into Config.OutputDir, replacing whatever was
// there. A duplicate slug or a failed render aborts the build before the
// output directory is touched.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	start := time.Now()
	var report Report

	posts, err := b.Repo.ListPosts(ctx)
	if err != nil {
		return report, err
	}
	rendered, err := renderPosts(ctx, b.Repo, posts, b.Config.BuildWorkers)
	if err != nil {
		return report, err
	}
	report.Posts = len(rendered)

	out, err := cleanOutputDir(b.Config.OutputDir, b.Config.ContentDir, b.Config.StaticDir,
		b.Config.AboutDir, filepath.Dir(b.Config.DatabasePath))
	if err != nil {
		return report, err
	}
	if err := copyAssets(filepath.Join(out, "public"), b.Config.StaticDir); err != nil {
		return report, err
	}
	rendered, report.Covers, err = processCovers(ctx, b.Config.StaticDir, filepath.Join(out, "covers"),
		rendered, b.Config.CoverWidth, b.Config.BuildWorkers, b.Logger)
	if err != nil {
		return report, err
	}

	w := &siteWriter{ctx: ctx, root: out}
	if err := b.writePages(ctx, w, rendered); err != nil {
		return report, err
	}
	report.Pages = int(w.pages.Load())
	report.Duration = time.Since(start)
	b.Logger.Infof("built %d posts, %d pages, %d covers into %s in %s",
		report.Posts, report.Pages, report.Covers, out, report.Duration.Round(time.Millisecond))
	return report, nil
}

func (b *Builder) writePages(ctx context.Context, w *siteWriter, posts []content.Post) error {
	def := b.Locales.Default().Code
	all := listing(posts)

	if err := w.page("index.html", b.Views.Redirect("/"+def+"/")); err != nil {
		return err
	}
	if err := w.page("404.html", b.Views.NotFound(def)); err != nil {
		return err
	}
	if err := w.page(filepath.Join("blog", "index.html"), b.Views.BlogAll(def, all)); err != nil {
		return err
	}
	if err := w.file("sitemap.xml", func(f io.Writer) error {
		return writeSitemap(f, b.Config.URL, b.Locales.Codes(), posts)
	}); err != nil {
		return err
	}

	for _, l := range b.Locales.Codes() {
		langPosts := filterLang(all, l)
		if err := w.page(filepath.Join(l, "index.html"), b.Views.Home(l, langPosts)); err != nil {
			return err
		}
		if err := w.page(filepath.Join(l, "blog", "index.html"), b.Views.BlogIndex(l, langPosts)); err != nil {
			return err
		}
		profile, err := profileFor(b.Profiles, b.Config, l)
		if err != nil {
			return err
		}
		if err := w.page(filepath.Join(l, "about", "index.html"), b.Views.About(l, profile)); err != nil {
			return err
		}
		if err := w.file(filepath.Join(l, "feed.xml"), func(f io.Writer) error {
			return writeFeed(f, b.Config, l, langPosts)
		}); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Config.BuildWorkers)
	for _, p := range posts {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page := b.Views.Post(p, FilterRelatedPosts(p, all))
			return w.page(filepath.Join(p.Lang, "blog", p.Slug, "index.html"), page)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Language-less post URLs redirect to the preferred translation.
	for _, p := range content.PreferredTranslations(posts, b.Locales) {
		if err := w.page(filepath.Join("blog", p.Slug, "index.html"), b.Views.Redirect(p.Path())); err != nil {
			return err
		}
	}
	return nil
}

// renderPosts renders every post body with at most workers goroutines. The
// result keeps the input order.
func renderPosts(ctx context.Context, repo *content.Repository, posts []content.Post, workers int) ([]content.Post, error) {
	out := make([]content.Post, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, p := range posts {
		i, p := i, p
		g.Go(func() error {
			r, err := repo.Render(gctx, p)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// cleanOutputDir empties dir. It refuses the filesystem root, any directory
// holding the working directory, and any directory that overlaps one of
// sources, so a build never deletes its own input.
func cleanOutputDir(dir string, sources ...string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	wd, _ := os.Getwd()
	if abs == filepath.Dir(abs) || (wd != "" && within(abs, wd)) {
		return "", fmt.Errorf("folio: refusing to clean output directory %q", dir)
	}
	for _, src := range sources {
		if src == "" {
			continue
		}
		srcAbs, err := filepath.Abs(src)
		if err != nil {
			return "", err
		}
		if within(abs, srcAbs) || within(srcAbs, abs) {
			return "", fmt.Errorf("folio: output directory %q overlaps %q", dir, src)
		}
	}
	if err := os.RemoveAll(abs); err != nil {
		return "", fmt.Errorf("folio: clean output: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", err
	}
	return abs, nil
}

// within reports whether path is dir or lies below it. Both must be
// absolute and clean.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// copyAssets copies the embedded assets and then the site's static
// directory into dst, so site files override embedded ones.
func copyAssets(dst, staticDir string) error {
	embedded, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return err
	}
	if err := copyFS(dst, embedded); err != nil {
		return fmt.Errorf("folio: copy embedded assets: %w", err)
	}
	if err := copyFS(dst, os.DirFS(staticDir)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("folio: copy static dir: %w", err)
	}
	return nil
}

func copyFS(dst string, fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		in, err := fsys.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	})
}

// siteWriter writes build output below root.
type siteWriter struct {
	ctx   context.Context
	root  string
	pages atomic.Int64
}

type renderer interface {
	Render(ctx context.Context, w io.Writer) error
}

func (s *siteWriter) page(rel string, c renderer) error {
	if err := s.file(rel, func(w io.Writer) error { return c.Render(s.ctx, w) }); err != nil {
		return err
	}
	s.pages.Add(1)
	return nil
}

func (s *siteWriter) file(rel string, write func(io.Writer) error) error {
	path := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return fmt.Errorf("folio: write %s: %w", rel, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

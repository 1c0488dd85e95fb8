package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/labstack/gommon/log"

	"github.com/eringen/folio/i18n"
	"github.com/eringen/folio/markdown"
)

// Slug sources.
const (
	SlugFromTitle    = "title"
	SlugFromFilename = "filename"
)

// excerptLength is the rune limit for excerpts derived from the body.
const excerptLength = 200

// Renderer converts a markdown body to sanitized HTML.
type Renderer interface {
	Render(src []byte) (template.HTML, error)
}

// Logger receives per-file diagnostics. *log.Logger from gommon and
// echo.Logger both satisfy it.
type Logger interface {
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// Options configures a Repository.
type Options struct {
	Locales       *i18n.Set
	SlugSource    string // SlugFromTitle (default) or SlugFromFilename
	DefaultCover  string // cover image used when frontmatter has none
	IncludeDrafts bool
	Renderer      Renderer
	Logger        Logger
}

// Repository gives read-only access to the posts stored in an fs.FS.
// Every call re-reads the files; it holds no mutable state and is safe for
// concurrent use.
type Repository struct {
	fsys fs.FS
	opts Options
}

// New creates a Repository over fsys. A nil Locales defaults to en/fa/de,
// a nil Renderer to markdown.New and a nil Logger to a gommon logger.
func New(fsys fs.FS, opts Options) *Repository {
	if opts.Locales == nil {
		opts.Locales = i18n.MustNewSet("en", "fa", "de")
	}
	if opts.SlugSource == "" {
		opts.SlugSource = SlugFromTitle
	}
	if opts.Renderer == nil {
		opts.Renderer = markdown.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.New("content")
	}
	return &Repository{fsys: fsys, opts: opts}
}

// ListPosts returns every valid post sorted by date, newest first. Posts
// with equal dates keep their directory-scan order. Files that cannot be
// parsed or lack a title or date are skipped with a warning. A missing
// content directory yields an empty list. Two files resolving to the same
// language and slug fail the whole listing with *DuplicateSlugError.
func (r *Repository) ListPosts(ctx context.Context) ([]Post, error) {
	posts, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(posts))
	for _, p := range posts {
		if first, dup := seen[p.Key()]; dup {
			return nil, &DuplicateSlugError{Lang: p.Lang, Slug: p.Slug, First: first, Second: p.SourcePath}
		}
		seen[p.Key()] = p.SourcePath
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Published.After(posts[j].Published)
	})
	return posts, nil
}

// ListByLang returns ListPosts restricted to one language.
func (r *Repository) ListByLang(ctx context.Context, lang string) ([]Post, error) {
	posts, err := r.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Lang == lang {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetPostBySlug returns the post with the given slug, rendered. If the slug
// exists in several languages PreferredTranslation decides. It returns
// ErrNotFound when nothing matches.
func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	if strings.TrimSpace(slug) == "" {
		return Post{}, ErrNotFound
	}
	posts, err := r.ListPosts(ctx)
	if err != nil {
		return Post{}, err
	}
	var translations []Post
	for _, p := range posts {
		if p.Slug == slug {
			translations = append(translations, p)
		}
	}
	best, ok := PreferredTranslation(translations, r.opts.Locales)
	if !ok {
		return Post{}, ErrNotFound
	}
	return r.Render(ctx, best)
}

// GetPost returns the rendered post for a language and slug.
func (r *Repository) GetPost(ctx context.Context, lang, slug string) (Post, error) {
	if strings.TrimSpace(slug) == "" {
		return Post{}, ErrNotFound
	}
	posts, err := r.ListPosts(ctx)
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Lang == lang && p.Slug == slug {
			return r.Render(ctx, p)
		}
	}
	return Post{}, ErrNotFound
}

// Render fills in HTML, and Excerpt when the frontmatter had none.
func (r *Repository) Render(ctx context.Context, p Post) (Post, error) {
	if err := ctx.Err(); err != nil {
		return Post{}, err
	}
	out, err := r.opts.Renderer.Render([]byte(p.Body))
	if err != nil {
		return Post{}, fmt.Errorf("content: render %s: %w", p.SourcePath, err)
	}
	p.HTML = out
	if p.Excerpt == "" {
		p.Excerpt = markdown.Excerpt(out, excerptLength)
	}
	return p, nil
}

// scan walks the FS in lexical order and parses every markdown file.
func (r *Repository) scan(ctx context.Context) ([]Post, error) {
	var posts []Post
	err := fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." && errors.Is(err, fs.ErrNotExist) {
				r.opts.Logger.Debugf("content directory does not exist, no posts")
				return fs.SkipAll
			}
			r.opts.Logger.Warnf("skipping %s: %v", p, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if p != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdown(name) {
			return nil
		}
		post, err := r.parseFile(p)
		if err != nil {
			r.opts.Logger.Warnf("skipping %v", err)
			return nil
		}
		if post.Draft && !r.opts.IncludeDrafts {
			r.opts.Logger.Debugf("skipping draft %s", p)
			return nil
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

// parseFile reads one post. The returned error is a *ValidationError for
// content problems.
func (r *Repository) parseFile(p string) (Post, error) {
	raw, err := fs.ReadFile(r.fsys, p)
	if err != nil {
		return Post{}, &ValidationError{Path: p, Reason: err.Error()}
	}
	var fm Frontmatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return Post{}, &ValidationError{Path: p, Reason: "invalid frontmatter: " + err.Error()}
	}
	published, err := fm.Validate()
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Path = p
		}
		return Post{}, err
	}

	baseSlug, pathLang := r.splitPath(p)
	lang := r.opts.Locales.Default().Code
	if pathLang != "" {
		lang = pathLang
	}
	if code := strings.ToLower(strings.TrimSpace(fm.Lang)); code != "" {
		if !r.opts.Locales.Supported(code) {
			return Post{}, &ValidationError{Path: p, Field: "lang", Reason: fmt.Sprintf("%q is not a supported locale", fm.Lang)}
		}
		lang = code
	}
	loc, _ := r.opts.Locales.Lookup(lang)

	slug := Slugify(fm.Slug)
	if slug == "" && r.opts.SlugSource == SlugFromTitle {
		slug = Slugify(fm.Title)
	}
	if slug == "" {
		slug = Slugify(baseSlug)
	}
	if slug == "" {
		return Post{}, &ValidationError{Path: p, Field: "slug", Reason: "could not be derived"}
	}

	cover := strings.TrimSpace(fm.CoverImage)
	if cover == "" {
		cover = r.opts.DefaultCover
	}

	return Post{
		Slug:       slug,
		Title:      strings.TrimSpace(fm.Title),
		Date:       strings.TrimSpace(fm.Date),
		Published:  published,
		Lang:       lang,
		Dir:        loc.Dir,
		Excerpt:    strings.TrimSpace(fm.Excerpt),
		CoverImage: cover,
		Tags:       normalizeTags(fm.Tags),
		Draft:      fm.Draft,
		SourcePath: p,
		Body:       string(body),
	}, nil
}

// splitPath extracts the filename slug and a language hint from
// "<lang>/<slug>.md" or "<slug>.<lang>.md".
func (r *Repository) splitPath(p string) (baseSlug, lang string) {
	dir, file := path.Split(p)
	baseSlug = strings.TrimSuffix(file, path.Ext(file))
	if ext := path.Ext(baseSlug); ext != "" && r.opts.Locales.Supported(ext[1:]) {
		lang = strings.ToLower(ext[1:])
		baseSlug = strings.TrimSuffix(baseSlug, ext)
	}
	if dir = strings.Trim(dir, "/"); dir != "" {
		first := strings.SplitN(dir, "/", 2)[0]
		if r.opts.Locales.Supported(first) {
			lang = strings.ToLower(first)
		}
	}
	return baseSlug, lang
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

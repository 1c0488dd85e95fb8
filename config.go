package folio

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/i18n"
)

// SiteConfig holds all configuration for a folio site. The mapstructure
// tags are the keys of folio.yaml and, upper-cased with a FOLIO_ prefix,
// of the environment.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Portfolio")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Author name for JSON-LD

	ContentDir    string   `mapstructure:"contentDir"`    // Markdown posts (default "content/posts")
	AboutDir      string   `mapstructure:"aboutDir"`      // About page data, <lang>.yaml (default "content/about")
	StaticDir     string   `mapstructure:"staticDir"`     // Static assets served under /public (default "public")
	OutputDir     string   `mapstructure:"outputDir"`     // Static build output (default "out")
	DefaultLocale string   `mapstructure:"defaultLocale"` // Default "en"
	Locales       []string `mapstructure:"locales"`       // Enabled locales (default fa, en, de)
	SlugSource    string   `mapstructure:"slugSource"`    // "title" (default) or "filename"
	DefaultCover  string   `mapstructure:"defaultCover"`  // Cover used when a post has none
	IncludeDrafts bool     `mapstructure:"includeDrafts"`
	BuildWorkers  int      `mapstructure:"buildWorkers"` // Concurrent renders (default NumCPU)
	CoverWidth    int      `mapstructure:"coverWidth"`   // Thumbnail width in px (default 800)

	Addr          string        `mapstructure:"addr"`         // Listen address (default ":3000")
	DatabasePath  string        `mapstructure:"databasePath"` // SQLite index (default "data/folio.db")
	CoversDir     string        `mapstructure:"coversDir"`    // Serve-mode thumbnails (default "data/covers")
	SessionSecret string        `mapstructure:"sessionSecret"`
	CookieSecure  bool          `mapstructure:"cookieSecure"` // Set true for HTTPS
	PostCacheTTL  time.Duration `mapstructure:"postCacheTTL"` // Post cache TTL (default 5min)
	Watch         bool          `mapstructure:"watch"`        // Reindex when content changes
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/posts"
	}
	if c.AboutDir == "" {
		c.AboutDir = "content/about"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = "en"
	}
	if len(c.Locales) == 0 {
		c.Locales = []string{"fa", "en", "de"}
	}
	if c.SlugSource == "" {
		c.SlugSource = content.SlugFromTitle
	}
	if c.BuildWorkers <= 0 {
		c.BuildWorkers = runtime.NumCPU()
	}
	if c.CoverWidth <= 0 {
		c.CoverWidth = 800
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.CoversDir == "" {
		c.CoversDir = "data/covers"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// WithDefaults returns a copy of c with every unset field filled in.
func (c SiteConfig) WithDefaults() SiteConfig {
	c.setDefaults()
	return c
}

// Logger is what folio logs through. gommon's *log.Logger and echo.Logger
// both satisfy it.
type Logger interface {
	content.Logger
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

func defaultLogger() Logger {
	l := log.New("folio")
	l.SetLevel(log.INFO)
	return l
}

// newContent builds the locale set and the post repository for cfg.
// cfg must already have its defaults applied.
func newContent(cfg SiteConfig, logger Logger) (*i18n.Set, *content.Repository, error) {
	locales, err := i18n.NewSet(cfg.DefaultLocale, cfg.Locales...)
	if err != nil {
		return nil, nil, err
	}
	repo := content.New(os.DirFS(cfg.ContentDir), content.Options{
		Locales:       locales,
		SlugSource:    cfg.SlugSource,
		DefaultCover:  cfg.DefaultCover,
		IncludeDrafts: cfg.IncludeDrafts,
		Logger:        logger,
	})
	return locales, repo, nil
}

// NewRepository opens the post repository described by cfg, for tools that
// read posts without building or serving the site.
func NewRepository(cfg SiteConfig, logger Logger) (*content.Repository, error) {
	cfg.setDefaults()
	if logger == nil {
		logger = defaultLogger()
	}
	_, repo, err := newContent(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("folio: %w", err)
	}
	return repo, nil
}

// profileFor returns the about page data for lang. Without any profile
// file the page shows the site author and description.
func profileFor(profiles *content.Profiles, cfg SiteConfig, lang string) (content.Profile, error) {
	p, err := profiles.Get(lang)
	if errors.Is(err, content.ErrNotFound) {
		return content.Profile{Lang: cfg.DefaultLocale, Name: cfg.Author, Summary: cfg.Description}, nil
	}
	return p, err
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger replaces the default gommon logger.
func WithLogger(l Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

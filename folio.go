// Package folio is a multilingual portfolio and blog engine built with Go,
// Echo, and templ. Posts are markdown files with YAML frontmatter, grouped
// by language. The same content can be built into a static site or served
// from a SQLite index that follows the content directory.
//
// Sites provide their page components via the ViewFuncs struct; the views
// package ships a default set.
package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/i18n"
)

// ViewFuncs holds the templ components folio calls when rendering pages.
type ViewFuncs struct {
	Home        func(lang string, posts []content.Post) templ.Component
	BlogIndex   func(lang string, posts []content.Post) templ.Component
	BlogAll     func(lang string, posts []content.Post) templ.Component
	About       func(lang string, profile content.Profile) templ.Component
	Post        func(post content.Post, related []content.Post) templ.Component
	NotFound    func(lang string) templ.Component
	ServerError func(lang string) templ.Component
	Redirect    func(target string) templ.Component
}

func (v ViewFuncs) validate() error {
	if v.Home == nil || v.BlogIndex == nil || v.BlogAll == nil || v.About == nil ||
		v.Post == nil || v.NotFound == nil || v.ServerError == nil || v.Redirect == nil {
		return errors.New("folio: every ViewFuncs field must be set")
	}
	return nil
}

// App is the folio server. It wires together the content repository, the
// SQLite index, the cache, handlers, middleware, and the page components.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *PostCache
	Views    ViewFuncs
	Locales  *i18n.Set
	Repo     *content.Repository
	Profiles *content.Profiles
	Indexer  *Indexer
	Logger   Logger

	customRoutes []func(*App)
}

// New creates a folio App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if err := views.validate(); err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Echo.Logger.SetLevel(log.INFO)
		a.Logger = a.Echo.Logger
	} else if el, ok := a.Logger.(echo.Logger); ok {
		a.Echo.Logger = el
	}

	locales, repo, err := newContent(cfg, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("folio: %w", err)
	}
	a.Locales = locales
	a.Repo = repo
	a.Profiles = content.NewProfiles(os.DirFS(cfg.AboutDir), locales)
	return a, nil
}

// Init opens the index, loads the content into it and registers the
// middleware and routes. Start calls it; tests call it directly.
func (a *App) Init(ctx context.Context) error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Locales, a.Config.PostCacheTTL)
	a.Indexer = NewIndexer(a.Config, a.Repo, a.Store, a.Cache, a.Logger)

	if _, err := a.Indexer.Reindex(ctx); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until ctx is cancelled, then shuts
// the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if a.Config.Watch {
		go func() {
			if err := a.Indexer.Watch(ctx, a.Config.ContentDir, a.Config.StaticDir); err != nil {
				a.Logger.Errorf("watch: %v", err)
			}
		}()
	}

	errc := make(chan error, 1)
	go func() {
		if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Site assets shadow the embedded ones of the same name.
	e.GET("/public/*", a.handlePublic)
	e.Static("/covers", a.Config.CoversDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/", a.handleRoot)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/blog/", a.handleBlogAll)
	e.GET("/blog/:slug/", a.handlePostRedirect)

	g := e.Group("/:lang", a.localeMiddleware)
	g.GET("/", a.handleHome)
	g.GET("/blog/", a.handleBlog)
	g.GET("/blog/:slug/", a.handlePost)
	g.GET("/about/", a.handleAbout)
	g.GET("/feed.xml", a.handleFeed)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

package folio

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// handleRoot sends visitors to the locale they chose before, or the best
// match for their Accept-Language header.
func (a *App) handleRoot(c echo.Context) error {
	lang := sessionLocale(c)
	if !a.Locales.Supported(lang) {
		lang = a.Locales.MatchAcceptLanguage(c.Request().Header.Get("Accept-Language")).Code
	}
	return c.Redirect(http.StatusFound, "/"+lang+"/")
}

func (a *App) handleHome(c echo.Context) error {
	lang := c.Param("lang")
	posts, err := a.Cache.ListPosts(c.Request().Context(), lang)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(lang, posts))
}

func (a *App) handleBlog(c echo.Context) error {
	lang := c.Param("lang")
	posts, err := a.Cache.ListPosts(c.Request().Context(), lang)
	if err != nil {
		return err
	}
	return Render(c, a.Views.BlogIndex(lang, posts))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	lang := c.Param("lang")
	post, err := a.Cache.GetPost(ctx, lang, c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(lang))
		}
		return err
	}
	posts, err := a.Cache.ListPosts(ctx, lang)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Post(post, FilterRelatedPosts(post, posts)))
}

// handleBlogAll lists the posts of every language, in the visitor's locale.
func (a *App) handleBlogAll(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return Render(c, a.Views.BlogAll(a.visitorLocale(c), posts))
}

func (a *App) handleAbout(c echo.Context) error {
	lang := c.Param("lang")
	profile, err := profileFor(a.Profiles, a.Config, lang)
	if err != nil {
		return err
	}
	return Render(c, a.Views.About(lang, profile))
}

// handlePostRedirect resolves a slug without a language to its preferred
// translation.
func (a *App) handlePostRedirect(c echo.Context) error {
	post, err := a.Cache.FindBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return c.Redirect(http.StatusMovedPermanently, post.Path())
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return writeSitemap(c.Response(), a.Config.URL, a.Locales.Codes(), posts)
}

func (a *App) handleFeed(c echo.Context) error {
	lang := c.Param("lang")
	posts, err := a.Cache.ListPosts(c.Request().Context(), lang)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return writeFeed(c.Response(), a.Config, lang, posts)
}

// handlePublic serves /public/* from the static directory, falling back to
// the embedded assets.
func (a *App) handlePublic(c echo.Context) error {
	name := path.Clean("/" + c.Param("*"))[1:]
	if name == "" {
		return echo.ErrNotFound
	}
	local := filepath.Join(a.Config.StaticDir, filepath.FromSlash(name))
	if info, err := os.Stat(local); err == nil && info.Mode().IsRegular() {
		return c.File(local)
	}
	return serveEmbedded(c, name)
}

// serveEmbedded writes an embedded asset. Directories are not listed.
func serveEmbedded(c echo.Context, name string) error {
	f, err := EmbeddedAssets.Open(path.Join("embedded", name))
	if err != nil {
		return echo.ErrNotFound
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return echo.ErrNotFound
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		return fmt.Errorf("folio: embedded asset %s is not seekable", name)
	}
	http.ServeContent(c.Response(), c.Request(), info.Name(), info.ModTime(), rs)
	return nil
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "favicon.svg"))
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "robots.txt"))
}

// visitorLocale picks the language for a page outside a locale from the URL,
// falling back to the visitor's preference.
func (a *App) visitorLocale(c echo.Context) string {
	if lang := c.Param("lang"); a.Locales.Supported(lang) {
		return lang
	}
	if lang := sessionLocale(c); a.Locales.Supported(lang) {
		return lang
	}
	return a.Locales.MatchAcceptLanguage(c.Request().Header.Get("Accept-Language")).Code
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if (ok && he.Code == http.StatusNotFound) || errors.Is(err, ErrNotFound) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.visitorLocale(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.visitorLocale(c)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

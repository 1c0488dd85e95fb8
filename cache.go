package folio

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/i18n"
)

// PostCache is an in-memory copy of the post index with TTL. Reads never
// touch SQLite while the copy is fresh.
type PostCache struct {
	mu      sync.RWMutex
	posts   []content.Post
	fetched time.Time
	ttl     time.Duration
	store   *Store
	locales *i18n.Set
}

// NewPostCache creates a PostCache backed by the given Store. locales
// decides which translation wins in FindBySlug.
func NewPostCache(s *Store, locales *i18n.Set, ttl time.Duration) *PostCache {
	return &PostCache{store: s, locales: locales, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts(ctx, "")
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []content.Post{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]content.Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.posts, nil
}

// ListPosts returns the posts of one language, newest first, without their
// rendered bodies. An empty lang lists every language.
func (c *PostCache) ListPosts(ctx context.Context, lang string) ([]content.Post, error) {
	posts, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if lang != "" {
		posts = filterLang(posts, lang)
	}
	return listing(posts), nil
}

// GetPost returns a single post by language and slug.
func (c *PostCache) GetPost(ctx context.Context, lang, slug string) (content.Post, error) {
	posts, err := c.ensureLoaded(ctx)
	if err != nil {
		return content.Post{}, err
	}
	for _, p := range posts {
		if p.Lang == lang && p.Slug == slug {
			return p, nil
		}
	}
	return content.Post{}, ErrNotFound
}

// FindBySlug resolves a slug without a language to its preferred
// translation, reading the index rather than the cached listing.
func (c *PostCache) FindBySlug(ctx context.Context, slug string) (content.Post, error) {
	posts, err := c.store.PostsBySlug(ctx, slug)
	if err != nil {
		return content.Post{}, err
	}
	p, ok := content.PreferredTranslation(posts, c.locales)
	if !ok {
		return content.Post{}, ErrNotFound
	}
	return p, nil
}

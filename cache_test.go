package folio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/i18n"
)

func setupTestCache(t *testing.T, ttl time.Duration, posts ...content.Post) (*PostCache, *Store) {
	t.Helper()
	s := setupTestStore(t)
	if err := s.ReplacePosts(context.Background(), posts); err != nil {
		t.Fatal(err)
	}
	return NewPostCache(s, i18n.MustNewSet("en", "fa", "de"), ttl), s
}

func TestCacheListPostsStripsBodies(t *testing.T) {
	c, _ := setupTestCache(t, time.Minute,
		indexPost("en", "a", "2024-01-02"),
		indexPost("fa", "b", "2024-01-01"),
	)
	posts, err := c.ListPosts(context.Background(), "en")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 || posts[0].Slug != "a" {
		t.Fatalf("ListPosts(en) = %+v", posts)
	}
	if posts[0].HTML != "" {
		t.Error("listing should not carry rendered bodies")
	}
	full, err := c.GetPost(context.Background(), "en", "a")
	if err != nil {
		t.Fatal(err)
	}
	if full.HTML == "" {
		t.Error("GetPost should return the rendered body")
	}
}

func TestCacheServesStaleUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	c, s := setupTestCache(t, time.Hour, indexPost("en", "a", "2024-01-01"))
	if _, err := c.GetPost(ctx, "en", "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplacePosts(ctx, []content.Post{indexPost("en", "b", "2024-01-01")}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetPost(ctx, "en", "a"); err != nil {
		t.Errorf("fresh cache should still serve the old post: %v", err)
	}
	c.Invalidate()
	if _, err := c.GetPost(ctx, "en", "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after Invalidate: err = %v, want ErrNotFound", err)
	}
	if _, err := c.GetPost(ctx, "en", "b"); err != nil {
		t.Errorf("after Invalidate: %v", err)
	}
}

func TestCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, s := setupTestCache(t, time.Nanosecond, indexPost("en", "a", "2024-01-01"))
	if _, err := c.ListPosts(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplacePosts(ctx, nil); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	posts, err := c.ListPosts(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 0 {
		t.Errorf("expired cache returned %d posts, want 0", len(posts))
	}
}

func TestCacheFindBySlug(t *testing.T) {
	c, _ := setupTestCache(t, time.Minute,
		indexPost("de", "hello", "2024-01-03"),
		indexPost("fa", "hello", "2024-01-02"),
		indexPost("fa", "only-fa", "2024-01-01"),
	)
	ctx := context.Background()
	tests := []struct {
		slug string
		lang string
		err  error
	}{
		{"hello", "fa", nil},
		{"only-fa", "fa", nil},
		{"missing", "", ErrNotFound},
	}
	for _, tt := range tests {
		p, err := c.FindBySlug(ctx, tt.slug)
		if !errors.Is(err, tt.err) {
			t.Errorf("FindBySlug(%q) err = %v, want %v", tt.slug, err, tt.err)
			continue
		}
		if p.Lang != tt.lang {
			t.Errorf("FindBySlug(%q) lang = %q, want %q", tt.slug, p.Lang, tt.lang)
		}
	}
}

package folio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/folio/content"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = content.ErrNotFound

// Store is the SQLite index the server reads posts from. The markdown
// directory stays the source of truth; the index is rebuilt from it by
// ReplacePosts.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed while a reindex holds the write lock.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    seq INTEGER PRIMARY KEY,
    lang TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    published INTEGER NOT NULL,
    dir TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    cover_image TEXT NOT NULL,
    tags TEXT NOT NULL,
    source_path TEXT NOT NULL,
    html TEXT NOT NULL,
    UNIQUE (lang, slug)
);
CREATE INDEX IF NOT EXISTS posts_slug ON posts (slug);
`)
	return err
}

const postColumns = `lang, slug, title, date, published, dir, excerpt, cover_image, tags, source_path, html`

// ReplacePosts swaps the whole index for posts in one transaction. posts
// must already be sorted; their order is kept as the tie-break for equal
// dates.
func (s *Store) ReplacePosts(ctx context.Context, posts []content.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range posts {
		if _, err := stmt.ExecContext(ctx,
			p.Lang, p.Slug, p.Title, p.Date, p.Published.Unix(), p.Dir, p.Excerpt,
			p.CoverImage, joinTags(p.Tags), p.SourcePath, string(p.HTML),
		); err != nil {
			return fmt.Errorf("index %s: %w", p.SourcePath, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns indexed posts newest first. An empty lang lists every
// language.
func (s *Store) ListPosts(ctx context.Context, lang string) ([]content.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts`
	var args []interface{}
	if lang != "" {
		q += ` WHERE lang = ?`
		args = append(args, lang)
	}
	q += ` ORDER BY published DESC, seq ASC`
	return s.query(ctx, q, args...)
}

// GetPost returns one post by language and slug.
func (s *Store) GetPost(ctx context.Context, lang, slug string) (content.Post, error) {
	posts, err := s.query(ctx, `SELECT `+postColumns+` FROM posts WHERE lang = ? AND slug = ?`, lang, slug)
	if err != nil {
		return content.Post{}, err
	}
	if len(posts) == 0 {
		return content.Post{}, ErrNotFound
	}
	return posts[0], nil
}

// PostsBySlug returns every translation indexed under slug.
func (s *Store) PostsBySlug(ctx context.Context, slug string) ([]content.Post, error) {
	return s.query(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ? ORDER BY seq ASC`, slug)
}

func (s *Store) query(ctx context.Context, q string, args ...interface{}) ([]content.Post, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		var (
			p         content.Post
			published int64
			tags, doc string
		)
		if err := rows.Scan(&p.Lang, &p.Slug, &p.Title, &p.Date, &published, &p.Dir,
			&p.Excerpt, &p.CoverImage, &tags, &p.SourcePath, &doc); err != nil {
			return nil, err
		}
		p.Published = time.Unix(published, 0).UTC()
		p.Tags = ParseTags(tags)
		p.HTML = template.HTML(doc)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

package folio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eringen/folio/content"
)

// Indexer loads the markdown directory into the SQLite index the server
// reads from.
type Indexer struct {
	repo      *content.Repository
	store     *Store
	cache     *PostCache
	logger    Logger
	staticDir string
	coversDir string
	width     int
	workers   int

	mu sync.Mutex
}

// NewIndexer creates an Indexer. cache may be nil.
func NewIndexer(cfg SiteConfig, repo *content.Repository, store *Store, cache *PostCache, logger Logger) *Indexer {
	cfg.setDefaults()
	if logger == nil {
		logger = defaultLogger()
	}
	return &Indexer{
		repo:      repo,
		store:     store,
		cache:     cache,
		logger:    logger,
		staticDir: cfg.StaticDir,
		coversDir: cfg.CoversDir,
		width:     cfg.CoverWidth,
		workers:   cfg.BuildWorkers,
	}
}

// Reindex re-reads every post, renders it and replaces the index. On error
// the previous index stays in place. It returns the number of posts indexed.
func (ix *Indexer) Reindex(ctx context.Context) (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	start := time.Now()
	posts, err := ix.repo.ListPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("folio: reindex: %w", err)
	}
	rendered, err := renderPosts(ctx, ix.repo, posts, ix.workers)
	if err != nil {
		return 0, fmt.Errorf("folio: reindex: %w", err)
	}
	rendered, _, err = processCovers(ctx, ix.staticDir, ix.coversDir, rendered, ix.width, ix.workers, ix.logger)
	if err != nil {
		return 0, fmt.Errorf("folio: reindex: %w", err)
	}
	if err := ix.store.ReplacePosts(ctx, rendered); err != nil {
		return 0, fmt.Errorf("folio: reindex: %w", err)
	}
	if ix.cache != nil {
		ix.cache.Invalidate()
	}
	ix.logger.Infof("indexed %d posts in %s", len(rendered), time.Since(start).Round(time.Millisecond))
	return len(rendered), nil
}

package folio

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 500 * time.Millisecond

// Watch reindexes whenever a file under one of dirs changes, until ctx is
// done. Bursts of events are coalesced into one reindex. Missing
// directories are skipped.
func (ix *Indexer) Watch(ctx context.Context, dirs ...string) error {
	watcher, err := ix.newWatcher(dirs...)
	if err != nil {
		return err
	}
	defer watcher.Close()
	return ix.watchLoop(ctx, watcher)
}

// newWatcher registers every existing directory tree in dirs. Changes made
// after it returns are seen by watchLoop.
func (ix *Indexer) newWatcher(dirs ...string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, root := range dirs {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			ix.logger.Debugf("directory %s not found, not watching", root)
			continue
		}
		addTree(watcher, root, ix.logger)
	}
	return watcher, nil
}

func (ix *Indexer) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			ix.logger.Debugf("change detected: %s (%s)", event.Name, event.Op)
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				addTree(watcher, event.Name, ix.logger)
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if _, err := ix.Reindex(ctx); err != nil {
				ix.logger.Errorf("reindex after change: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ix.logger.Warnf("watcher error: %v", err)
		}
	}
}

// addTree watches root and every directory below it. fsnotify is not
// recursive.
func addTree(w *fsnotify.Watcher, root string, logger Logger) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warnf("walk %s: %v", p, err)
			return nil
		}
		if d.IsDir() {
			if err := w.Add(p); err != nil {
				logger.Warnf("watch %s: %v", p, err)
			}
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

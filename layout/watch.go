package layout

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dasdy/softkbd/model"
)

const reloadDelay = 100 * time.Millisecond

// Watch reloads path every time it changes and passes the new layouts to
// onReload. Files that fail to parse are reported and skipped, the caller
// keeps its previous layouts. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onReload func([]*model.Layout)) error {
	path = ResolvePath(path)

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so the directory is watched.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}

	slog.Info("Watching layout file", "path", abs)

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != abs {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			pending = time.After(reloadDelay)
		case <-pending:
			pending = nil

			layouts, err := Load(abs)
			if err != nil {
				slog.Warn("Layout reload failed", "path", abs, "error", err)

				continue
			}

			onReload(layouts)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Warn("Layout watcher error", "error", err)
		}
	}
}

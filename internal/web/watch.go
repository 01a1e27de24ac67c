package web

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce batches rapid-fire filesystem events (editors write,
// rename and chmod in quick succession) into one reload.
const watchDebounce = 250 * time.Millisecond

// Watch reloads the site whenever the content tree changes, until ctx
// is done. Newly created subdirectories are added to the watch so
// hierarchical keys keep triggering reloads.
func Watch(ctx context.Context, s interface{ Reload() error }, root string, log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	err = addRecursive(watcher, root)
	if err != nil {
		return err
	}

	var timer *time.Timer

	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op.Has(fsnotify.Create) {
				// Ignore the error: the path may already be gone, or be
				// a plain file Add rejects on some platforms.
				_ = addRecursive(watcher, event.Name)
			}

			if timer == nil {
				timer = time.AfterFunc(watchDebounce, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.Warn("watch error", "error", err)

		case <-reload:
			timer = nil

			if err := s.Reload(); err != nil {
				log.Error("reload failed, serving previous content", "error", err)
			}
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return watcher.Add(path)
		}

		return nil
	})
}

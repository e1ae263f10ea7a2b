package schema

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchEvent lists the watched documents that changed during one debounce window,
// sorted and without duplicates.
type WatchEvent struct {
	Paths []string
}

// Watcher monitors STAC documents on disk and reports when they change so they can be
// validated again.
type Watcher struct {
	roots  []string
	logger *slog.Logger
	Ready  chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a Watcher for the given files and directories. Directories are
// watched recursively; for a file, only that file is reported.
func NewWatcher(roots []string, logger *slog.Logger) *Watcher {
	return &Watcher{
		roots:      roots,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch calls callback whenever a relevant change is detected. Bursts of changes are
// collapsed into one call naming every file changed in the burst. Callbacks run on the
// calling goroutine, one at a time. It blocks until ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, callback func(WatchEvent)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	files := map[string]bool{}
	for _, root := range w.roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files[abs] = true
			if err := watcher.Add(filepath.Dir(abs)); err != nil {
				return err
			}
			continue
		}
		if err := w.addRecursive(watcher, abs); err != nil {
			return err
		}
	}

	w.logger.Info("Watching for changes", "roots", w.roots)
	if w.Ready != nil {
		close(w.Ready)
	}

	const debounceDuration = 100 * time.Millisecond
	pending := map[string]struct{}{}
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case err := <-watcher.Errors:
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := w.handleEvent(watcher, event, files)
			if path == "" {
				continue
			}
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(debounceDuration)
			} else {
				timer.Reset(debounceDuration)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			paths := slices.Sorted(maps.Keys(pending))
			clear(pending)
			callback(WatchEvent{Paths: paths})
		}
	}
}

// handleEvent processes a single fsnotify event. New directories are added to the
// watcher. It returns the path when the change is to a document being watched, else "".
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event, files map[string]bool) string {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return ""
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(watcher, event.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return ""
		}
	}

	if filepath.Ext(event.Name) != ".json" {
		return ""
	}
	if len(files) > 0 && !files[event.Name] && !w.underWatchedDir(event.Name, files) {
		return ""
	}
	return event.Name
}

// underWatchedDir reports whether path was picked up by a recursive directory watch
// rather than as the sibling of a single watched file.
func (w *Watcher) underWatchedDir(path string, files map[string]bool) bool {
	for _, root := range w.roots {
		abs, err := filepath.Abs(root)
		if err != nil || files[abs] {
			continue
		}
		if strings.HasPrefix(path, abs+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// addRecursive adds the given path and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

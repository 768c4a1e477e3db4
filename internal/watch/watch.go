// Package watch re-runs a callback whenever one of a set of files changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

const DefaultDebounce = 300 * time.Millisecond

// Watcher watches the parent directories of its files so that editors
// which save by rename are still picked up.
type Watcher struct {
	Debounce time.Duration
	Logger   hclog.Logger

	fsw     *fsnotify.Watcher
	targets map[string]bool
}

// New starts watching files. Empty paths are ignored.
func New(files ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{fsw: fsw, targets: make(map[string]bool)}
	dirs := make(map[string]bool)
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch folder %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run blocks until ctx is done, calling fn once after each burst of
// changes to the watched files has been quiet for the debounce interval.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context)) error {
	logger := w.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.targets[abs] {
				continue
			}
			logger.Debug("change detected", "path", abs, "op", event.Op.String())
			fire = time.After(debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-fire:
			fire = nil
			fn(ctx)
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Package watch re-runs work when files under a site change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/efinstitute/sitegate/internal/logging"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Root is the site root. Dirs are relative to it; missing ones are skipped.
	Root string
	Dirs []string
	// Debounce is how long the tree must be quiet before OnChange runs.
	Debounce time.Duration
	// OnChange receives the changed paths, relative to Root and sorted. It
	// runs on the watch loop, so changes made while it runs are batched into
	// the next call.
	OnChange func(ctx context.Context, paths []string)
	Logger   *zap.Logger
}

// Watcher watches a fixed set of directories (not recursively).
type Watcher struct {
	opts    Options
	watcher *fsnotify.Watcher
	dirs    []string
}

// New creates the fsnotify watcher and adds every existing directory.
func New(opts Options) (*Watcher, error) {
	if opts.OnChange == nil {
		return nil, errors.New("watch: OnChange is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	opts.Logger = logging.OrNop(opts.Logger)
	if len(opts.Dirs) == 0 {
		opts.Dirs = []string{"."}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{opts: opts, watcher: fw}
	for _, rel := range opts.Dirs {
		dir := filepath.Join(opts.Root, filepath.FromSlash(rel))
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			opts.Logger.Debug("skipping watch directory", zap.String("dir", dir))
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.dirs = append(w.dirs, filepath.Clean(dir))
	}
	if len(w.dirs) == 0 {
		fw.Close()
		return nil, fmt.Errorf("watch: none of %s exist under %s", strings.Join(opts.Dirs, ", "), opts.Root)
	}
	return w, nil
}

// Dirs returns the absolute directories being watched.
func (w *Watcher) Dirs() []string {
	return append([]string(nil), w.dirs...)
}

// Run delivers debounced changes to OnChange until ctx is cancelled. It
// closes the underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			rel := w.rel(event.Name)
			w.opts.Logger.Debug("file changed", zap.String("path", rel), zap.String("op", event.Op.String()))
			pending[rel] = true
			timer.Reset(w.opts.Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Warn("file watcher error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			w.opts.OnChange(ctx, paths)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return !Ignored(w.rel(event.Name))
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.opts.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// Ignored reports whether a changed path should not trigger a run: dotfiles
// and anything under a dot directory (.git, .sitegate), plus editor backup
// and swap files.
func Ignored(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	base := filepath.Base(rel)
	return strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".tmp")
}

package cli

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/rewriter"
)

// Watcher re-expands source files as they are saved. Events are debounced
// per file so an editor's burst of writes triggers a single rewrite.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	generator   *Generator
	debounceDur time.Duration
	pending     map[string]time.Time
	dirs        map[string]bool

	// OnProcessed is called after every rewrite attempt, from the Run goroutine
	OnProcessed func(path string, result *rewriter.Result, err error)
}

// NewWatcher creates a watcher that rewrites files through generator
func NewWatcher(generator *Generator, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to create file watcher", err)
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	return &Watcher{
		watcher:     watcher,
		generator:   generator,
		debounceDur: debounce,
		pending:     make(map[string]time.Time),
		dirs:        make(map[string]bool),
	}, nil
}

// Add starts watching every directory below paths
func (w *Watcher) Add(paths []string) error {
	dirs, err := w.generator.Scanner().Directories(paths)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := w.addDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// WatchedDirs returns the number of directories being watched
func (w *Watcher) WatchedDirs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}

func (w *Watcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return errors.WrapFileSystemError("watch", dir, err)
	}
	w.dirs[dir] = true
	w.generator.logger.Debug("watching directory", zap.String("dir", dir))
	return nil
}

// Run processes events until ctx is cancelled, then closes the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	tick := max(w.debounceDur/4, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.generator.logger.Warn("watcher error", zap.Error(err))

		case now := <-ticker.C:
			for _, path := range w.due(now) {
				w.process(path)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.Add([]string{event.Name + "/..."}); err != nil {
				w.generator.logger.Warn("cannot watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.generator.Scanner().Matches(event.Name) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// due removes and returns the files whose last event is older than the debounce window
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounceDur {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

func (w *Watcher) process(path string) {
	w.generator.Invalidate(path)
	result, err := w.generator.ProcessFile(path, ModeWrite)

	reporter := w.generator.reporter
	switch {
	case err != nil:
		reporter.ReportError(err)
	default:
		reporter.ReportResult(path, result)
		if result.Changed {
			reporter.Diagnostics().FileChanged(path, len(result.Expansions))
		}
	}

	if w.OnProcessed != nil {
		w.OnProcessed(path, result, err)
	}
}

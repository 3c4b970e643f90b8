// Package watcher reports debounced file system changes under a project
// directory, driving watch mode.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/specialistvlad/recipego/internal/ctxlog"
)

// Watcher monitors a directory tree and signals when files in it change.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}

	mu          sync.Mutex
	paused      bool
	ignoreUntil time.Time
}

// Config holds watcher configuration options.
type Config struct {
	// Root is the directory watched, including its non-hidden subdirectories.
	Root        string
	DebounceDur time.Duration
}

// DefaultConfig returns the defaults for watching root.
func DefaultConfig(root string) Config {
	return Config{
		Root:        root,
		DebounceDur: 200 * time.Millisecond,
	}
}

// New creates a new watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		root:      cfg.Root,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. The returned channel receives one value per burst
// of changes; bursts closer together than the debounce interval coalesce.
func (w *Watcher) Start(ctx context.Context) (<-chan struct{}, error) {
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go w.loop(ctx)

	return w.onChange, nil
}

// Pause drops changes until Resume. Watch mode pauses while a run is in
// progress so files written by the run itself do not trigger the next one.
func (w *Watcher) Pause() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paused = true
}

// Resume starts reporting changes again. Events arriving within one debounce
// interval are still dropped, as are signals queued before the call.
func (w *Watcher) Resume() {
	w.mu.Lock()
	w.paused = false
	w.ignoreUntil = time.Now().Add(w.debounce)
	w.mu.Unlock()

	select {
	case <-w.onChange:
	default:
	}
}

func (w *Watcher) muted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paused || time.Now().Before(w.ignoreUntil)
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		var fire <-chan time.Time
		if timer != nil {
			fire = timer.C
		}

		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !isRelevantEvent(event) {
				continue
			}
			w.followNewDirectory(event)
			if w.muted() {
				logger.Debug("Ignoring change while paused.", "path", event.Name)
				continue
			}
			logger.Debug("File change detected.", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-fire:
			if pending && !w.muted() {
				// Drop the signal when one is already queued.
				select {
				case w.onChange <- struct{}{}:
				default:
				}
			}
			pending = false

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error.", "error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// followNewDirectory adds directories created after Start to the watch list.
func (w *Watcher) followNewDirectory(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) || isHidden(filepath.Base(event.Name)) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	_ = w.fsWatcher.Add(event.Name)
}

// isRelevantEvent ignores chmod-only events, hidden files and editor
// scratch files.
func isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	if isHidden(base) {
		return false
	}
	return !strings.HasSuffix(base, "~") && !strings.HasSuffix(base, ".swp") && !strings.HasSuffix(base, ".tmp")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Package watcher provides file system watching with debouncing for unit sources.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors source directories for changes and sends debounced
// batches of changed paths.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	dirs       []string
	extensions map[string]struct{}
	debounce   time.Duration
	onChange   chan []string
	done       chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Dirs are the source directories to watch, including subdirectories.
	Dirs []string

	// Extensions filters events to files with these extensions (with dot).
	Extensions []string

	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(dirs ...string) Config {
	return Config{
		Dirs:        dirs,
		Extensions:  []string{".js"},
		DebounceDur: 250 * time.Millisecond,
	}
}

// New creates a new source watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	extensions := make(map[string]struct{}, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		extensions[ext] = struct{}{}
	}

	return &Watcher{
		fsWatcher:  fsw,
		dirs:       cfg.Dirs,
		extensions: extensions,
		debounce:   cfg.DebounceDur,
		onChange:   make(chan []string, 1),
		done:       make(chan struct{}),
	}, nil
}

// Start begins watching the source directories and their subdirectories.
// Returns a channel that receives batches of changed paths.
func (w *Watcher) Start() (<-chan []string, error) {
	for _, dir := range w.dirs {
		if err := w.addRecursive(dir); err != nil {
			return nil, err
		}
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// addRecursive watches dir and every subdirectory beneath it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		return nil
	})
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending []string
		seen    = make(map[string]struct{})
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			// New subdirectories get added to the watch list
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
					continue
				}
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			if _, dup := seen[event.Name]; !dup {
				seen[event.Name] = struct{}{}
				pending = append(pending, event.Name)
			}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if len(pending) > 0 {
				batch := pending
				pending = nil
				seen = make(map[string]struct{})

				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- batch:
				default:
				}
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Callers can wrap the watcher if they need error visibility.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a rebuild.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	if len(w.extensions) == 0 {
		return true
	}
	_, ok := w.extensions[filepath.Ext(event.Name)]
	return ok
}

// Package watch triggers a callback when the configuration, layouts or
// static files of a link page change on disk.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors filesystem paths for changes and invokes a callback
// once changes have settled for the debounce duration.
//
// A file is watched through its parent directory so that editors which
// save by renaming a temporary file over it are still seen; events for
// other files in that directory are ignored. Directories are watched
// recursively.
type Watcher struct {
	paths    []string
	onChange func()
	debounce time.Duration
	log      *zap.Logger

	watcher *fsnotify.Watcher
	files   map[string]bool // watched files
	dirs    map[string]bool // recursively watched directories
	ready   chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher creates a Watcher for paths. A nil log discards output.
func NewWatcher(paths []string, debounce time.Duration, log *zap.Logger, onChange func()) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: debounce,
		log:      log,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Ready is closed once every path has been registered.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Start begins watching. It blocks until Stop is called or the underlying
// watcher fails to start.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fsw

	for _, p := range w.paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			w.log.Warn("cannot resolve watch path", zap.String("path", p), zap.Error(err))
			continue
		}
		info, err := os.Stat(abs)
		switch {
		case err == nil && info.IsDir():
			w.dirs[abs] = true
			if err := w.addRecursive(abs); err != nil {
				w.log.Warn("failed to watch directory", zap.String("path", abs), zap.Error(err))
			}
		default:
			// Missing files are watched too; creating one is a change.
			w.files[abs] = true
			if err := fsw.Add(filepath.Dir(abs)); err != nil {
				w.log.Warn("failed to watch file", zap.String("path", abs), zap.Error(err))
			}
		}
	}
	close(w.ready)

	var timer *time.Timer
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("change detected", zap.String("path", event.Name), zap.Stringer("op", event.Op))

			if event.Op&fsnotify.Create != 0 && w.inWatchedDir(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.onChange)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return fsw.Close()
		}
	}
}

// Stop signals the watcher to stop monitoring files.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.done)
	})
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return w.files[filepath.Clean(event.Name)] || w.inWatchedDir(event.Name)
}

func (w *Watcher) inWatchedDir(name string) bool {
	for dir := range w.dirs {
		rel, err := filepath.Rel(dir, name)
		if err == nil && filepath.IsLocal(rel) {
			return true
		}
	}
	return false
}

// addRecursive adds a directory and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return err
			}
		}
		return nil
	})
}

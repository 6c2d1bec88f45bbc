// Package watcher relays external changes to open files onto the event bus.
// It wraps fsnotify, debounces the event bursts editors produce on save,
// and suppresses the echo of the editor's own atomic writes.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/turnip-editor/turnip/internal/event"
)

// DefaultDebounce coalesces event bursts within this window.
const DefaultDebounce = 200 * time.Millisecond

// suppressWindow is how long after SuppressNext the watcher ignores events
// for a path. Long enough to cover a temp-write-rename save sequence.
const suppressWindow = 2 * time.Second

// Watcher watches the files currently open in the editor. Parent
// directories are watched rather than the files themselves because an
// atomic save replaces the inode and would silently detach a file watch.
type Watcher struct {
	fsw      *fsnotify.Watcher
	bus      *event.Bus
	debounce time.Duration

	mu         sync.Mutex
	files      map[string]bool      // watched file paths (absolute)
	dirs       map[string]int       // watched parent dirs, refcounted
	suppressed map[string]time.Time // self-save suppression deadlines

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a watcher publishing file.changed and file.removed events on
// bus. A non-positive debounce falls back to DefaultDebounce.
func New(bus *event.Bus, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fsw:        fsw,
		bus:        bus,
		debounce:   debounce,
		files:      make(map[string]bool),
		dirs:       make(map[string]int),
		suppressed: make(map[string]time.Time),
		stopCh:     make(chan struct{}),
	}, nil
}

// Start begins delivering events. Call once, after the first Watch.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop shuts the watcher down and releases its OS resources.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.fsw.Close()
	})
}

// Watch starts watching the file at path for external changes.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[abs] {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Unwatch stops watching path. Unknown paths are ignored.
func (w *Watcher) Unwatch(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[abs] {
		return
	}
	delete(w.files, abs)
	delete(w.suppressed, abs)

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.fsw.Remove(dir)
	}
}

// SuppressNext marks path so that events arriving shortly after are treated
// as the echo of the editor's own save and dropped. Call right before
// writing the file.
func (w *Watcher) SuppressNext(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.suppressed[abs] = time.Now().Add(suppressWindow)
}

// watchLoop processes filesystem events. Editors produce several events per
// save, so events are collected per path and flushed after a quiet period.
func (w *Watcher) watchLoop() {
	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain initial timer

	pending := make(map[string]fsnotify.Op)

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[ev.Name] |= ev.Op
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			events := pending
			pending = make(map[string]fsnotify.Op)
			for path, op := range events {
				w.deliver(path, op)
			}

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// deliver publishes an event for one coalesced change, dropping paths that
// are not open files and echoes of our own saves.
func (w *Watcher) deliver(path string, op fsnotify.Op) {
	w.mu.Lock()
	if !w.files[path] {
		w.mu.Unlock()
		return
	}
	if deadline, ok := w.suppressed[path]; ok {
		delete(w.suppressed, path)
		if time.Now().Before(deadline) {
			w.mu.Unlock()
			return
		}
	}
	w.mu.Unlock()

	// A rename or remove followed by a create is an atomic replace; what
	// matters is whether the file still exists once the dust settles.
	if _, err := os.Stat(path); err != nil {
		w.bus.Publish(event.NewFileRemovedEvent(path))
		return
	}
	w.bus.Publish(event.NewFileChangedEvent(path))
}

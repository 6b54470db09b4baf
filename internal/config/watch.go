package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/lexicore/internal/debug"
)

// Watcher hot-reloads a ".lexicore.kdl" file: on a write event it reloads
// and validates the file, and calls onChange with the new Config only if
// reload succeeds, so a syntactically broken edit never replaces a
// known-good running config.
type Watcher struct {
	path      string
	watcher   *fsnotify.Watcher
	onChange  func(*Config)
	mu        sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher starts watching the directory containing path (fsnotify
// watches directories, not bare files, so renames-over-the-target are
// caught too) and invokes onChange on every successful reload.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		watcher:  fsw,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				debug.LogCache("config reload failed, keeping previous config: %v\n", err)
				continue
			}
			if w.onChange != nil {
				w.onChange(cfg)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			debug.LogCache("config watcher error: %v\n", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() { close(w.done) })
	return w.watcher.Close()
}
